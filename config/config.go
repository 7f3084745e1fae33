package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Read when no config file is given explicitly. Missing is fine.
const DefaultFile = "timetable.yml"

type Config struct {
	// Feed directory holding stops.txt, stop_times.txt etc.
	Path string `yaml:"path" validate:"required"`

	// IANA zone used for query times. Blank means local time.
	Timezone string `yaml:"timezone" validate:"omitempty,timezone"`

	// Number of services to display.
	Limit int `yaml:"limit" validate:"gte=0"`

	Debug bool `yaml:"debug"`

	// Feed archive to sync from.
	URL string `yaml:"url" validate:"omitempty,url"`

	IgnoreHyphens bool `yaml:"ignore_hyphens"`
}

func Default() *Config {
	return &Config{
		Path:          ".",
		Limit:         5,
		IgnoreHyphens: true,
	}
}

// Builds configuration from defaults, the YAML file at path (or
// DefaultFile if path is blank and the file exists), and finally
// TIMETABLE_* environment variables. A .env file in the working
// directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	cfg := Default()

	file := path
	if file == "" {
		file = DefaultFile
	}
	data, err := os.ReadFile(file)
	if err != nil {
		if path != "" || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", file, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TIMETABLE_PATH"); v != "" {
		c.Path = v
	}
	if v := os.Getenv("TIMETABLE_TZ"); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv("TIMETABLE_URL"); v != "" {
		c.URL = v
	}

	if v := os.Getenv("TIMETABLE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TIMETABLE_LIMIT: %q", v)
		}
		c.Limit = n
	}

	if v, ok := os.LookupEnv("TIMETABLE_DEBUG"); ok {
		c.Debug = parseBool(v)
	}
	if v, ok := os.LookupEnv("TIMETABLE_IGNORE_HYPHENS"); ok {
		c.IgnoreHyphens = parseBool(v)
	}

	return nil
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	}
	return false
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Location for query times.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}
	return loc, nil
}
