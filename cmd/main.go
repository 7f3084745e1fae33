package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rodaine/table"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tidbyt.dev/timetable"
	"tidbyt.dev/timetable/config"
	"tidbyt.dev/timetable/model"
)

// Set with -ldflags "-X main.version=..."
var version = "dev"

var rootCmd = &cobra.Command{
	Use:               "timetable",
	Short:             "GTFS timetable lookup",
	Long:              "Lists the next services connecting two stations of a GTFS feed",
	SilenceUsage:      true,
	Version:           version,
	Args:              cobra.NoArgs,
	PersistentPreRunE: setup,
	RunE:              search,
}

var (
	cfg *config.Config

	configFile string
	feedPath   string
	debug      bool

	from    string
	to      string
	at      string
	limit   int
	syncURL string
	syncZip string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "", "", "Config file (default "+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().StringVarP(&feedPath, "path", "p", ".", "GTFS feed directory")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug output")

	rootCmd.Flags().StringVarP(&from, "from", "f", "", "Depart from station NAME")
	rootCmd.Flags().StringVarP(&to, "to", "t", "", "Arrive to station NAME")
	rootCmd.Flags().StringVarP(&at, "at", "a", "", "Depart at TIME (YYYY-MM-DD HH:MM:SS, HH:MM[:SS] or epoch)")
	rootCmd.Flags().IntVarP(&limit, "limit", "l", 5, "Number of services to list")
	rootCmd.Flags().StringVarP(&syncURL, "url", "u", "", "Sync feed from URL before searching")
	rootCmd.Flags().StringVarP(&syncZip, "zip", "z", "", "Sync feed from ZIP before searching")

	rootCmd.AddCommand(stationsCmd)
	rootCmd.AddCommand(syncCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// Loads configuration and sets up logging. Flags given on the command
// line take precedence over config file and environment.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("path") {
		cfg.Path = feedPath
	}
	if flags.Changed("debug") {
		cfg.Debug = debug
	}
	if flags.Changed("limit") {
		cfg.Limit = limit
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if cfg.Debug {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	return nil
}

func newSearch() *timetable.Search {
	s := timetable.NewSearch(cfg.Path)
	s.IgnoreHyphens = cfg.IgnoreHyphens
	s.Logger = log.Logger.With().Str("feed", cfg.Path).Logger()
	return s
}

func search(cmd *cobra.Command, args []string) error {
	synced := false
	if syncURL != "" || syncZip != "" {
		if err := syncFeed(cmd.Context(), syncURL, syncZip, cfg.Path); err != nil {
			return err
		}
		synced = true
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	switch {
	case from != "" && to != "":
		t, err := timetable.ParseInstant(at, time.Now().In(loc))
		if err != nil {
			return fmt.Errorf("invalid --at: %w", err)
		}

		services, err := newSearch().Timetable(from, to, t)
		if err != nil {
			return err
		}
		printServices(cmd.OutOrStdout(), services, loc, cfg.Limit)

	case from != "" || to != "":
		stations, err := newSearch().Stations()
		if err != nil {
			return err
		}
		printStations(cmd.OutOrStdout(), timetable.FilterStations(stations, from, to))

	case !synced:
		return cmd.Usage()
	}

	return nil
}

func printServices(w io.Writer, services []model.Service, loc *time.Location, limit int) {
	if limit >= 0 && len(services) > limit {
		services = services[:limit]
	}

	tbl := table.New("Departures", "Arrivals", "Routes").WithWriter(w)
	for _, service := range services {
		row := timetable.NewRow(service, loc)
		tbl.AddRow(row.Departure, row.Arrival, row.Route)
	}
	tbl.Print()
}

func printStations(w io.Writer, stations []model.Station) {
	tbl := table.New("Stations").WithWriter(w)
	for _, station := range stations {
		tbl.AddRow(station.Name)
	}
	tbl.Print()
}
