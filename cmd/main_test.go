package main

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidbyt.dev/timetable/model"
)

const sampleFeed = "../testdata/sample_feed"

func execute(t *testing.T, args ...string) string {
	for _, name := range []string{
		"TIMETABLE_PATH",
		"TIMETABLE_URL",
		"TIMETABLE_LIMIT",
		"TIMETABLE_DEBUG",
		"TIMETABLE_IGNORE_HYPHENS",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	t.Setenv("TIMETABLE_TZ", "UTC")

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}

func TestSearchCommand(t *testing.T) {
	out := execute(t,
		"-p", sampleFeed,
		"-f", "airport",
		"-t", "bullfrog",
		"-a", "2017-12-21 07:30:00",
	)

	l := lines(out)
	require.Equal(t, 2, len(l), out)
	assert.Contains(t, l[0], "Departures")
	assert.Contains(t, l[0], "Arrivals")
	assert.Contains(t, l[0], "Routes")
	assert.Contains(t, l[1], "08:00")
	assert.Contains(t, l[1], "08:10")
	assert.Contains(t, l[1], "Airport - Bullfrog")
}

func TestStationsCommand(t *testing.T) {
	out := execute(t, "stations", "-p", sampleFeed, "CASINO")

	l := lines(out)
	require.Equal(t, 2, len(l), out)
	assert.Contains(t, l[0], "Stations")
	assert.Contains(t, l[1], "Stagecoach Hotel & Casino (Demo)")
}

func TestPrintServicesLimit(t *testing.T) {
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	services := []model.Service{}
	for i := 0; i < 3; i++ {
		services = append(services, model.Service{
			ShortName: "10",
			Departure: base.Add(time.Duration(i) * time.Hour),
			Arrival:   base.Add(time.Duration(i)*time.Hour + 30*time.Minute),
		})
	}

	for _, tc := range []struct {
		limit int
		rows  int
	}{
		{0, 0},
		{2, 2},
		{3, 3},
		{10, 3},
	} {
		out := &bytes.Buffer{}
		printServices(out, services, time.UTC, tc.limit)

		l := lines(out.String())
		assert.Equal(t, tc.rows+1, len(l), "limit %d", tc.limit)
	}

	out := &bytes.Buffer{}
	printServices(out, services, time.UTC, 1)
	assert.Contains(t, out.String(), "08:00")
	assert.Contains(t, out.String(), "08:30")
	assert.NotContains(t, out.String(), "09:00")
}

func TestPrintStations(t *testing.T) {
	out := &bytes.Buffer{}
	printStations(out, []model.Station{{Name: "Bullfrog (Demo)"}, {Name: "Furnace Creek Resort (Demo)"}})

	l := lines(out.String())
	require.Equal(t, 3, len(l))
	assert.Contains(t, l[1], "Bullfrog (Demo)")
	assert.Contains(t, l[2], "Furnace Creek Resort (Demo)")
}
