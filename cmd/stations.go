package main

import (
	"github.com/spf13/cobra"

	"tidbyt.dev/timetable"
)

var stationsCmd = &cobra.Command{
	Use:   "stations [query]",
	Short: "Lists stations, optionally matching a name fragment",
	Args:  cobra.MaximumNArgs(1),
	RunE:  stations,
}

func stations(cmd *cobra.Command, args []string) error {
	stations, err := newSearch().Stations()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		stations = timetable.FilterStations(stations, args[0])
	}

	printStations(cmd.OutOrStdout(), stations)

	return nil
}
