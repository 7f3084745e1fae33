package parse

import (
	"fmt"

	"tidbyt.dev/timetable/model"
)

type TripCSV struct {
	ID        string `csv:"trip_id"`
	RouteID   string `csv:"route_id"`
	ServiceID string `csv:"service_id"`
	Headsign  string `csv:"trip_headsign"`
	// ShortName   string `csv:"trip_short_name"`
	// DirectionID int8   `csv:"direction_id"`
	// BlockID     string `csv:"block_id"`
	// ShapeID     string `csv:"shape_id"`
}

func decodeTrip(header []string, record []string) (model.Trip, error) {
	t, err := unmarshalRecord[TripCSV](header, record)
	if err != nil {
		return model.Trip{}, fmt.Errorf("unmarshaling trip: %w", err)
	}

	if t.ID == "" {
		return model.Trip{}, fmt.Errorf("empty trip_id")
	}
	if t.RouteID == "" {
		return model.Trip{}, fmt.Errorf("empty route_id for trip_id '%s'", t.ID)
	}

	return model.Trip{
		ID:        t.ID,
		RouteID:   t.RouteID,
		ServiceID: t.ServiceID,
		Headsign:  t.Headsign,
	}, nil
}

// Opens trips.txt in the feed directory.
func OpenTrips(dir string) (*Rows[model.Trip], error) {
	return open(dir, TableTrips, decodeTrip)
}
