package timetable

import (
	"time"

	"tidbyt.dev/timetable/model"
)

// A service ready for display.
type Row struct {
	Departure string
	Arrival   string
	Route     string
	Mode      string
}

// Formats a service as clock times in loc. A nil loc keeps the
// service's own location.
func NewRow(s model.Service, loc *time.Location) Row {
	departure, arrival := s.Departure, s.Arrival
	if loc != nil {
		departure = departure.In(loc)
		arrival = arrival.In(loc)
	}

	return Row{
		Departure: departure.Format("15:04"),
		Arrival:   arrival.Format("15:04"),
		Route:     s.Name(),
		Mode:      s.RouteType.String(),
	}
}
