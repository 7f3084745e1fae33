package model

import (
	"strings"
	"time"
)

// Holds all external facing types and constants.

type RouteType int

const (
	RouteTypeLightRail RouteType = 0
	RouteTypeSubway    RouteType = 1
	RouteTypeRail      RouteType = 2
	RouteTypeBus       RouteType = 3
	RouteTypeFerry     RouteType = 4
	RouteTypeCableCar  RouteType = 5
	RouteTypeGondola   RouteType = 6
	RouteTypeFunicular RouteType = 7
)

// Human readable label for the route type. Values outside the known
// set map to "Unknown".
func (t RouteType) String() string {
	switch t {
	case RouteTypeLightRail:
		return "Light Rail"
	case RouteTypeSubway:
		return "Subway"
	case RouteTypeRail:
		return "Rail"
	case RouteTypeBus:
		return "Bus"
	case RouteTypeFerry:
		return "Ferry"
	case RouteTypeCableCar:
		return "Cable Car"
	case RouteTypeGondola:
		return "Gondola"
	case RouteTypeFunicular:
		return "Funicular"
	}
	return "Unknown"
}

type Stop struct {
	ID   string
	Name string
	Lat  float64
	Lon  float64
}

// A scheduled visit of a trip to a stop. Arrival and Departure are
// offsets from local midnight and may exceed 24h.
type StopTime struct {
	TripID       string
	StopID       string
	StopSequence uint32
	Arrival      time.Duration
	Departure    time.Duration
}

type Trip struct {
	ID        string
	RouteID   string
	ServiceID string
	Headsign  string
}

type Route struct {
	ID        string
	ShortName string
	LongName  string
	Type      RouteType
}

// Weekly operating pattern of a service. StartDate and EndDate are
// inclusive and carry no time of day.
type Calendar struct {
	ServiceID string
	Weekday   [7]bool // indexed by time.Weekday
	StartDate time.Time
	EndDate   time.Time
}

// Reports whether the service runs on the calendar date of t.
func (c *Calendar) RunsOn(t time.Time) bool {
	if !c.Weekday[t.Weekday()] {
		return false
	}
	date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !date.Before(c.StartDate) && !date.After(c.EndDate)
}

type Station struct {
	Name string
}

// A single trip connecting an origin stop with a destination stop.
type Service struct {
	TripID        string
	RouteID       string
	RouteType     RouteType
	ShortName     string
	LongName      string
	Departure     time.Time
	Arrival       time.Time
	ArrivalStopID string
	ArrivalLon    float64
}

// Joins short and long route names, skipping blanks.
func (s *Service) Name() string {
	parts := []string{}
	for _, p := range []string{s.ShortName, s.LongName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " - ")
}
