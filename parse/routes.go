package parse

import (
	"fmt"
	"strconv"
	"strings"

	"tidbyt.dev/timetable/model"
)

type RouteCSV struct {
	ID        string `csv:"route_id"`
	AgencyID  string `csv:"agency_id"`
	ShortName string `csv:"route_short_name"`
	LongName  string `csv:"route_long_name"`
	Type      string `csv:"route_type"`
	// Desc      string `csv:"route_desc"`
	// URL       string `csv:"route_url"`
	// Color     string `csv:"route_color"`
	// TextColor string `csv:"route_text_color"`
}

func decodeRoute(header []string, record []string) (model.Route, error) {
	r, err := unmarshalRecord[RouteCSV](header, record)
	if err != nil {
		return model.Route{}, fmt.Errorf("unmarshaling route: %w", err)
	}

	// ID is required
	if r.ID == "" {
		return model.Route{}, fmt.Errorf("route has no route_id")
	}

	// RouteType is required. Values outside the basic set are kept
	// and labelled as unknown.
	if strings.TrimSpace(r.Type) == "" {
		return model.Route{}, fmt.Errorf("route_id '%s' has no route_type", r.ID)
	}
	routeType, err := strconv.Atoi(strings.TrimSpace(r.Type))
	if err != nil {
		return model.Route{}, fmt.Errorf("route_id '%s' has invalid route_type: %w", r.ID, err)
	}

	return model.Route{
		ID:        r.ID,
		ShortName: r.ShortName,
		LongName:  r.LongName,
		Type:      model.RouteType(routeType),
	}, nil
}

// Opens routes.txt in the feed directory.
func OpenRoutes(dir string) (*Rows[model.Route], error) {
	return open(dir, TableRoutes, decodeRoute)
}
