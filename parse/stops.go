package parse

import (
	"fmt"

	"tidbyt.dev/timetable/model"
)

type StopCSV struct {
	ID   string  `csv:"stop_id"`
	Code string  `csv:"stop_code"`
	Name string  `csv:"stop_name"`
	Lat  float64 `csv:"stop_lat"`
	Lon  float64 `csv:"stop_lon"`
	// ZoneID        string  `csv:"zone_id"`
	// LocationType  int8   `csv:"location_type"`
	// ParentStation string `csv:"parent_station"`
}

func decodeStop(header []string, record []string) (model.Stop, error) {
	st, err := unmarshalRecord[StopCSV](header, record)
	if err != nil {
		return model.Stop{}, fmt.Errorf("unmarshaling stop: %w", err)
	}

	if st.ID == "" {
		return model.Stop{}, fmt.Errorf("empty stop_id")
	}

	return model.Stop{
		ID:   st.ID,
		Name: st.Name,
		Lat:  st.Lat,
		Lon:  st.Lon,
	}, nil
}

// Opens stops.txt in the feed directory.
func OpenStops(dir string) (*Rows[model.Stop], error) {
	return open(dir, TableStops, decodeStop)
}
