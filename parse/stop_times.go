package parse

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"tidbyt.dev/timetable/model"
)

type StopTimeCSV struct {
	TripID        string `csv:"trip_id"`
	StopID        string `csv:"stop_id"`
	StopSequence  uint32 `csv:"stop_sequence"`
	ArrivalTime   string `csv:"arrival_time"`
	DepartureTime string `csv:"departure_time"`
	// Headsign      string `csv:"stop_headsign"`
	// PickupType    int8   `csv:"pickup_type"`
	// DropOffType   int8   `csv:"drop_off_type"`
}

// Parses a GTFS "H:MM:SS" clock value into an offset from midnight.
// Hours may exceed 23 for trips running past midnight.
func ParseClock(s string) (time.Duration, error) {
	split := strings.Split(strings.TrimSpace(s), ":")
	if len(split) != 3 {
		return 0, fmt.Errorf("found %d parts in '%s'", len(split), s)
	}

	hms := [3]int{}
	for i, str := range split {
		j, err := strconv.Atoi(str)
		if err != nil {
			return 0, fmt.Errorf("non-integer in '%s' pos %d", s, i)
		}
		hms[i] = j
	}

	if hms[0] < 0 || hms[0] > 99 {
		return 0, fmt.Errorf("invalid hour in '%s'", s)
	}

	if hms[1] < 0 || hms[1] > 59 {
		return 0, fmt.Errorf("invalid minute in '%s'", s)
	}

	if hms[2] < 0 || hms[2] > 59 {
		return 0, fmt.Errorf("invalid second in '%s'", s)
	}

	return time.Duration(hms[0])*time.Hour +
		time.Duration(hms[1])*time.Minute +
		time.Duration(hms[2])*time.Second, nil
}

func decodeStopTime(header []string, record []string) (model.StopTime, error) {
	st, err := unmarshalRecord[StopTimeCSV](header, record)
	if err != nil {
		return model.StopTime{}, errors.Wrap(err, "unmarshaling stop_time")
	}

	if st.TripID == "" {
		return model.StopTime{}, fmt.Errorf("missing trip_id")
	}
	if st.StopID == "" {
		return model.StopTime{}, fmt.Errorf("missing stop_id")
	}

	arrival, err := ParseClock(st.ArrivalTime)
	if err != nil {
		return model.StopTime{}, errors.Wrap(err, "parsing arrival_time")
	}

	departure, err := ParseClock(st.DepartureTime)
	if err != nil {
		return model.StopTime{}, errors.Wrap(err, "parsing departure_time")
	}

	return model.StopTime{
		TripID:       st.TripID,
		StopID:       st.StopID,
		StopSequence: st.StopSequence,
		Arrival:      arrival,
		Departure:    departure,
	}, nil
}

// Opens stop_times.txt in the feed directory.
func OpenStopTimes(dir string) (*Rows[model.StopTime], error) {
	return open(dir, TableStopTimes, decodeStopTime)
}
