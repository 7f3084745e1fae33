package parse

import (
	"fmt"
	"time"

	"tidbyt.dev/timetable/model"
)

type CalendarCSV struct {
	ServiceID string `csv:"service_id"`
	StartDate string `csv:"start_date"`
	EndDate   string `csv:"end_date"`
	Monday    int8   `csv:"monday"`
	Tuesday   int8   `csv:"tuesday"`
	Wednesday int8   `csv:"wednesday"`
	Thursday  int8   `csv:"thursday"`
	Friday    int8   `csv:"friday"`
	Saturday  int8   `csv:"saturday"`
	Sunday    int8   `csv:"sunday"`
}

// Parses a GTFS YYYYMMDD date. The result is midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("20060102", s, time.UTC)
}

func decodeCalendar(header []string, record []string) (model.Calendar, error) {
	c, err := unmarshalRecord[CalendarCSV](header, record)
	if err != nil {
		return model.Calendar{}, fmt.Errorf("unmarshaling calendar: %w", err)
	}

	if c.ServiceID == "" {
		return model.Calendar{}, fmt.Errorf("empty service_id")
	}

	cal := model.Calendar{ServiceID: c.ServiceID}

	flags := [7]int8{
		time.Sunday:    c.Sunday,
		time.Monday:    c.Monday,
		time.Tuesday:   c.Tuesday,
		time.Wednesday: c.Wednesday,
		time.Thursday:  c.Thursday,
		time.Friday:    c.Friday,
		time.Saturday:  c.Saturday,
	}
	for day, value := range flags {
		switch value {
		case 1:
			cal.Weekday[day] = true
		case 0:
		default:
			return model.Calendar{}, fmt.Errorf("invalid %s value '%d'", time.Weekday(day), value)
		}
	}

	cal.StartDate, err = ParseDate(c.StartDate)
	if err != nil {
		return model.Calendar{}, fmt.Errorf("parsing start_date: %w", err)
	}

	cal.EndDate, err = ParseDate(c.EndDate)
	if err != nil {
		return model.Calendar{}, fmt.Errorf("parsing end_date: %w", err)
	}

	return cal, nil
}

// Opens calendar.txt in the feed directory.
func OpenCalendar(dir string) (*Rows[model.Calendar], error) {
	return open(dir, TableCalendar, decodeCalendar)
}
