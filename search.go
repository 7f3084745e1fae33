package timetable

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tidbyt.dev/timetable/model"
	"tidbyt.dev/timetable/parse"
)

type role int

const (
	roleDeparture role = iota + 1
	roleArrival
)

// Answers timetable queries against a GTFS feed directory. Every call
// re-reads the tables it needs; a Search holds no per-query state and
// can be shared.
type Search struct {
	Path string

	// Ignore hyphens when matching stop names.
	IgnoreHyphens bool

	Logger zerolog.Logger
}

func NewSearch(path string) *Search {
	return &Search{
		Path:          path,
		IgnoreHyphens: true,
		Logger:        zerolog.Nop(),
	}
}

// Intermediate state of a single timetable query. Each stage narrows
// what the next one has to look at.
type query struct {
	origin      string
	destination string
	at          time.Time
	midnight    time.Time

	origins      []string
	destinations []string
	roles        map[string]role
	stops        map[string]model.Stop

	departureStopTimes []model.StopTime
	arrivalStopTimes   []model.StopTime

	// trip_id -> departure from an origin stop
	departures map[string]time.Time

	trips      map[string]model.Trip
	routeIDs   map[string]bool
	serviceIDs map[string]bool
	routes     map[string]model.Route

	// service_ids running on the query date
	running map[string]bool
}

func newQuery(origin string, destination string, at time.Time) *query {
	return &query{
		origin:      origin,
		destination: destination,
		at:          at,
		midnight:    time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location()),
		roles:       map[string]role{},
		stops:       map[string]model.Stop{},
		departures:  map[string]time.Time{},
		trips:       map[string]model.Trip{},
		routeIDs:    map[string]bool{},
		serviceIDs:  map[string]bool{},
		routes:      map[string]model.Route{},
		running:     map[string]bool{},
	}
}

func (s *Search) normalize(name string) string {
	name = strings.ToLower(name)
	if s.IgnoreHyphens {
		name = strings.ReplaceAll(name, "-", "")
	}
	return name
}

// Returns services departing a stop matching from after at, and
// arriving later on the same trip at a stop matching to. Results are
// ordered by departure time.
//
// Matching is case insensitive substring containment. A stop matching
// both from and to is only considered as an origin.
func (s *Search) Timetable(from string, to string, at time.Time) ([]model.Service, error) {
	q := newQuery(s.normalize(from), s.normalize(to), at)

	if err := s.searchStops(q); err != nil {
		return nil, err
	}
	if err := s.searchStopTimes(q); err != nil {
		return nil, err
	}
	s.searchDepartures(q)
	if err := s.searchTrips(q); err != nil {
		return nil, err
	}
	if err := s.searchRoutes(q); err != nil {
		return nil, err
	}
	if err := s.searchCalendar(q); err != nil {
		return nil, err
	}

	return s.searchServices(q), nil
}

// Lists the distinct stop names of the feed, sorted.
func (s *Search) Stations() ([]model.Station, error) {
	stations := []model.Station{}
	_, err := scan(s, parse.OpenStops, func(stop model.Stop) {
		stations = append(stations, model.Station{Name: stop.Name})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(stations, func(i, j int) bool {
		return stations[i].Name < stations[j].Name
	})

	deduped := stations[:0]
	for i, station := range stations {
		if i > 0 && station.Name == stations[i-1].Name {
			continue
		}
		deduped = append(deduped, station)
	}

	return deduped, nil
}

// Counts from a single table scan.
type scanStats struct {
	Loaded  int
	Skipped int
}

// Reads an entire table, passing every decodable row to fn. Rows that
// fail to decode are logged and skipped.
func scan[T any](
	s *Search,
	open func(dir string) (*parse.Rows[T], error),
	fn func(T),
) (scanStats, error) {
	stats := scanStats{}

	rows, err := open(s.Path)
	if err != nil {
		return stats, fmt.Errorf("scanning feed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		stats.Loaded++
		row, err := rows.Row()
		if err != nil {
			stats.Skipped++
			s.Logger.Debug().Err(err).Msg("skipping row")
			continue
		}
		fn(row)
	}

	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("scanning feed: %w", err)
	}

	return stats, nil
}

// Search stop candidates for origin and destination
func (s *Search) searchStops(q *query) error {
	stats, err := scan(s, parse.OpenStops, func(stop model.Stop) {
		name := s.normalize(stop.Name)
		if strings.Contains(name, q.origin) {
			q.roles[stop.ID] = roleDeparture
			q.origins = append(q.origins, stop.Name)
			q.stops[stop.ID] = stop
		} else if strings.Contains(name, q.destination) {
			q.roles[stop.ID] = roleArrival
			q.destinations = append(q.destinations, stop.Name)
			q.stops[stop.ID] = stop
		}
	})
	if err != nil {
		return err
	}

	if e := s.Logger.Debug(); e.Enabled() {
		e.Strs("origins", distinct(q.origins)).
			Strs("destinations", distinct(q.destinations)).
			Msg("matched stops")
	}
	s.logStage(parse.TableStops, stats, len(q.roles))

	return nil
}

// Split stop times into departure and arrival candidates
func (s *Search) searchStopTimes(q *query) error {
	stats, err := scan(s, parse.OpenStopTimes, func(st model.StopTime) {
		switch q.roles[st.StopID] {
		case roleDeparture:
			q.departureStopTimes = append(q.departureStopTimes, st)
		case roleArrival:
			q.arrivalStopTimes = append(q.arrivalStopTimes, st)
		}
	})
	if err != nil {
		return err
	}

	s.logStage(parse.TableStopTimes, stats, len(q.departureStopTimes)+len(q.arrivalStopTimes))

	return nil
}

// Trips leaving an origin candidate after the query time. When a trip
// visits several origin candidates, the last one in file order is
// kept.
func (s *Search) searchDepartures(q *query) {
	for _, st := range q.departureStopTimes {
		departure := q.midnight.Add(st.Departure)
		if departure.After(q.at) {
			q.departures[st.TripID] = departure
		}
	}

	s.Logger.Debug().Int("trips", len(q.departures)).Msg("found departures")
}

// Get routes and services from trips
func (s *Search) searchTrips(q *query) error {
	stats, err := scan(s, parse.OpenTrips, func(trip model.Trip) {
		if _, found := q.departures[trip.ID]; !found {
			return
		}
		q.serviceIDs[trip.ServiceID] = true
		q.routeIDs[trip.RouteID] = true
		q.trips[trip.ID] = trip
	})
	if err != nil {
		return err
	}

	s.logStage(parse.TableTrips, stats, len(q.trips))

	return nil
}

// Get routes from their ids
func (s *Search) searchRoutes(q *query) error {
	stats, err := scan(s, parse.OpenRoutes, func(route model.Route) {
		if q.routeIDs[route.ID] {
			q.routes[route.ID] = route
		}
	})
	if err != nil {
		return err
	}

	s.logStage(parse.TableRoutes, stats, len(q.routes))

	return nil
}

// Get services from their ids that are running on the query date
func (s *Search) searchCalendar(q *query) error {
	stats, err := scan(s, parse.OpenCalendar, func(cal model.Calendar) {
		if !q.serviceIDs[cal.ServiceID] {
			return
		}
		if cal.RunsOn(q.at) {
			q.running[cal.ServiceID] = true
		}
	})
	if err != nil {
		return err
	}

	s.logStage(parse.TableCalendar, stats, len(q.running))

	return nil
}

// Join arrival candidates with the departures, trips, routes and
// services found so far.
//
// If no retained service has a calendar entry running on the query
// date, trips are not filtered by service at all. This keeps feeds
// lacking calendar data usable.
func (s *Search) searchServices(q *query) []model.Service {
	services := []model.Service{}

	for _, st := range q.arrivalStopTimes {
		departure, found := q.departures[st.TripID]
		if !found {
			continue
		}

		// Arriving before departing means the trip visits the
		// destination first, e.g. the return leg.
		arrival := q.midnight.Add(st.Arrival)
		if !arrival.After(departure) {
			continue
		}

		trip, found := q.trips[st.TripID]
		if !found {
			continue
		}

		if len(q.running) > 0 && !q.running[trip.ServiceID] {
			continue
		}

		route, found := q.routes[trip.RouteID]
		if !found {
			continue
		}

		services = append(services, model.Service{
			TripID:        trip.ID,
			RouteID:       route.ID,
			RouteType:     route.Type,
			ShortName:     route.ShortName,
			LongName:      route.LongName,
			Departure:     departure,
			Arrival:       arrival,
			ArrivalStopID: st.StopID,
			ArrivalLon:    q.stops[st.StopID].Lon,
		})
	}

	sort.SliceStable(services, func(i, j int) bool {
		return services[i].Departure.Before(services[j].Departure)
	})

	s.Logger.Debug().Int("services", len(services)).Msg("joined services")

	return services
}

func (s *Search) logStage(table string, stats scanStats, retained int) {
	s.Logger.Debug().
		Str("table", table).
		Int("loaded", stats.Loaded).
		Int("skipped", stats.Skipped).
		Int("retained", retained).
		Msg("scanned table")
}

func distinct(names []string) []string {
	sorted := append([]string{}, names...)
	sort.Strings(sorted)

	out := []string{}
	for i, name := range sorted {
		if i > 0 && name == sorted[i-1] {
			continue
		}
		out = append(out, name)
	}
	return out
}

// Filters stations to those whose lower cased name contains one of
// the (non-empty) queries.
func FilterStations(stations []model.Station, queries ...string) []model.Station {
	filtered := []model.Station{}
	for _, station := range stations {
		name := strings.ToLower(station.Name)
		for _, q := range queries {
			if q != "" && strings.Contains(name, strings.ToLower(q)) {
				filtered = append(filtered, station)
				break
			}
		}
	}
	return filtered
}
