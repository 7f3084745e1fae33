package parse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidbyt.dev/timetable/model"
)

func writeTable(t *testing.T, dir string, table string, content string) {
	require.NoError(t, os.WriteFile(filepath.Join(dir, table+".txt"), []byte(content), 0644))
}

// Drains rows, returning decoded records and row errors.
func drain[T any](t *testing.T, rows *Rows[T]) ([]T, []*RowError) {
	values := []T{}
	rowErrs := []*RowError{}
	for rows.Next() {
		v, err := rows.Row()
		if err != nil {
			rowErr, ok := err.(*RowError)
			require.True(t, ok, "expected *RowError, got %T", err)
			rowErrs = append(rowErrs, rowErr)
			continue
		}
		values = append(values, v)
	}
	require.NoError(t, rows.Err())
	require.NoError(t, rows.Close())
	return values, rowErrs
}

func TestOpenMissing(t *testing.T) {
	dir := t.TempDir()

	_, err := OpenStops(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceNotFound)

	_, err = OpenStops(filepath.Join(dir, "nope"))
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestOpenEmpty(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, TableStops, "")

	rows, err := OpenStops(dir)
	require.NoError(t, err)

	stops, rowErrs := drain(t, rows)
	assert.Equal(t, []model.Stop{}, stops)
	assert.Equal(t, []*RowError{}, rowErrs)
}

func TestRowsSkipBadRows(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, TableStops, `stop_id,stop_name,stop_lat,stop_lon
a,Alpha,1.5,2.5
b,Beta,x,2.5
,Nameless,1,1
c,"Gamma, the third",3,4
d,Delta
`)

	rows, err := OpenStops(dir)
	require.NoError(t, err)

	stops, rowErrs := drain(t, rows)
	assert.Equal(t, []model.Stop{
		{ID: "a", Name: "Alpha", Lat: 1.5, Lon: 2.5},
		{ID: "c", Name: "Gamma, the third", Lat: 3, Lon: 4},
		{ID: "d", Name: "Delta"},
	}, stops)

	require.Equal(t, 2, len(rowErrs))
	assert.Equal(t, TableStops, rowErrs[0].Table)
	assert.Equal(t, 3, rowErrs[0].Line)
	assert.Equal(t, 4, rowErrs[1].Line)
	assert.Contains(t, rowErrs[1].Error(), "stops.txt line 4")
}

func TestRowsBOM(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, TableTrips, "\xef\xbb\xbftrip_id,route_id,service_id\r\nt1,r1,s1\r\n")

	rows, err := OpenTrips(dir)
	require.NoError(t, err)

	trips, rowErrs := drain(t, rows)
	assert.Equal(t, []model.Trip{{ID: "t1", RouteID: "r1", ServiceID: "s1"}}, trips)
	assert.Equal(t, 0, len(rowErrs))
}

func TestRowsColumnOrder(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, TableRoutes, `route_type,route_long_name,extra,route_id,route_short_name
3,Airport - Bullfrog,whatever,AB,10
`)

	rows, err := OpenRoutes(dir)
	require.NoError(t, err)

	routes, _ := drain(t, rows)
	assert.Equal(t, []model.Route{{
		ID:        "AB",
		ShortName: "10",
		LongName:  "Airport - Bullfrog",
		Type:      model.RouteTypeBus,
	}}, routes)
}

func TestRowsLine(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, TableTrips, "trip_id,route_id\nt1,r\n\nt2,r\n")

	rows, err := OpenTrips(dir)
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	assert.Equal(t, 2, rows.Line())
	require.True(t, rows.Next())
	assert.Equal(t, 4, rows.Line())
	assert.False(t, rows.Next())
	assert.False(t, rows.Next())
}
