package testutil

// Helpers and configuration for tests.

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Demo feed shipped with the repository, relative to the repository
// root.
const SampleFeed = "testdata/sample_feed"

// Writes files to a fresh feed directory and returns its path. Files
// are given without extension ("stops" for stops.txt), one line per
// string.
func BuildFeed(t testing.TB, files map[string][]string) string {
	dir := t.TempDir()

	// Fill in missing files with header only dummy data.
	for _, table := range []struct {
		name   string
		header string
	}{
		{"stops", "stop_id,stop_name,stop_lat,stop_lon"},
		{"stop_times", "trip_id,arrival_time,departure_time,stop_id,stop_sequence"},
		{"trips", "route_id,service_id,trip_id"},
		{"routes", "route_id,route_short_name,route_long_name,route_type"},
		{"calendar", "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date"},
	} {
		if files[table.name] == nil {
			files[table.name] = []string{table.header}
		}
	}

	for name, content := range files {
		path := filepath.Join(dir, name+".txt")
		err := os.WriteFile(path, []byte(strings.Join(content, "\n")), 0644)
		require.NoError(t, err)
	}

	return dir
}

// Removes a table from a feed directory.
func RemoveTable(t testing.TB, dir string, name string) {
	require.NoError(t, os.Remove(filepath.Join(dir, name+".txt")))
}

func BuildZip(
	t testing.TB,
	files map[string][]string,
) []byte {

	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	for filename, content := range files {
		f, err := w.Create(filename)
		require.NoError(t, err)
		_, err = f.Write([]byte(strings.Join(content, "\n")))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return buf.Bytes()
}
