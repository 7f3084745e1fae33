package parse

import (
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/spkg/bom"
)

// The five tables read from a feed directory.
const (
	TableStops     = "stops"
	TableStopTimes = "stop_times"
	TableTrips     = "trips"
	TableRoutes    = "routes"
	TableCalendar  = "calendar"
)

// Returned (wrapped) when a table file is missing from the feed.
var ErrSourceNotFound = errors.New("source not found")

// A single row that could not be decoded. Scans report these per row
// and carry on.
type RowError struct {
	Table string
	Line  int
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s.txt line %d: %v", e.Table, e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Path of a table file inside a feed directory.
func TablePath(dir string, table string) string {
	return filepath.Join(dir, table+".txt")
}

// Forward-only iterator over the rows of one table. Each call to Next
// advances by one record; Row returns the decoded record or a
// *RowError for that record alone. Err reports a failure that ended
// the scan early.
type Rows[T any] struct {
	table  string
	file   *os.File
	reader *csv.Reader
	header []string
	decode func(header []string, record []string) (T, error)

	line   int
	value  T
	rowErr error
	err    error
	done   bool
}

func open[T any](dir string, table string, decode func([]string, []string) (T, error)) (*Rows[T], error) {
	path := TablePath(dir, table)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(ErrSourceNotFound, "opening %s", path)
		}
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	// Lazy quotes survive sloppy quoting, and a variable field count
	// lets ragged rows through to the decoder. The BOM reader strips
	// unicode BOMs if present.
	r := csv.NewReader(bom.NewReader(f))
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	rows := &Rows[T]{
		table:  table,
		file:   f,
		reader: r,
		decode: decode,
	}

	header, err := r.Read()
	if err == io.EOF {
		// No header, no rows.
		rows.done = true
		return rows, nil
	}
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "reading %s header", path)
	}
	rows.header = header
	rows.line = 1

	return rows, nil
}

// Advances to the next record. Returns false at end of table or on a
// fatal read error.
func (r *Rows[T]) Next() bool {
	if r.done {
		return false
	}

	var zero T
	r.value = zero
	r.rowErr = nil

	record, err := r.reader.Read()
	if err == io.EOF {
		r.done = true
		return false
	}

	var perr *csv.ParseError
	if errors.As(err, &perr) {
		r.line = perr.Line
		r.rowErr = &RowError{Table: r.table, Line: perr.Line, Err: perr.Err}
		return true
	}
	if err != nil {
		r.err = errors.Wrapf(err, "reading %s.txt", r.table)
		r.done = true
		return false
	}

	r.line, _ = r.reader.FieldPos(0)

	value, err := r.decode(r.header, record)
	if err != nil {
		r.rowErr = &RowError{Table: r.table, Line: r.line, Err: err}
		return true
	}
	r.value = value

	return true
}

// The current record, or a *RowError if it failed to decode.
func (r *Rows[T]) Row() (T, error) {
	return r.value, r.rowErr
}

// Line number of the current record.
func (r *Rows[T]) Line() int {
	return r.line
}

// Fatal error that ended the scan, if any.
func (r *Rows[T]) Err() error {
	return r.err
}

func (r *Rows[T]) Close() error {
	r.done = true
	return r.file.Close()
}

// Feeds gocsv a header plus a single record, so that a conversion
// failure only affects the record at hand.
type singleRecord struct {
	records [][]string
}

func (s *singleRecord) Read() ([]string, error) {
	if len(s.records) == 0 {
		return nil, io.EOF
	}
	rec := s.records[0]
	s.records = s.records[1:]
	return rec, nil
}

func (s *singleRecord) ReadAll() ([][]string, error) {
	recs := s.records
	s.records = nil
	return recs, nil
}

func unmarshalRecord[C any](header []string, record []string) (*C, error) {
	out := []*C{}
	in := &singleRecord{records: [][]string{header, record}}
	if err := gocsv.UnmarshalCSV(in, &out); err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("decoded %d records from one row", len(out))
	}
	return out[0], nil
}
