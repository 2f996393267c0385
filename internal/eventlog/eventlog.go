// Package eventlog appends every applied store event to a CSV file.
package eventlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cleared-dev/tally/internal/app"
)

// Entry is one row in the event log.
type Entry struct {
	Timestamp time.Time
	Event     string
	Details   string
	ErrorID   int // 0 when the state carried no error after the event
}

// Header is the CSV header for the event log.
const Header = "timestamp,event,details,error_id"

const (
	numFields    = 4
	colTimestamp = 0
	colEvent     = 1
	colDetails   = 2
	colErrorID   = 3
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colEvent] = e.Event
	row[colDetails] = e.Details
	if e.ErrorID != 0 {
		row[colErrorID] = strconv.Itoa(e.ErrorID)
	}
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	var errID int
	if record[colErrorID] != "" {
		errID, err = strconv.Atoi(record[colErrorID])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing error_id %q: %w", record[colErrorID], err)
		}
	}

	return Entry{
		Timestamp: ts,
		Event:     record[colEvent],
		Details:   record[colDetails],
		ErrorID:   errID,
	}, nil
}

// Append writes entries to the log at path, creating the file and header if
// needed.
func Append(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening event log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from the log at path.
// Returns an empty slice if the file does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening event log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading event log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Recorder returns a store listener that appends one entry per event to the
// log at path. Write failures are logged and otherwise ignored.
func Recorder(path string, logger *slog.Logger) app.Listener {
	if logger == nil {
		logger = slog.Default()
	}
	var mu sync.Mutex
	return func(e app.Event, s app.State) {
		entry := Entry{
			Timestamp: time.Now().UTC(),
			Event:     e.Name(),
			Details:   e.Details(),
		}
		if s.Error != nil {
			entry.ErrorID = s.Error.ErrorId
		}

		mu.Lock()
		defer mu.Unlock()
		if err := Append(path, []Entry{entry}); err != nil {
			logger.Warn("event log write failed", "path", path, "error", err)
		}
	}
}
