// Package csvfile appends probe results to a flat CSV record file.
//
// The file is opened for every append and closed before Append returns, so a
// crash can at worst truncate the row being written. The header row is
// written only by the append that creates the file.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/hamed0406/isplogger/internal/domain"
	"github.com/hamed0406/isplogger/internal/repo"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Header is the fixed first row of every record file.
var Header = []string{"Date", "Time", "Host", "Port", "Status"}

var ErrBadRecord = errors.New("malformed record")

var _ repo.ResultStore = (*Store)(nil)

type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

func (s *Store) Append(ctx context.Context, r domain.ProbeResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, created, err := s.open()
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if created {
		_ = w.Write(Header)
	}
	_ = w.Write(row(r))
	w.Flush()

	werr := w.Error()
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("write record %s: %w", s.path, werr)
	}
	if cerr != nil {
		return fmt.Errorf("close record %s: %w", s.path, cerr)
	}
	return nil
}

// open creates the file exclusively when it is absent, otherwise opens it
// for appending. created reports which of the two happened.
func (s *Store) open() (f *os.File, created bool, err error) {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, false, fmt.Errorf("ensure record directory: %w", err)
		}
	}

	f, err = os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err == nil {
		return f, true, nil
	}
	if !errors.Is(err, os.ErrExist) {
		return nil, false, fmt.Errorf("create record %s: %w", s.path, err)
	}

	f, err = os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, false, fmt.Errorf("open record %s: %w", s.path, err)
	}
	return f, false, nil
}

func row(r domain.ProbeResult) []string {
	ts := r.CheckedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	status := "0"
	if r.Up {
		status = "1"
	}
	return []string{
		ts.Format(DateLayout),
		ts.Format(TimeLayout),
		r.Host,
		strconv.Itoa(r.Port),
		status,
	}
}

// Read parses a record file back into results. Timestamps are interpreted in
// loc, which should be the zone the file was written in.
func Read(rd io.Reader, loc *time.Location) ([]domain.ProbeResult, error) {
	c := csv.NewReader(rd)
	c.FieldsPerRecord = len(Header)

	head, err := c.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, name := range Header {
		if head[i] != name {
			return nil, fmt.Errorf("%w: unexpected header %v", ErrBadRecord, head)
		}
	}

	var out []domain.ProbeResult
	for {
		rec, err := c.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		r, err := parseRow(rec, loc)
		if err != nil {
			line, _ := c.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, r)
	}
}

// ReadFile is Read for a path, using the local time zone.
func ReadFile(path string) ([]domain.ProbeResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, time.Local)
}

func parseRow(rec []string, loc *time.Location) (domain.ProbeResult, error) {
	ts, err := time.ParseInLocation(DateLayout+" "+TimeLayout, rec[0]+" "+rec[1], loc)
	if err != nil {
		return domain.ProbeResult{}, fmt.Errorf("%w: %v", ErrBadRecord, err)
	}
	port, err := strconv.Atoi(rec[3])
	if err != nil {
		return domain.ProbeResult{}, fmt.Errorf("%w: port %q", ErrBadRecord, rec[3])
	}

	var up bool
	switch rec[4] {
	case "1":
		up = true
	case "0":
		up = false
	default:
		return domain.ProbeResult{}, fmt.Errorf("%w: status %q", ErrBadRecord, rec[4])
	}

	return domain.ProbeResult{
		CheckedAt: ts,
		Host:      rec[2],
		Port:      port,
		Up:        up,
	}, nil
}
