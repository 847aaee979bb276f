package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/hamed0406/isplogger/internal/domain"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// series builds one sample per minute from a pattern of '+' (up) and '-' (down).
func series(pattern string) []domain.ProbeResult {
	out := make([]domain.ProbeResult, 0, len(pattern))
	for i, c := range pattern {
		out = append(out, domain.ProbeResult{
			CheckedAt: t0.Add(time.Duration(i) * time.Minute),
			Host:      "8.8.8.8",
			Port:      53,
			Up:        c == '+',
		})
	}
	return out
}

func at(min int) time.Time { return t0.Add(time.Duration(min) * time.Minute) }

func TestWindows(t *testing.T) {
	cases := []struct {
		pattern string
		want    []Window
	}{
		{"++++", nil},
		{"", nil},
		{"+--+", []Window{{Start: at(1), End: at(3), Samples: 2}}},
		{"-+--", []Window{
			{Start: at(0), End: at(1), Samples: 1},
			{Start: at(2), End: at(3), Samples: 2, Open: true},
		}},
		{"---", []Window{{Start: at(0), End: at(2), Samples: 3, Open: true}}},
	}
	for _, c := range cases {
		got := Windows(series(c.pattern))
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("Windows(%q) mismatch (-want +got):\n%s", c.pattern, diff)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(series("++-+--++"))
	want := Summary{Samples: 8, Up: 5, Down: 3, First: at(0), Last: at(7), Windows: 2}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Fatalf("Summary mismatch (-want +got):\n%s", diff)
	}
	if got := s.Uptime(); got != 0.625 {
		t.Fatalf("Uptime = %v", got)
	}
	if got := (Summary{}).Uptime(); got != 0 {
		t.Fatalf("empty Uptime = %v", got)
	}
}

func TestHumanDuration(t *testing.T) {
	cases := map[time.Duration]string{
		0:                "0 seconds",
		30 * time.Second: "30 seconds",
		3 * time.Minute:  "3 minutes",
		2 * time.Hour:    "2 hours",
	}
	for d, want := range cases {
		if got := HumanDuration(d); got != want {
			t.Errorf("HumanDuration(%s) = %q, want %q", d, got, want)
		}
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, series("+---+-")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"DOWN 2024-05-01 12:01:00 -> 2024-05-01 12:04:00  3 minutes, 3 samples",
		"DOWN 2024-05-01 12:05:00 -> 2024-05-01 12:05:00 (still down)  0 seconds, 1 samples",
		"6 samples from 2024-05-01 12:00:00 to 2024-05-01 12:05:00: 2 up, 4 down, 2 outage(s), uptime 33.33%",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "no samples recorded\n" {
		t.Fatalf("got %q", buf.String())
	}
}
