// Package report turns recorded samples back into downtime windows and an
// uptime summary.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hamed0406/isplogger/internal/domain"
)

// Window is a run of consecutive DOWN samples. End is the first UP sample
// after the run, or the last DOWN sample when the record ends while down.
type Window struct {
	Start   time.Time
	End     time.Time
	Samples int
	Open    bool
}

func (w Window) Duration() time.Duration { return w.End.Sub(w.Start) }

type Summary struct {
	Samples int
	Up      int
	Down    int
	First   time.Time
	Last    time.Time
	Windows int
}

// Uptime is the fraction of UP samples, 0 when nothing was recorded.
func (s Summary) Uptime() float64 {
	if s.Samples == 0 {
		return 0
	}
	return float64(s.Up) / float64(s.Samples)
}

// Windows expects results in recording order.
func Windows(results []domain.ProbeResult) []Window {
	var (
		out []Window
		cur *Window
	)
	for _, r := range results {
		if !r.Up {
			if cur == nil {
				cur = &Window{Start: r.CheckedAt}
			}
			cur.Samples++
			cur.End = r.CheckedAt
			continue
		}
		if cur != nil {
			cur.End = r.CheckedAt
			out = append(out, *cur)
			cur = nil
		}
	}
	if cur != nil {
		cur.Open = true
		out = append(out, *cur)
	}
	return out
}

func Summarize(results []domain.ProbeResult) Summary {
	s := Summary{Samples: len(results)}
	for _, r := range results {
		if r.Up {
			s.Up++
		} else {
			s.Down++
		}
	}
	if len(results) > 0 {
		s.First = results[0].CheckedAt
		s.Last = results[len(results)-1].CheckedAt
	}
	s.Windows = len(Windows(results))
	return s
}

// HumanDuration renders d the way the report prints it, e.g. "3 minutes".
func HumanDuration(d time.Duration) string {
	if d <= 0 {
		return "0 seconds"
	}
	base := time.Unix(0, 0)
	return strings.TrimSpace(humanize.RelTime(base, base.Add(d), "", ""))
}

const stampLayout = "2006-01-02 15:04:05"

// Write prints one line per downtime window followed by the summary.
func Write(w io.Writer, results []domain.ProbeResult) error {
	windows := Windows(results)
	sum := Summarize(results)

	if sum.Samples == 0 {
		_, err := fmt.Fprintln(w, "no samples recorded")
		return err
	}

	for _, win := range windows {
		end := win.End.Format(stampLayout)
		if win.Open {
			end += " (still down)"
		}
		if _, err := fmt.Fprintf(w, "DOWN %s -> %s  %s, %s samples\n",
			win.Start.Format(stampLayout), end,
			HumanDuration(win.Duration()), humanize.Comma(int64(win.Samples))); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%s samples from %s to %s: %s up, %s down, %d outage(s), uptime %.2f%%\n",
		humanize.Comma(int64(sum.Samples)),
		sum.First.Format(stampLayout), sum.Last.Format(stampLayout),
		humanize.Comma(int64(sum.Up)), humanize.Comma(int64(sum.Down)),
		sum.Windows, sum.Uptime()*100)
	return err
}
