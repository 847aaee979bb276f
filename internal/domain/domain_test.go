package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTarget_Address(t *testing.T) {
	cases := []struct {
		in   Target
		want string
	}{
		{Target{Host: "8.8.8.8", Port: 53}, "8.8.8.8:53"},
		{Target{Host: "example.com", Port: 443}, "example.com:443"},
		{Target{Host: "::1", Port: 8080}, "[::1]:8080"},
	}
	for _, c := range cases {
		if got := c.in.Address(); got != c.want {
			t.Fatalf("Address(%+v)=%q want %q", c.in, got, c.want)
		}
		if got := c.in.String(); got != c.want {
			t.Fatalf("String(%+v)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestProbeResult_Status(t *testing.T) {
	if got := (ProbeResult{Up: true}).Status(); got != "UP" {
		t.Fatalf("want UP, got %q", got)
	}
	if got := (ProbeResult{Up: false}).Status(); got != "DOWN" {
		t.Fatalf("want DOWN, got %q", got)
	}
}

func TestProbeResult_JSONRoundTrip(t *testing.T) {
	want := ProbeResult{
		CheckedAt: time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC),
		Host:      "1.1.1.1",
		Port:      53,
		Up:        false,
		LatencyMS: 3000,
		Reason:    "timeout: i/o timeout",
	}
	b, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got ProbeResult
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Host != want.Host || got.Port != want.Port || got.Up != want.Up ||
		got.Reason != want.Reason || !got.CheckedAt.Equal(want.CheckedAt) {
		t.Fatalf("mismatch after round-trip:\nwant=%+v\ngot =%+v", want, got)
	}
	if got.Target() != (Target{Host: "1.1.1.1", Port: 53}) {
		t.Fatalf("unexpected target: %+v", got.Target())
	}
}
