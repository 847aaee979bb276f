package domain

import (
	"net"
	"strconv"
	"time"
)

// Target is the single host:port the sampler probes.
type Target struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func (t Target) Address() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

func (t Target) String() string { return t.Address() }

// ProbeResult is one observation of the target. It is never mutated after
// the sampler builds it.
type ProbeResult struct {
	CheckedAt time.Time `json:"checked_at"`
	Host      string    `json:"host"`
	Port      int       `json:"port"`
	Up        bool      `json:"up"`
	LatencyMS float64   `json:"latency_ms"`
	Reason    string    `json:"reason,omitempty"` // failure class and cause, empty when up
}

func (r ProbeResult) Target() Target {
	return Target{Host: r.Host, Port: r.Port}
}

// Status renders Up as the word used on the console.
func (r ProbeResult) Status() string {
	if r.Up {
		return "UP"
	}
	return "DOWN"
}
