package probe

import (
	"context"

	"github.com/hamed0406/isplogger/internal/domain"
)

// CheckResult is the collapsed outcome of a single probe.
//
// Fields:
//   - Success: true only when the TCP session was established.
//   - Message: "<class>: <cause>" on failure, empty on success.
//   - LatencyMS: time spent dialing, including failed attempts.
type CheckResult struct {
	Name      string  `json:"name"`
	Success   bool    `json:"success"`
	Message   string  `json:"message,omitempty"`
	LatencyMS float64 `json:"latency_ms"`
}

// Checker performs a single check against a target. Implementations never
// return errors; every failure is folded into CheckResult.
type Checker interface {
	Check(ctx context.Context, target domain.Target) CheckResult
}
