package probe

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/hamed0406/isplogger/internal/domain"
)

const DefaultTimeout = 3 * time.Second

// ConnectOutcome describes an established (and already closed) session.
type ConnectOutcome struct {
	LocalAddr  string
	RemoteAddr string
	Latency    time.Duration
}

type TCPChecker struct {
	Timeout time.Duration
	Dialer  *net.Dialer
}

func NewTCPChecker(timeout time.Duration) *TCPChecker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &TCPChecker{
		Timeout: timeout,
		Dialer:  &net.Dialer{},
	}
}

// Dial opens a TCP session to target and closes it straight away. The error,
// when non-nil, is always a *TransportError.
func (c *TCPChecker) Dial(ctx context.Context, target domain.Target) (out ConnectOutcome, err error) {
	start := time.Now()
	defer func() {
		out.Latency = time.Since(start)
		if p := recover(); p != nil {
			err = &TransportError{Class: ClassInternal, Err: fmt.Errorf("panic during dial: %v", p)}
		}
	}()

	dctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	d := c.Dialer
	if d == nil {
		d = &net.Dialer{}
	}
	conn, derr := d.DialContext(dctx, "tcp", target.Address())
	if derr != nil {
		return out, &TransportError{Class: Classify(derr), Err: derr}
	}
	defer conn.Close()

	out.LocalAddr = conn.LocalAddr().String()
	out.RemoteAddr = conn.RemoteAddr().String()
	return out, nil
}

func (c *TCPChecker) Check(ctx context.Context, target domain.Target) CheckResult {
	out, err := c.Dial(ctx, target)
	latency := out.Latency.Seconds() * 1000 // ms
	if err != nil {
		return CheckResult{Name: "TCP", Success: false, Message: err.Error(), LatencyMS: latency}
	}
	return CheckResult{Name: "TCP", Success: true, LatencyMS: latency}
}

// Probe reports whether a TCP session to host:port can be established
// within timeout.
func Probe(host string, port int, timeout time.Duration) bool {
	return NewTCPChecker(timeout).Check(context.Background(), domain.Target{Host: host, Port: port}).Success
}
