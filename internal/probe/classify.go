package probe

import (
	"context"
	"errors"
	"net"
	"os"
	"syscall"
)

// Failure classes reported as the reason of a DOWN observation.
const (
	ClassTimeout     = "timeout"
	ClassRefused     = "refused"
	ClassUnreachable = "unreachable"
	ClassReset       = "reset"
	ClassNXDomain    = "dns_nxdomain"
	ClassDNSFailure  = "dns_servfail_or_timeout"
	ClassInvalid     = "invalid_address"
	ClassCanceled    = "canceled"
	ClassTransport   = "transport"
	ClassInternal    = "internal"
)

// TransportError is the failure side of a Dial.
type TransportError struct {
	Class string
	Err   error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return e.Class
	}
	return e.Class + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// Classify maps a dial error onto one of the Class* constants.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	var de *net.DNSError
	if errors.As(err, &de) {
		if de.IsNotFound {
			return ClassNXDomain
		}
		return ClassDNSFailure
	}

	var ae *net.AddrError
	if errors.As(err, &ae) {
		return ClassInvalid
	}

	switch {
	case errors.Is(err, context.Canceled):
		return ClassCanceled
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return ClassTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		return ClassRefused
	case errors.Is(err, syscall.ECONNRESET):
		return ClassReset
	case errors.Is(err, syscall.EHOSTUNREACH), errors.Is(err, syscall.ENETUNREACH):
		return ClassUnreachable
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ClassTimeout
	}
	return ClassTransport
}
