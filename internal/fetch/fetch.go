// Package fetch performs single bounded-timeout retrievals of source pages.
package fetch

import (
	"context"
	"fmt"
)

// Kind classifies a fetch failure.
type Kind int

const (
	// KindNetwork covers connection and transport errors.
	KindNetwork Kind = iota
	// KindTimeout covers per-request deadline expiry.
	KindTimeout
	// KindHTTPStatus covers non-2xx responses.
	KindHTTPStatus
)

// Error is a typed fetch failure. Callers match on Kind instead of
// string-inspecting transport errors.
type Error struct {
	Kind       Kind
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTimeout:
		return fmt.Sprintf("fetch %s: timeout", e.URL)
	case KindHTTPStatus:
		return fmt.Sprintf("fetch %s: http status %d", e.URL, e.StatusCode)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Fetcher retrieves one resource by address and returns its text content.
// Implementations apply a per-request timeout and never retry; retry policy
// belongs to the caller.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}
