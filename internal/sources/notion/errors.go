package notion

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Failure classifies a FetchError.
type Failure string

const (
	FailureUnreachable   Failure = "unreachable"
	FailureInvalidSource Failure = "invalid_source"
	FailureRejected      Failure = "rejected"
	FailureMalformed     Failure = "malformed"
	FailureCanceled      Failure = "canceled"
)

var ErrInvalidSourceID = errors.New("invalid source id")

// FetchError reports a failed fetch cycle against one source. Page is the
// zero-based page index that failed, or -1 for non-paginated calls.
type FetchError struct {
	SourceID string
	Page     int
	Failure  Failure
	Status   int // upstream HTTP status, 0 when none was received
	Err      error
}

func (e *FetchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "notion %s: source %q", e.Failure, e.SourceID)
	if e.Page >= 0 {
		fmt.Fprintf(&b, " page %d", e.Page)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, " status %d", e.Status)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *FetchError) Unwrap() error { return e.Err }

// Temporary reports whether retrying the same request may succeed.
func (e *FetchError) Temporary() bool { return e.Failure == FailureUnreachable }

// IsTemporary reports whether err wraps a temporary FetchError.
func IsTemporary(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Temporary()
}

// NormalizeSourceID accepts dashed or compact UUIDs in any case and returns
// the canonical dashed lower-case form.
func NormalizeSourceID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidSourceID)
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidSourceID, id)
	}
	return u.String(), nil
}
