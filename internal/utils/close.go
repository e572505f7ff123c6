package utils

import (
	"io"
)

// maxDrain bounds how much of an unread body is discarded before closing.
const maxDrain = 64 << 10

// Close closes c and ignores any error.
// Use for best-effort cleanup in defer where error handling is not critical.
func Close(c io.Closer) {
	_ = c.Close()
}

// DrainAndClose discards what is left of an HTTP body, up to a bound, so the
// connection can be reused, then closes it.
func DrainAndClose(rc io.ReadCloser) {
	_, _ = io.CopyN(io.Discard, rc, maxDrain)
	_ = rc.Close()
}
