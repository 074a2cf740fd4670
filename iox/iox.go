// Package iox provides I/O helpers for reading small documents from stores.
package iox

import (
	"errors"
	"fmt"
	"io"
)

// ErrTooLarge is returned by ReadAllClose when the input exceeds the limit.
var ErrTooLarge = errors.New("input exceeds size limit")

// DiscardClose closes c and discards the error.
// Use in defer statements where close errors are unactionable:
//
//	defer iox.DiscardClose(f)
func DiscardClose(c io.Closer) { _ = c.Close() }

// ReadAllClose reads rc to EOF and closes it. Reading more than limit bytes
// fails with ErrTooLarge; a limit <= 0 disables the check.
func ReadAllClose(rc io.ReadCloser, limit int64) ([]byte, error) {
	defer DiscardClose(rc)

	if limit <= 0 {
		return io.ReadAll(rc)
	}

	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, limit)
	}
	return data, nil
}
