package types

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for invocation failures.
// Use errors.Is(err, ErrXxx) for typed assertions rather than matching
// message text; the message text is a user-facing contract of its own.
var (
	// ErrUnknownArgument indicates a flag the CLI does not recognize, or a
	// recognized flag used without its required value.
	ErrUnknownArgument = errors.New("unknown argument")

	// ErrConfigNotFound indicates an explicit config path that cannot be read.
	ErrConfigNotFound = errors.New("config not found")

	// ErrInvalidConfig indicates a config that exists but cannot be used
	// (duplicate sections, two config sources in one directory, bad syntax).
	ErrInvalidConfig = errors.New("invalid config")

	// ErrNoQueryDefined indicates neither queries nor a config were available.
	ErrNoQueryDefined = errors.New("no query defined")

	// ErrUnknownBrowserQuery indicates a query string matching no selector.
	ErrUnknownBrowserQuery = errors.New("unknown browser query")

	// ErrUnknownBrowser indicates a browser name with no agent data.
	ErrUnknownBrowser = errors.New("unknown browser")

	// ErrUnknownVersion indicates a direct version missing from agent data.
	ErrUnknownVersion = errors.New("unknown version")

	// ErrUnknownRegion indicates a coverage region with no usage table.
	ErrUnknownRegion = errors.New("unknown region")

	// ErrStatsUnavailable indicates custom usage statistics that are
	// missing, unreadable or malformed.
	ErrStatsUnavailable = errors.New("stats unavailable")
)

// Error is a classified invocation error.
// Message is printed verbatim to the user; Kind drives errors.Is; Err keeps
// the underlying cause in the chain for errors.As.
type Error struct {
	// Kind is the sentinel error for classification (e.g., ErrNoQueryDefined).
	Kind error
	// Message is the user-facing text.
	Message string
	// Err is the underlying error, if any.
	Err error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches the target sentinel.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// Errorf creates a classified error with a formatted message.
func Errorf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a classified error around cause.
// Returns nil if cause is nil.
func Wrap(kind error, cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

// IsUsageError reports whether err should be followed by the usage text.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrUnknownArgument) || errors.Is(err, ErrNoQueryDefined)
}
