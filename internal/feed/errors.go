package feed

import "errors"

var (
	// ErrUnsupportedFormat is returned by the dispatcher for unknown
	// format tokens. The HTTP layer surfaces it as 404.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrFutureWindow is returned when a requested year/week lies after
	// the current ISO week. No agenda exists for the future.
	ErrFutureWindow = errors.New("requested window lies in the future")

	// ErrMalformedTimestamp marks a stored start/end value that cannot be
	// parsed. The build fails fast; timestamps are never coerced to a
	// default.
	ErrMalformedTimestamp = errors.New("malformed timestamp")
)

// FutureWindowMessage is the fixed user-facing rejection for future windows.
const FutureWindowMessage = "Keine Daten für zukünftige Wochen"
