package history

import "errors"

// Sentinel errors for history store operations. Callers wrap them with
// contextual detail via %w.
var (
	ErrOpen   = errors.New("history: open store")
	ErrSchema = errors.New("history: initialize schema")
	ErrAppend = errors.New("history: append event")
	ErrQuery  = errors.New("history: query events")
)
