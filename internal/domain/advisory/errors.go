package advisory

import "errors"

// ErrEmptyQuery indicates the query was empty after trimming; no network call is made.
var ErrEmptyQuery = errors.New("query is required")

// ErrInvalidContentType indicates an unknown content type value.
var ErrInvalidContentType = errors.New("invalid content type")

// ErrScoreOutOfRange indicates the AI returned a score outside [0,100].
var ErrScoreOutOfRange = errors.New("risk score out of range")
