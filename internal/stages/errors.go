package stages

import "errors"

// ErrUpstreamDegraded marks a stage call that failed and was replaced by its
// fallback. It is logged and counted, never returned to callers.
var ErrUpstreamDegraded = errors.New("upstream stage degraded")

var (
	ErrEmptyCompletion = errors.New("backend returned no content")
	ErrMalformedScore  = errors.New("score is not a number")
)
