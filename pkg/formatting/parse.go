package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content is not valid JSON for the target
// type, either bare or inside a markdown code fence.
var ErrParseFailed = errors.New("failed to parse response")

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// Unfence returns the body of the first markdown code fence in content,
// or the trimmed content when there is none.
func Unfence(content string) string {
	content = strings.TrimSpace(content)
	if m := fencePattern.FindStringSubmatch(content); len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}
	return content
}

// Parse unmarshals model output into T. Bare JSON is tried first, then the
// body of a code fence. A scalar such as "0.42" parses into float64.
func Parse[T any](content string) (T, error) {
	var result T
	trimmed := strings.TrimSpace(content)

	if err := json.Unmarshal([]byte(trimmed), &result); err == nil {
		return result, nil
	}

	if body := Unfence(trimmed); body != trimmed {
		if err := json.Unmarshal([]byte(body), &result); err == nil {
			return result, nil
		}
	}

	return result, fmt.Errorf("%w: %q", ErrParseFailed, trimmed)
}
