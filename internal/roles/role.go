// Package roles resolves the caller's role for each request and decides which
// operations that role may perform.
//
// The role set is closed. An absent role token means patient; an explicit
// token that is not one of patient, doctor, or admin is rejected rather than
// silently downgraded.
package roles

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role is the coarse per-request authorization tag.
type Role string

const (
	Patient Role = "patient"
	Doctor  Role = "doctor"
	Admin   Role = "admin"
)

var weight = map[Role]int{
	Patient: 1,
	Doctor:  2,
	Admin:   3,
}

// All returns every role in ascending privilege order.
func All() []Role {
	return []Role{Patient, Doctor, Admin}
}

// Parse maps a raw role token to a Role. Matching is case-insensitive and
// ignores surrounding whitespace. An empty token yields Patient.
func Parse(token string) (Role, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return Patient, nil
	}
	r := Role(token)
	if _, ok := weight[r]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, token)
	}
	return r, nil
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	_, ok := weight[r]
	return ok
}

func (r Role) String() string {
	return string(r)
}

// UnmarshalJSON rejects values outside the role set.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Highest returns the most privileged role in the set, or Patient when empty.
func Highest(set ...Role) Role {
	best := Patient
	for _, r := range set {
		if weight[r] > weight[best] {
			best = r
		}
	}
	return best
}
