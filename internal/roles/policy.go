package roles

import (
	"fmt"
	"slices"
)

// Operation names an externally visible action subject to role checks.
type Operation string

const (
	CreateQuery    Operation = "query.create"
	GetQuery       Operation = "query.get"
	ListQueries    Operation = "query.list"
	UpdateTriage   Operation = "triage.update"
	ListTriaged    Operation = "triage.list"
	ListUrgent     Operation = "triage.urgent"
	GenerateReview Operation = "review.generate"
	ListPending    Operation = "review.pending"
	DecideReview   Operation = "review.decide"
	LatestReview   Operation = "review.latest"
	UploadFile     Operation = "file.upload"
	ListFiles      Operation = "file.list"
	DownloadFile   Operation = "file.download"
	ReadPrompts    Operation = "prompt.read"
	ManagePrompts  Operation = "prompt.manage"
)

var (
	anyone    = []Role{Patient, Doctor, Admin}
	reviewers = []Role{Doctor, Admin}
)

var policy = map[Operation][]Role{
	CreateQuery:    anyone,
	GetQuery:       anyone,
	ListQueries:    reviewers,
	UpdateTriage:   reviewers,
	ListTriaged:    reviewers,
	ListUrgent:     reviewers,
	GenerateReview: anyone,
	ListPending:    reviewers,
	DecideReview:   {Doctor},
	LatestReview:   anyone,
	UploadFile:     anyone,
	ListFiles:      anyone,
	DownloadFile:   anyone,
	ReadPrompts:    reviewers,
	ManagePrompts:  {Admin},
}

// Allowed returns the roles permitted to perform op.
func Allowed(op Operation) []Role {
	return slices.Clone(policy[op])
}

// Authorize returns ErrForbidden unless role may perform op.
// Unknown operations are denied.
func Authorize(role Role, op Operation) error {
	if !slices.Contains(policy[op], role) {
		return fmt.Errorf("%w: %s cannot %s", ErrForbidden, role, op)
	}
	return nil
}

// Gate parses token and authorizes the resulting role for op.
func Gate(token string, op Operation) (Role, error) {
	role, err := Parse(token)
	if err != nil {
		return "", err
	}
	if err := Authorize(role, op); err != nil {
		return "", err
	}
	return role, nil
}
