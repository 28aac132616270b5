package prompts

import (
	"encoding/json"
	"slices"
)

// Stage identifies the evaluation stage a prompt targets.
type Stage string

const (
	StageEnhance Stage = "enhance"
	StageScore   Stage = "score"
	StageRespond Stage = "respond"
)

var stages = []Stage{
	StageEnhance,
	StageScore,
	StageRespond,
}

// Stages returns the list of valid stages.
func Stages() []Stage {
	return slices.Clone(stages)
}

// UnmarshalJSON validates that the decoded string is a known stage value.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseStage(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStage validates a string as a known stage.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}
