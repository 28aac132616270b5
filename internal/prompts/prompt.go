// Package prompts manages the system instructions sent to each evaluation
// stage. Every stage has built-in instructions; an administrator may store
// named overrides and activate at most one per stage.
package prompts

import "github.com/google/uuid"

// Prompt represents a named instruction override for an evaluation stage.
type Prompt struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Stage        Stage     `json:"stage"`
	Instructions string    `json:"instructions"`
	Description  *string   `json:"description"`
	Active       bool      `json:"active"`
}

// CreateCommand carries the data needed to create a new prompt override.
type CreateCommand struct {
	Name         string  `json:"name"`
	Stage        Stage   `json:"stage"`
	Instructions string  `json:"instructions"`
	Description  *string `json:"description"`
}

// UpdateCommand carries the data needed to update an existing prompt override.
type UpdateCommand struct {
	Name         string  `json:"name"`
	Stage        Stage   `json:"stage"`
	Instructions string  `json:"instructions"`
	Description  *string `json:"description"`
}

// Validate reports missing required fields.
func (c CreateCommand) Validate() error {
	return validateFields(c.Name, c.Stage, c.Instructions)
}

// Validate reports missing required fields.
func (c UpdateCommand) Validate() error {
	return validateFields(c.Name, c.Stage, c.Instructions)
}

func validateFields(name string, stage Stage, instructions string) error {
	if name == "" {
		return ErrNameRequired
	}
	if _, err := ParseStage(string(stage)); err != nil {
		return err
	}
	if instructions == "" {
		return ErrInstructionsRequired
	}
	return nil
}
