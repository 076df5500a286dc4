package models

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidTransition indicates a transition record missing required fields.
var ErrInvalidTransition = errors.New("invalid transition record")

// DirectiveKind names the decision a policy returned for a transition.
// The engine defines the semantics; the journal stores the name.
type DirectiveKind string

const (
	DirectiveAdvance  DirectiveKind = "advance"
	DirectiveSkipNext DirectiveKind = "skip_next"
	DirectiveStop     DirectiveKind = "stop"
	DirectivePause    DirectiveKind = "pause"
)

// Transition is one append-only journal entry: a stage transition event
// together with the directive the decision policy returned for it.
type Transition struct {
	// ID is the unique identifier for the record.
	ID string `json:"id"`

	// Timestamp is when the transition occurred.
	Timestamp time.Time `json:"timestamp"`

	// Workflow identifies the engine run the transition belongs to.
	Workflow string `json:"workflow"`

	// Stage is the stage the event was emitted for.
	Stage Stage `json:"stage"`

	// Status classifies the stage outcome at emission time.
	Status Status `json:"status"`

	// Directive is the kind of directive the policy returned.
	Directive DirectiveKind `json:"directive"`

	// Token is the correlation token carried by the directive, if any.
	Token string `json:"token,omitempty"`

	// Metadata contains additional context.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Validate checks that required fields are present.
func (t *Transition) Validate() error {
	if strings.TrimSpace(t.Workflow) == "" {
		return errors.Join(ErrInvalidTransition, errors.New("workflow is required"))
	}
	if strings.TrimSpace(string(t.Stage)) == "" {
		return errors.Join(ErrInvalidTransition, errors.New("stage is required"))
	}
	if strings.TrimSpace(string(t.Status)) == "" {
		return errors.Join(ErrInvalidTransition, errors.New("status is required"))
	}
	return nil
}
