// Package models defines the core domain types for capflow: workflow
// stages, stage statuses, and the transition records persisted to the
// journal.
package models

import "context"

// Stage identifies one checkpoint in the ordered enabling workflow.
type Stage string

const (
	// StageStart is the entry pulse of the workflow. No capability is
	// checked for it; it exists so a decision policy observes workflow
	// initiation before the first real stage.
	StageStart Stage = "start"

	// StageRadio checks whether the platform radio is powered on.
	StageRadio Stage = "radio"

	// StagePermission checks whether the runtime permission is granted.
	StagePermission Stage = "permission"

	// StageService checks whether the background service is enabled.
	StageService Stage = "service"

	// StageTerminal marks workflow completion. It has no successor.
	StageTerminal Stage = "terminal"
)

// stageOrder fixes the total order of the workflow.
var stageOrder = []Stage{
	StageStart,
	StageRadio,
	StagePermission,
	StageService,
	StageTerminal,
}

// Stages returns the full ordered stage sequence, including StageTerminal.
func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// RealStages returns the stages that correspond to an actual capability
// check, in order.
func RealStages() []Stage {
	return []Stage{StageRadio, StagePermission, StageService}
}

// Next returns the successor of s. StageTerminal is its own successor,
// and any unknown value maps to StageTerminal.
func (s Stage) Next() Stage {
	for i, stage := range stageOrder {
		if stage == s {
			if i+1 < len(stageOrder) {
				return stageOrder[i+1]
			}
			return StageTerminal
		}
	}
	return StageTerminal
}

// IsTerminal reports whether s marks workflow completion.
func (s Stage) IsTerminal() bool {
	return s == StageTerminal
}

// IsReal reports whether s corresponds to an actual capability check.
func (s Stage) IsReal() bool {
	return s == StageRadio || s == StagePermission || s == StageService
}

// Status classifies why a stage does or does not need user action.
type Status string

const (
	// StatusUnset means the stage has not been evaluated yet.
	StatusUnset Status = "unset"

	// StatusAlreadySatisfied means the capability was on before the
	// workflow reached the stage.
	StatusAlreadySatisfied Status = "already_satisfied"

	// StatusSatisfiedByUser means the user completed the requested action
	// and the capability is now on.
	StatusSatisfiedByUser Status = "satisfied_by_user"

	// StatusNotApplicable means the stage is meaningless on this platform.
	StatusNotApplicable Status = "not_applicable"

	// StatusDeclinedAtPrompt means the user declined the confirmation
	// dialog for the stage.
	StatusDeclinedAtPrompt Status = "declined_at_prompt"

	// StatusDeclinedAtAction means the user accepted the dialog but the
	// platform action did not leave the capability satisfied.
	StatusDeclinedAtAction Status = "declined_at_action"

	// StatusSkipped means the decision policy bypassed the stage.
	StatusSkipped Status = "skipped"
)

// IsDeclined reports whether the status records a cancellation, either at
// the dialog or at the platform action.
func (s Status) IsDeclined() bool {
	return s == StatusDeclinedAtPrompt || s == StatusDeclinedAtAction
}

// IsSatisfied reports whether the status records a satisfied capability.
func (s Status) IsSatisfied() bool {
	return s == StatusAlreadySatisfied || s == StatusSatisfiedByUser
}

// Classify maps a capability check result to the status a stage enters
// evaluation with. It returns StatusNotApplicable when the stage does not
// apply on this platform, StatusAlreadySatisfied when the capability is
// already on, and StatusUnset otherwise, in which case the caller proceeds
// to request the platform action.
func Classify(stage Stage, satisfied, applicable bool) Status {
	if !applicable {
		return StatusNotApplicable
	}
	if satisfied {
		return StatusAlreadySatisfied
	}
	return StatusUnset
}

// Event is the immutable value handed to a decision policy at each stage
// transition. Ctx is the execution context the workflow runs under.
type Event struct {
	Stage  Stage
	Status Status
	Ctx    context.Context
}

// NextStage returns the successor of the event's stage.
func (e Event) NextStage() Stage {
	return e.Stage.Next()
}
