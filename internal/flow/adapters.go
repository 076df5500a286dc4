package flow

import (
	"context"

	"github.com/capkit/capflow/internal/models"
)

// CapabilityAdapter is the platform-facing collaborator: it answers whether
// a stage's capability is satisfied and performs the asynchronous action
// that requests it. Completion of a request is never observed here; it is
// reported later through Engine.DeliverResult or a refocus notification.
type CapabilityAdapter interface {
	// IsSatisfied reports whether the stage's capability is currently on.
	IsSatisfied(stage models.Stage) bool

	// IsApplicable reports whether the stage is meaningful on this
	// platform. Stages that are not applicable pass through with
	// StatusNotApplicable and no user interaction.
	IsApplicable(stage models.Stage) bool

	// RequestSatisfaction fires the platform action that asks the user to
	// satisfy the stage's capability. It must not block; the outcome is
	// delivered out of band with the given token.
	RequestSatisfaction(stage models.Stage, ctx context.Context, token Token)

	// WillSystemPromptAppear reports whether the platform will show its
	// own dialog for the stage's request. Used by the default policy to
	// decide whether an instructional notification is needed.
	WillSystemPromptAppear(stage models.Stage) bool
}

// ConfirmOptions configures a confirmation prompt. An empty DeclineLabel
// makes the prompt informational: a single button that always accepts.
type ConfirmOptions struct {
	AcceptLabel  string
	DeclineLabel string
}

// PresentationAdapter shows confirmation dialogs and notifications to the
// user. ShowConfirmation blocks until the user chooses.
type PresentationAdapter interface {
	ShowConfirmation(text string, opts ConfirmOptions) bool
	ShowNotification(text string)
}

// Subscription is a handle to a registered focus listener. Unsubscribe
// releases it; the engine does this when the workflow stops.
type Subscription interface {
	Unsubscribe()
}

// FocusListener receives host surface focus changes.
type FocusListener interface {
	// FocusGained is called when the host surface regains foreground
	// focus.
	FocusGained()

	// FocusLost is called when the host surface loses foreground focus,
	// for example because a settings screen was opened on top of it.
	FocusLost()
}

// FocusSource lets the engine observe host surface focus changes for
// implicit resumption. Hosts without focus semantics can omit it and call
// Engine.NotifyRefocus directly.
type FocusSource interface {
	Subscribe(listener FocusListener) Subscription
}

// Recorder persists stage transitions to a journal. Recording is
// best-effort: the engine logs failures and continues.
type Recorder interface {
	Record(ctx context.Context, transition *models.Transition) error
}
