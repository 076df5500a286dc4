// Package flow implements the resumable stage sequencer that drives a
// capability-enabling workflow: an ordered list of prerequisite stages, a
// pluggable decision policy consulted at every transition, and resumption
// entry points for results that arrive after an arbitrary, externally
// triggered delay.
package flow

import (
	"context"

	"github.com/google/uuid"

	"github.com/capkit/capflow/internal/models"
)

// Token correlates an external result callback with the directive that
// requested the platform action.
type Token string

// DefaultToken is the reserved sentinel used when a directive does not set
// an explicit correlation token.
const DefaultToken Token = "capflow.token.default"

// NewToken returns a fresh correlation token.
func NewToken() Token {
	return Token(uuid.New().String())
}

// Directive is a decision policy's instruction for what the engine should
// do next. Directives are immutable values: the configuration methods
// return modified copies, so the engine and tests can compare them by
// value.
type Directive struct {
	kind           models.DirectiveKind
	dialogText     string
	toastText      string
	token          Token
	overrideCtx    context.Context
	implicitResume bool
}

// DoNext instructs the engine to advance to the next stage.
func DoNext() Directive {
	return Directive{kind: models.DirectiveAdvance, token: DefaultToken}
}

// SkipNext instructs the engine to bypass the next stage entirely, with no
// capability check and no platform action.
func SkipNext() Directive {
	return Directive{kind: models.DirectiveSkipNext, token: DefaultToken}
}

// Stop instructs the engine to finish the workflow. Stop is terminal: no
// further stage advancement occurs after it is processed.
func Stop() Directive {
	return Directive{kind: models.DirectiveStop, token: DefaultToken}
}

// Pause freezes the engine until an external caller supplies a
// continuation directive via Engine.Resume.
func Pause() Directive {
	return Directive{kind: models.DirectivePause, token: DefaultToken}
}

// WithDialog attaches confirmation dialog text presented before the
// directive takes effect.
func (d Directive) WithDialog(text string) Directive {
	d.dialogText = text
	return d
}

// WithToast attaches notification text shown when the directive takes
// effect.
func (d Directive) WithToast(text string) Directive {
	d.toastText = text
	return d
}

// WithToken sets the correlation token the engine will hand to the
// capability adapter and require back on explicit result delivery.
func (d Directive) WithToken(token Token) Directive {
	d.token = token
	return d
}

// WithContext sets an override execution context used for the capability
// request instead of the workflow's own context.
func (d Directive) WithContext(ctx context.Context) Directive {
	d.overrideCtx = ctx
	return d
}

// WithImplicitResume enables resumption when the host surface regains
// foreground focus, without an explicit result delivery call.
func (d Directive) WithImplicitResume() Directive {
	d.implicitResume = true
	return d
}

// Kind returns the directive kind.
func (d Directive) Kind() models.DirectiveKind { return d.kind }

// DialogText returns the confirmation dialog text, if any.
func (d Directive) DialogText() string { return d.dialogText }

// ToastText returns the notification text, if any.
func (d Directive) ToastText() string { return d.toastText }

// Token returns the correlation token.
func (d Directive) Token() Token { return d.token }

// Context returns the override execution context, or nil.
func (d Directive) Context() context.Context { return d.overrideCtx }

// ImplicitResume reports whether refocus-triggered resumption is enabled.
func (d Directive) ImplicitResume() bool { return d.implicitResume }

// ShouldPresentDialog reports whether a confirmation dialog must be shown
// before the directive takes effect. Pause directives never present.
func (d Directive) ShouldPresentDialog() bool {
	return d.dialogText != "" && d.kind != models.DirectivePause
}

// ShouldShowToast reports whether notification text is configured.
func (d Directive) ShouldShowToast() bool {
	return d.toastText != ""
}
