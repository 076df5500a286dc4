package flow

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/capkit/capflow/internal/logging"
	"github.com/capkit/capflow/internal/models"
)

// Engine errors.
var (
	// ErrNotPaused is returned by Resume when the engine is not paused.
	ErrNotPaused = errors.New("engine is not paused")

	// ErrNoPendingResult is returned by DeliverResult when no platform
	// action is awaiting completion.
	ErrNoPendingResult = errors.New("no external result is pending")
)

// Config contains engine configuration. The zero value is usable; Start
// fills in defaults.
type Config struct {
	// Workflow identifies this engine run in logs and the journal.
	// Default: a fresh UUID.
	Workflow string

	// Context is the execution context the workflow runs under, handed to
	// capability requests unless a directive overrides it.
	// Default: context.Background().
	Context context.Context

	// Decide is the decision policy consulted at every stage transition.
	// Default: DefaultPolicy over the capability adapter.
	Decide DecisionFunc

	// Focus optionally wires host surface focus changes into the engine
	// for implicit resumption.
	Focus FocusSource

	// Recorder optionally journals every stage transition.
	Recorder Recorder
}

// DecisionFunc decides what the engine does next given a workflow event.
type DecisionFunc func(event models.Event) Directive

// Engine drives the enabling workflow: it evaluates stages in order, asks
// the decision policy for a directive at each transition, presents any
// configured dialog or notification, and suspends whenever a platform
// action's outcome must be observed later.
//
// The engine has no internal concurrency. It is a cooperative state
// machine driven by host callbacks; a mutex serializes the entry points so
// callbacks arriving on different goroutines cannot interleave, but no two
// stage evaluations ever run concurrently.
type Engine struct {
	capability CapabilityAdapter
	presenter  PresentationAdapter
	decide     DecisionFunc
	recorder   Recorder
	logger     zerolog.Logger

	workflow string
	ctx      context.Context

	mu        sync.Mutex
	stage     models.Stage
	last      Directive
	paused    bool
	awaiting  bool
	suspended bool
	closed    bool
	sub       Subscription
}

// focusRelay forwards focus callbacks from a FocusSource to the engine.
type focusRelay struct {
	engine *Engine
}

func (r focusRelay) FocusGained() { r.engine.NotifyRefocus() }
func (r focusRelay) FocusLost()   { r.engine.NotifyFocusLost() }

// Start creates an engine and immediately begins the workflow: the entry
// pulse for StageStart is synthesized with StatusUnset and routed to the
// decision policy, so the policy observes initiation before any capability
// is checked. By the time Start returns the engine is either finished,
// paused, or suspended awaiting an external result.
func Start(capability CapabilityAdapter, presenter PresentationAdapter, cfg Config) *Engine {
	if cfg.Workflow == "" {
		cfg.Workflow = uuid.New().String()
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.Decide == nil {
		cfg.Decide = DefaultPolicy(capability)
	}

	e := &Engine{
		capability: capability,
		presenter:  presenter,
		decide:     cfg.Decide,
		recorder:   cfg.Recorder,
		logger:     logging.Component("flow").With().Str("workflow", cfg.Workflow).Logger(),
		workflow:   cfg.Workflow,
		ctx:        cfg.Context,
		stage:      models.StageStart,
	}

	if cfg.Focus != nil {
		e.sub = cfg.Focus.Subscribe(focusRelay{engine: e})
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.logger.Info().Msg("workflow starting")
	e.emit(models.StatusUnset)
	return e
}

// CurrentStage returns the stage the engine is currently on.
func (e *Engine) CurrentStage() models.Stage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stage
}

// IsStageSatisfied reports whether the given stage's capability is
// currently satisfied.
func (e *Engine) IsStageSatisfied(stage models.Stage) bool {
	return e.capability.IsSatisfied(stage)
}

// Done reports whether the workflow has finished, either by reaching the
// terminal stage or by processing a Stop directive.
func (e *Engine) Done() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// Paused reports whether the engine is frozen by a Pause directive.
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// DeliverResult reports completion of a previously requested platform
// action. The token must match the pending directive's token, and the
// pending directive must not have implicit resumption enabled; otherwise
// the call is a guarded no-op so stale or foreign callbacks can never be
// applied out of order.
//
// Calling DeliverResult with no pending action is a caller contract
// violation and returns ErrNoPendingResult. Results arriving after the
// workflow finished are ignored.
func (e *Engine) DeliverResult(token Token) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deliver(token, false)
}

// NotifyRefocus reports that the host surface regained foreground focus.
// If the engine suspended the host by its own action and the pending
// directive enabled implicit resumption, the pending stage is re-checked
// exactly as if a matching result had been delivered explicitly.
func (e *Engine) NotifyRefocus() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || !e.suspended {
		return
	}
	e.suspended = false

	if !e.awaiting || !e.last.ImplicitResume() {
		return
	}
	_ = e.deliver(e.last.Token(), true)
}

// NotifyFocusLost reports that the host surface lost foreground focus.
// The engine marks itself suspended only when its own platform request is
// what pushed the host to the background; unrelated focus changes do not
// arm implicit resumption.
func (e *Engine) NotifyFocusLost() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	if e.awaiting && e.stage != models.StageStart {
		e.suspended = true
	}
}

// Resume continues a paused engine with a replacement directive, which is
// processed exactly as if the decision policy had returned it: its dialog
// is presented, then it takes effect. Resume advances at most one stage.
//
// Calling Resume while the engine is not paused is a caller contract
// violation and returns ErrNotPaused.
func (e *Engine) Resume(directive Directive) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || !e.paused {
		return ErrNotPaused
	}
	e.paused = false
	e.last = directive
	e.logger.Debug().Str("kind", string(directive.Kind())).Msg("resuming paused workflow")
	e.handleDirective()
	return nil
}

// deliver re-checks satisfaction of the current stage and re-enters the
// decide step with the result. Caller holds e.mu.
func (e *Engine) deliver(token Token, implicit bool) error {
	if e.closed {
		// The workflow already finished and unregistered; late results
		// are dropped.
		return nil
	}
	if !e.awaiting {
		return ErrNoPendingResult
	}
	if token != e.last.Token() || implicit != e.last.ImplicitResume() {
		e.logger.Debug().
			Str("token", string(token)).
			Bool("implicit", implicit).
			Msg("dropping mismatched external result")
		return nil
	}

	e.awaiting = false

	if e.capability.IsSatisfied(e.stage) {
		e.emit(models.StatusSatisfiedByUser)
	} else {
		e.emit(models.StatusDeclinedAtAction)
	}
	return nil
}

// emit builds the event for the current stage, asks the decision policy
// for a directive, journals the transition, and processes the directive.
// Caller holds e.mu.
func (e *Engine) emit(status models.Status) {
	event := models.Event{Stage: e.stage, Status: status, Ctx: e.ctx}

	e.logger.Debug().
		Str("stage", string(event.Stage)).
		Str("status", string(event.Status)).
		Msg("stage transition")

	e.last = e.decide(event)
	e.record(event, e.last)
	e.handleDirective()
}

// handleDirective presents the stored directive's dialog, if any, then
// applies it. A Stop directive carrying dialog text presents a one-button
// informational dialog; everything else presents accept/decline.
// Caller holds e.mu.
func (e *Engine) handleDirective() {
	d := e.last
	if !d.ShouldPresentDialog() {
		e.finishDirective(false)
		return
	}

	opts := ConfirmOptions{AcceptLabel: "Accept", DeclineLabel: "Deny"}
	if d.Kind() == models.DirectiveStop {
		opts = ConfirmOptions{AcceptLabel: "OK"}
	}
	accepted := e.presenter.ShowConfirmation(d.DialogText(), opts)
	e.finishDirective(!accepted)
}

// finishDirective applies the stored directive. declined marks a dialog
// cancellation: the successor stage is entered with StatusDeclinedAtPrompt
// and no platform action is performed for it.
// Caller holds e.mu.
func (e *Engine) finishDirective(declined bool) {
	d := e.last

	if d.ShouldShowToast() && !declined {
		e.presenter.ShowNotification(d.ToastText())
	}

	switch d.Kind() {
	case models.DirectivePause:
		e.paused = true
		e.logger.Info().Str("stage", string(e.stage)).Msg("workflow paused")

	case models.DirectiveStop:
		e.terminate("stopped by directive")

	case models.DirectiveAdvance, models.DirectiveSkipNext:
		e.stage = e.stage.Next()

		entry := models.StatusUnset
		if d.Kind() == models.DirectiveSkipNext {
			entry = models.StatusSkipped
		}
		if declined {
			entry = models.StatusDeclinedAtPrompt
		}
		e.evaluate(entry)
	}
}

// evaluate enters the current stage with the given entry status. Declined
// and skipped entries short-circuit the capability check; otherwise the
// stage is classified and, when unsatisfied, the platform action is
// requested and the engine suspends until a result arrives.
// Caller holds e.mu.
func (e *Engine) evaluate(entry models.Status) {
	if e.stage.IsTerminal() {
		e.terminate("terminal stage reached")
		return
	}

	if entry == models.StatusDeclinedAtPrompt || entry == models.StatusSkipped {
		e.emit(entry)
		return
	}

	status := models.Classify(
		e.stage,
		e.capability.IsSatisfied(e.stage),
		e.capability.IsApplicable(e.stage),
	)
	if status != models.StatusUnset {
		e.emit(status)
		return
	}

	ctx := e.ctx
	if e.last.Context() != nil {
		ctx = e.last.Context()
	}

	e.awaiting = true
	e.logger.Info().
		Str("stage", string(e.stage)).
		Str("token", string(e.last.Token())).
		Msg("requesting capability, awaiting external result")
	e.capability.RequestSatisfaction(e.stage, ctx, e.last.Token())
}

// terminate finishes the workflow and releases the focus subscription.
// Caller holds e.mu.
func (e *Engine) terminate(reason string) {
	e.stage = models.StageTerminal
	e.closed = true
	e.awaiting = false
	e.suspended = false

	if e.sub != nil {
		e.sub.Unsubscribe()
		e.sub = nil
	}

	e.logger.Info().Str("reason", reason).Msg("workflow finished")
}

// record journals a transition, logging and continuing on failure.
// Caller holds e.mu.
func (e *Engine) record(event models.Event, d Directive) {
	if e.recorder == nil {
		return
	}

	transition := &models.Transition{
		Workflow:  e.workflow,
		Stage:     event.Stage,
		Status:    event.Status,
		Directive: d.Kind(),
		Token:     string(d.Token()),
	}
	if err := e.recorder.Record(e.ctx, transition); err != nil {
		e.logger.Warn().Err(err).
			Str("stage", string(event.Stage)).
			Msg("failed to journal transition")
	}
}
