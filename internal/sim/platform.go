// Package sim provides a simulated platform capability adapter. It stands
// in for the real radio, permission, and service checks so the workflow
// can be exercised end to end without a device: requests are queued
// instead of fired at a platform, and the caller settles them to play the
// part of the user on the settings screen.
package sim

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/capkit/capflow/internal/flow"
	"github.com/capkit/capflow/internal/logging"
	"github.com/capkit/capflow/internal/models"
)

// StageConfig describes the simulated platform's initial state for one
// stage.
type StageConfig struct {
	// Satisfied marks the capability as already on at workflow start.
	Satisfied bool

	// Inapplicable marks the stage as meaningless on this platform.
	Inapplicable bool

	// GrantOnRequest makes the simulated user satisfy the capability when
	// the platform action is requested. When false the request is settled
	// without the capability turning on, as if the user backed out.
	GrantOnRequest bool

	// SystemPrompt reports that the platform would show its own dialog
	// for the request.
	SystemPrompt bool
}

// Config maps stages to their simulated state. Stages missing from the
// map start unsatisfied, applicable, and granting on request.
type Config map[models.Stage]StageConfig

// Request is one queued capability request.
type Request struct {
	Stage models.Stage
	Token flow.Token
}

// Platform is a scriptable flow.CapabilityAdapter.
type Platform struct {
	mu      sync.Mutex
	stages  map[models.Stage]StageConfig
	pending []Request
	logger  zerolog.Logger
}

// New creates a Platform from cfg.
func New(cfg Config) *Platform {
	stages := make(map[models.Stage]StageConfig, len(cfg))
	for stage, sc := range cfg {
		stages[stage] = sc
	}
	return &Platform{
		stages: stages,
		logger: logging.Component("sim"),
	}
}

func (p *Platform) config(stage models.Stage) StageConfig {
	if sc, ok := p.stages[stage]; ok {
		return sc
	}
	return StageConfig{GrantOnRequest: true}
}

// IsSatisfied reports whether the stage's capability is on.
func (p *Platform) IsSatisfied(stage models.Stage) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.config(stage).Satisfied
}

// IsApplicable reports whether the stage applies on this platform.
func (p *Platform) IsApplicable(stage models.Stage) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.config(stage).Inapplicable
}

// RequestSatisfaction queues the request; it is settled later via Settle.
func (p *Platform) RequestSatisfaction(stage models.Stage, ctx context.Context, token flow.Token) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pending = append(p.pending, Request{Stage: stage, Token: token})
	p.logger.Debug().
		Str("stage", string(stage)).
		Str("token", string(token)).
		Msg("capability request queued")
}

// WillSystemPromptAppear reports whether the platform would show its own
// dialog for the stage.
func (p *Platform) WillSystemPromptAppear(stage models.Stage) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.config(stage).SystemPrompt
}

// SetSatisfied flips a capability directly, bypassing the request flow.
func (p *Platform) SetSatisfied(stage models.Stage, on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sc := p.config(stage)
	sc.Satisfied = on
	p.stages[stage] = sc
}

// Pending returns the queued requests without settling them.
func (p *Platform) Pending() []Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Request, len(p.pending))
	copy(out, p.pending)
	return out
}

// Settle resolves all queued requests: stages configured with
// GrantOnRequest become satisfied, the rest stay as they are. The settled
// requests are returned in order so the caller can deliver their outcomes
// to the engine.
func (p *Platform) Settle() []Request {
	p.mu.Lock()
	defer p.mu.Unlock()

	settled := p.pending
	p.pending = nil

	for _, request := range settled {
		sc := p.config(request.Stage)
		if sc.GrantOnRequest {
			sc.Satisfied = true
			p.stages[request.Stage] = sc
		}
		p.logger.Debug().
			Str("stage", string(request.Stage)).
			Bool("granted", sc.GrantOnRequest).
			Msg("capability request settled")
	}
	return settled
}
