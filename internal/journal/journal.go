// Package journal records stage transitions to the persistent journal.
package journal

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/capkit/capflow/internal/logging"
	"github.com/capkit/capflow/internal/models"
)

// Repository is the minimal interface needed to write journal entries.
// The db.TransitionRepository type implements it.
type Repository interface {
	Append(ctx context.Context, transition *models.Transition) error
}

// Journal implements the engine's transition recorder on top of a
// repository.
type Journal struct {
	repo   Repository
	logger zerolog.Logger
}

// New creates a Journal writing through repo.
func New(repo Repository) *Journal {
	return &Journal{
		repo:   repo,
		logger: logging.Component("journal"),
	}
}

// Record persists a single stage transition.
func (j *Journal) Record(ctx context.Context, transition *models.Transition) error {
	if j.repo == nil {
		return fmt.Errorf("journal repository is required")
	}
	if transition == nil {
		return fmt.Errorf("transition is required")
	}

	if err := j.repo.Append(ctx, transition); err != nil {
		return fmt.Errorf("failed to append transition: %w", err)
	}

	j.logger.Debug().
		Str("workflow", transition.Workflow).
		Str("stage", string(transition.Stage)).
		Str("status", string(transition.Status)).
		Msg("transition recorded")
	return nil
}
