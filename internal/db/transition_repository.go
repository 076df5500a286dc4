package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/capkit/capflow/internal/models"
)

// Transition repository errors.
var (
	ErrTransitionNotFound = errors.New("transition not found")
)

// TransitionRepository handles journal persistence.
type TransitionRepository struct {
	db *DB
}

// NewTransitionRepository creates a new TransitionRepository.
func NewTransitionRepository(db *DB) *TransitionRepository {
	return &TransitionRepository{db: db}
}

// TransitionQuery defines filters for querying the journal.
type TransitionQuery struct {
	Workflow *string        // Filter by workflow run
	Stage    *models.Stage  // Filter by stage
	Status   *models.Status // Filter by status
	Since    *time.Time     // Transitions at or after this time (inclusive)
	Until    *time.Time     // Transitions before this time (exclusive)
	Cursor   string         // Pagination cursor (transition ID)
	Limit    int            // Max results to return
}

// TransitionPage represents a page of query results.
type TransitionPage struct {
	Transitions []*models.Transition
	NextCursor  string
}

// Append adds a transition to the journal, filling in ID and timestamp
// when absent.
func (r *TransitionRepository) Append(ctx context.Context, transition *models.Transition) error {
	if err := transition.Validate(); err != nil {
		return err
	}

	if transition.ID == "" {
		transition.ID = uuid.New().String()
	}
	if transition.Timestamp.IsZero() {
		transition.Timestamp = time.Now().UTC()
	} else {
		transition.Timestamp = transition.Timestamp.UTC()
	}

	var metadataJSON *string
	if transition.Metadata != nil {
		data, err := json.Marshal(transition.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		s := string(data)
		metadataJSON = &s
	}

	var token *string
	if transition.Token != "" {
		token = &transition.Token
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transitions (
			id, timestamp, workflow, stage, status, directive, token, metadata_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		transition.ID,
		transition.Timestamp.Format(time.RFC3339Nano),
		transition.Workflow,
		string(transition.Stage),
		string(transition.Status),
		string(transition.Directive),
		token,
		metadataJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transition: %w", err)
	}

	return nil
}

// Get retrieves a transition by ID.
func (r *TransitionRepository) Get(ctx context.Context, id string) (*models.Transition, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, timestamp, workflow, stage, status, directive, token, metadata_json
		FROM transitions WHERE id = ?
	`, id)

	transition, err := scanTransition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransitionNotFound
	}
	return transition, err
}

// Query retrieves journal entries matching the filters with cursor-based
// pagination, oldest first.
func (r *TransitionRepository) Query(ctx context.Context, q TransitionQuery) (*TransitionPage, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT id, timestamp, workflow, stage, status, directive, token, metadata_json FROM transitions WHERE 1=1`
	args := []any{}

	if q.Workflow != nil {
		query += ` AND workflow = ?`
		args = append(args, *q.Workflow)
	}
	if q.Stage != nil {
		query += ` AND stage = ?`
		args = append(args, string(*q.Stage))
	}
	if q.Status != nil {
		query += ` AND status = ?`
		args = append(args, string(*q.Status))
	}
	if q.Since != nil {
		query += ` AND timestamp >= ?`
		args = append(args, q.Since.UTC().Format(time.RFC3339Nano))
	}
	if q.Until != nil {
		query += ` AND timestamp < ?`
		args = append(args, q.Until.UTC().Format(time.RFC3339Nano))
	}
	if q.Cursor != "" {
		query += ` AND (timestamp, id) > (SELECT timestamp, id FROM transitions WHERE id = ?)`
		args = append(args, q.Cursor)
	}

	query += ` ORDER BY timestamp, id LIMIT ?`
	args = append(args, limit+1) // One extra row decides whether a next page exists.

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transitions: %w", err)
	}
	defer rows.Close()

	var transitions []*models.Transition
	for rows.Next() {
		transition, err := scanTransition(rows)
		if err != nil {
			return nil, err
		}
		transitions = append(transitions, transition)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transitions: %w", err)
	}

	page := &TransitionPage{}
	if len(transitions) > limit {
		transitions = transitions[:limit]
		page.NextCursor = transitions[len(transitions)-1].ID
	}
	page.Transitions = transitions

	return page, nil
}

// scanner abstracts sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTransition(s scanner) (*models.Transition, error) {
	var (
		transition   models.Transition
		timestamp    string
		token        sql.NullString
		metadataJSON sql.NullString
	)

	err := s.Scan(
		&transition.ID,
		&timestamp,
		&transition.Workflow,
		&transition.Stage,
		&transition.Status,
		&transition.Directive,
		&token,
		&metadataJSON,
	)
	if err != nil {
		return nil, err
	}

	ts, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse timestamp: %w", err)
	}
	transition.Timestamp = ts

	if token.Valid {
		transition.Token = token.String
	}
	if metadataJSON.Valid && metadataJSON.String != "" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &transition.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return &transition, nil
}
