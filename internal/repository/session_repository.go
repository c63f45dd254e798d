package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/flashcoder237/oapet-schedule-api/internal/models"
)

// SessionRepository provides persistence for scheduled sessions. The
// editor treats it as the external collaborator that owns durable
// state; the in-memory engine never waits on it for correctness.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = "id, schedule_id, title, session_type, session_date, start_time, end_time, room, teacher, status, created_at, updated_at"

// ListBySchedule loads all sessions for a schedule, ordered for
// stable grid placement.
func (r *SessionRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]models.Session, error) {
	query := fmt.Sprintf("SELECT %s FROM sessions WHERE schedule_id = $1 ORDER BY session_date, start_time, id", sessionColumns)
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// ListByRange loads sessions for a schedule within a date range,
// used when the host refetches after week navigation.
func (r *SessionRepository) ListByRange(ctx context.Context, scheduleID string, from, to time.Time) ([]models.Session, error) {
	query := fmt.Sprintf("SELECT %s FROM sessions WHERE schedule_id = $1 AND session_date BETWEEN $2 AND $3 ORDER BY session_date, start_time, id", sessionColumns)
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query, scheduleID, from, to); err != nil {
		return nil, fmt.Errorf("list sessions by range: %w", err)
	}
	return sessions, nil
}

// Create inserts a session, assigning an id when absent.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	const query = `INSERT INTO sessions (id, schedule_id, title, session_type, session_date, start_time, end_time, room, teacher, status, created_at, updated_at)
		VALUES (:id, :schedule_id, :title, :session_type, :session_date, :start_time, :end_time, :room, :teacher, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// UpdatePlacement persists the mutable placement tuple after a drop
// or direct move. Only the fields the mutation path may touch are
// written.
func (r *SessionRepository) UpdatePlacement(ctx context.Context, session models.Session) error {
	const query = `UPDATE sessions SET session_date = $1, start_time = $2, end_time = $3, room = $4, teacher = $5, updated_at = $6 WHERE id = $7`
	result, err := r.db.ExecContext(ctx, query,
		session.Date, session.StartTime, session.EndTime, session.Room, session.Teacher, time.Now().UTC(), session.ID)
	if err != nil {
		return fmt.Errorf("update session placement: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("update session placement: session %s not found", session.ID)
	}
	return nil
}

// Delete removes a session.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("delete session: session %s not found", id)
	}
	return nil
}
