package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashcoder237/oapet-schedule-api/internal/models"
)

func newSessionRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func sessionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "schedule_id", "title", "session_type", "session_date",
		"start_time", "end_time", "room", "teacher", "status",
		"created_at", "updated_at",
	})
}

func TestSessionRepositoryListBySchedule(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	rows := sessionRows().
		AddRow("s1", "sched-1", "Algorithms", "lecture", day, "08:00", "10:00", "A101", "Dupont", "confirmed", time.Now(), time.Now()).
		AddRow("s2", "sched-1", "Networks", "lab", day, "10:00", "12:00", "B202", "Martin", "pending", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, schedule_id, title, session_type, session_date, start_time, end_time, room, teacher, status, created_at, updated_at FROM sessions WHERE schedule_id = $1 ORDER BY session_date, start_time, id")).
		WithArgs("sched-1").
		WillReturnRows(rows)

	sessions, err := repo.ListBySchedule(context.Background(), "sched-1")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "s1", sessions[0].ID)
	assert.Equal(t, models.SessionTypeLab, sessions[1].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryListByRange(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	from := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM sessions WHERE schedule_id = $1 AND session_date BETWEEN $2 AND $3")).
		WithArgs("sched-1", from, to).
		WillReturnRows(sessionRows())

	sessions, err := repo.ListByRange(context.Background(), "sched-1", from, to)
	require.NoError(t, err)
	assert.Empty(t, sessions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec("INSERT INTO sessions").
		WillReturnResult(sqlmock.NewResult(1, 1))

	session := models.Session{
		ScheduleID: "sched-1",
		Title:      "Algorithms",
		Type:       models.SessionTypeLecture,
		Date:       time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		StartTime:  "08:00",
		EndTime:    "10:00",
		Status:     models.SessionStatusConfirmed,
	}
	require.NoError(t, repo.Create(context.Background(), &session))
	assert.NotEmpty(t, session.ID)
	assert.False(t, session.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryUpdatePlacement(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE sessions SET session_date = $1, start_time = $2, end_time = $3, room = $4, teacher = $5, updated_at = $6 WHERE id = $7")).
		WithArgs(sqlmock.AnyArg(), "14:00", "15:30", "A101", "Dupont", sqlmock.AnyArg(), "s1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdatePlacement(context.Background(), models.Session{
		ID:        "s1",
		Date:      time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		StartTime: "14:00",
		EndTime:   "15:30",
		Room:      "A101",
		Teacher:   "Dupont",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryUpdatePlacementMissing(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec("UPDATE sessions SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePlacement(context.Background(), models.Session{ID: "ghost", StartTime: "14:00", EndTime: "15:00"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSessionRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE id = $1")).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "s1"))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE id = $1")).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.Error(t, repo.Delete(context.Background(), "ghost"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
