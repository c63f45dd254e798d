package models

import (
	"fmt"
	"time"
)

// SessionStatus is the lifecycle state of a scheduled session.
type SessionStatus string

const (
	SessionStatusConfirmed SessionStatus = "confirmed"
	SessionStatusPending   SessionStatus = "pending"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// SessionType distinguishes the kind of teaching session.
type SessionType string

const (
	SessionTypeLecture  SessionType = "lecture"
	SessionTypeTutorial SessionType = "tutorial"
	SessionTypeLab      SessionType = "lab"
	SessionTypeExam     SessionType = "exam"
)

// Session is a single scheduled occurrence of a course meeting.
// Placement fields (Date, StartTime, EndTime, Room, Teacher) are only
// written through the editor's mutation path.
type Session struct {
	ID         string        `db:"id" json:"id"`
	ScheduleID string        `db:"schedule_id" json:"schedule_id"`
	Title      string        `db:"title" json:"title"`
	Type       SessionType   `db:"session_type" json:"type"`
	Date       time.Time     `db:"session_date" json:"date"`
	StartTime  string        `db:"start_time" json:"start_time"`
	EndTime    string        `db:"end_time" json:"end_time"`
	Room       string        `db:"room" json:"room,omitempty"`
	Teacher    string        `db:"teacher" json:"teacher,omitempty"`
	Status     SessionStatus `db:"status" json:"status"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updated_at"`
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date and normalises it to UTC midnight.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return t.UTC(), nil
}

// NormalizeDate truncates a timestamp to its calendar day in UTC.
func NormalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return NormalizeDate(a).Equal(NormalizeDate(b))
}

// SessionConflict describes one detected collision between two sessions.
type SessionConflict struct {
	SessionID      string `json:"session_id"`
	OtherSessionID string `json:"other_session_id"`
	Dimension      string `json:"dimension"`
	Resource       string `json:"resource"`
}

// Conflict dimensions. Student-group contention is anticipated by the
// surrounding data model but not yet detected.
const (
	ConflictDimensionRoom    = "ROOM"
	ConflictDimensionTeacher = "TEACHER"
)

// Pagination mirrors the list metadata used by the response envelope.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}
