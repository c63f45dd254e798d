package dto

import "github.com/flashcoder237/oapet-schedule-api/internal/models"

// SessionPayload carries an inbound session shape; dates and times are
// validated before the editor accepts them.
type SessionPayload struct {
	ID        string `json:"id"`
	Title     string `json:"title" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=lecture tutorial lab exam"`
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
	Room      string `json:"room"`
	Teacher   string `json:"teacher"`
	Status    string `json:"status" validate:"omitempty,oneof=confirmed pending cancelled"`
}

// ReplaceSessionsRequest swaps the editor's working set for a schedule.
type ReplaceSessionsRequest struct {
	Sessions []SessionPayload `json:"sessions" validate:"required,dive"`
}

// MoveSessionRequest retargets one session through the single mutation path.
type MoveSessionRequest struct {
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
}

// DragStartRequest begins a drag gesture for a session.
type DragStartRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

// DragHoverRequest records the grid cell currently under the pointer.
type DragHoverRequest struct {
	Day       int    `json:"day" validate:"min=0"`
	SlotStart string `json:"slotStart" validate:"required"`
}

// WeekNavigationRequest moves the visible week.
type WeekNavigationRequest struct {
	Direction string `json:"direction" validate:"required,oneof=next previous today"`
}

// ConflictsResponse lists the ids currently implicated in a collision.
type ConflictsResponse struct {
	SessionIDs []string                 `json:"sessionIds"`
	Details    []models.SessionConflict `json:"details,omitempty"`
}

// SessionCellView is one session as rendered inside a grid cell.
type SessionCellView struct {
	Session    models.Session `json:"session"`
	Conflicted bool           `json:"conflicted"`
	Dragging   bool           `json:"dragging"`
}

// GridCellView is one (day, slot) cell of the rendered week grid.
type GridCellView struct {
	Day        int               `json:"day"`
	Date       string            `json:"date"`
	SlotStart  string            `json:"slotStart"`
	Sessions   []SessionCellView `json:"sessions"`
	DropTarget bool              `json:"dropTarget"`
}

// GridResponse is the full projection of the visible week.
type GridResponse struct {
	WeekStart  string         `json:"weekStart"`
	WeekEnd    string         `json:"weekEnd"`
	Days       []string       `json:"days"`
	SlotStarts []string       `json:"slotStarts"`
	Cells      []GridCellView `json:"cells"`
}

// DropResponse reports the outcome of a drop gesture.
type DropResponse struct {
	Updated *models.Session `json:"updated,omitempty"`
	Moved   bool            `json:"moved"`
}
