package service

import (
	"github.com/flashcoder237/oapet-schedule-api/internal/models"
)

// GridCell identifies one (day, slot) position on the visible grid.
type GridCell struct {
	Day       int    `json:"day"`
	SlotStart string `json:"slotStart"`
}

// DragState is the transient state of an in-flight drag gesture. The
// zero value means idle. Hover is purely advisory: it drives visual
// feedback and the eventual drop target, never data.
type DragState struct {
	DraggedID string
	Hover     *GridCell
}

// Dragging reports whether a gesture is in flight.
func (d DragState) Dragging() bool {
	return d.DraggedID != ""
}

// StartDrag begins a gesture for the given session id. Starting is
// refused in read-only mode and when another gesture is in flight.
func StartDrag(state DragState, sessionID string, readOnly bool) (DragState, bool) {
	if readOnly || sessionID == "" || state.Dragging() {
		return state, false
	}
	return DragState{DraggedID: sessionID}, true
}

// HoverDrag records the cell currently under the pointer. Ignored
// when no gesture is in flight.
func HoverDrag(state DragState, cell GridCell) DragState {
	if !state.Dragging() {
		return state
	}
	state.Hover = &GridCell{Day: cell.Day, SlotStart: cell.SlotStart}
	return state
}

// CancelDrag clears the gesture without touching any session.
func CancelDrag(DragState) DragState {
	return DragState{}
}

// DropDrag resolves a drop: it finds the dragged session, keeps its
// duration, and retargets date and start time to the hovered cell.
// The returned state is always idle. A missing hover cell, an unknown
// or stale session id, or an out-of-range day all resolve to a no-op
// rather than an error; drag gestures routinely end in ambiguous
// states and must never take the editor down.
func DropDrag(state DragState, sessions []models.Session, week WeekModel) (DragState, *models.Session, bool) {
	if !state.Dragging() || state.Hover == nil {
		return DragState{}, nil, false
	}

	var dragged *models.Session
	for i := range sessions {
		if sessions[i].ID == state.DraggedID {
			dragged = &sessions[i]
			break
		}
	}
	if dragged == nil {
		return DragState{}, nil, false
	}

	dates := week.Dates()
	if state.Hover.Day < 0 || state.Hover.Day >= len(dates) {
		return DragState{}, nil, false
	}

	startMin, err := ToMinutes(dragged.StartTime)
	if err != nil {
		return DragState{}, nil, false
	}
	endMin, err := ToMinutes(dragged.EndTime)
	if err != nil {
		return DragState{}, nil, false
	}
	newStartMin, err := ToMinutes(state.Hover.SlotStart)
	if err != nil {
		return DragState{}, nil, false
	}

	updated := *dragged
	updated.Date = dates[state.Hover.Day]
	updated.StartTime = FormatMinutes(newStartMin)
	updated.EndTime = FormatMinutes(newStartMin + (endMin - startMin))

	// Dropping onto the occupied cell is still a legal update; the
	// consumer side must tolerate the idempotent no-op.
	return DragState{}, &updated, true
}
