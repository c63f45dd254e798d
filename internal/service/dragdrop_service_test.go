package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashcoder237/oapet-schedule-api/internal/models"
)

func TestStartDrag(t *testing.T) {
	next, ok := StartDrag(DragState{}, "s1", false)
	require.True(t, ok)
	assert.Equal(t, "s1", next.DraggedID)
	assert.True(t, next.Dragging())
}

func TestStartDragRefused(t *testing.T) {
	cases := []struct {
		name      string
		state     DragState
		sessionID string
		readOnly  bool
	}{
		{name: "read only", sessionID: "s1", readOnly: true},
		{name: "empty id", sessionID: ""},
		{name: "gesture in flight", state: DragState{DraggedID: "s1"}, sessionID: "s2"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, ok := StartDrag(tc.state, tc.sessionID, tc.readOnly)
			assert.False(t, ok)
			assert.Equal(t, tc.state, next)
		})
	}
}

func TestHoverDrag(t *testing.T) {
	state := DragState{DraggedID: "s1"}
	next := HoverDrag(state, GridCell{Day: 2, SlotStart: "14:00"})
	require.NotNil(t, next.Hover)
	assert.Equal(t, 2, next.Hover.Day)
	assert.Equal(t, "14:00", next.Hover.SlotStart)
}

func TestHoverDragIgnoredWhenIdle(t *testing.T) {
	next := HoverDrag(DragState{}, GridCell{Day: 2, SlotStart: "14:00"})
	assert.Nil(t, next.Hover)
	assert.False(t, next.Dragging())
}

func TestCancelDrag(t *testing.T) {
	state := DragState{DraggedID: "s1", Hover: &GridCell{Day: 1, SlotStart: "09:00"}}
	assert.Equal(t, DragState{}, CancelDrag(state))
}

func TestDropDragMovesSessionPreservingDuration(t *testing.T) {
	week := NewWeekModel(midWeek, DefaultWeekGridConfig())
	sessions := []models.Session{
		makeSession("s1", "2025-03-03", "08:00", "09:30", "A101", "Dupont"),
	}
	state := DragState{DraggedID: "s1", Hover: &GridCell{Day: 2, SlotStart: "14:00"}}

	next, updated, moved := DropDrag(state, sessions, week)
	require.True(t, moved)
	require.NotNil(t, updated)
	assert.Equal(t, DragState{}, next)
	assert.Equal(t, "2025-03-05", updated.Date.Format(models.DateLayout))
	assert.Equal(t, "14:00", updated.StartTime)
	assert.Equal(t, "15:30", updated.EndTime)

	// The input slice is left untouched.
	assert.Equal(t, "08:00", sessions[0].StartTime)
}

func TestDropDragSameCellStillUpdates(t *testing.T) {
	week := NewWeekModel(midWeek, DefaultWeekGridConfig())
	sessions := []models.Session{
		makeSession("s1", "2025-03-03", "08:00", "09:00", "A101", "Dupont"),
	}
	state := DragState{DraggedID: "s1", Hover: &GridCell{Day: 0, SlotStart: "08:00"}}

	_, updated, moved := DropDrag(state, sessions, week)
	require.True(t, moved)
	assert.Equal(t, "08:00", updated.StartTime)
	assert.Equal(t, "09:00", updated.EndTime)
	assert.Equal(t, "2025-03-03", updated.Date.Format(models.DateLayout))
}

func TestDropDragNoOps(t *testing.T) {
	week := NewWeekModel(midWeek, DefaultWeekGridConfig())
	sessions := []models.Session{
		makeSession("s1", "2025-03-03", "08:00", "09:00", "A101", "Dupont"),
	}

	cases := []struct {
		name  string
		state DragState
	}{
		{name: "idle", state: DragState{}},
		{name: "no hover cell", state: DragState{DraggedID: "s1"}},
		{name: "stale session id", state: DragState{DraggedID: "ghost", Hover: &GridCell{Day: 1, SlotStart: "09:00"}}},
		{name: "day below range", state: DragState{DraggedID: "s1", Hover: &GridCell{Day: -1, SlotStart: "09:00"}}},
		{name: "day above range", state: DragState{DraggedID: "s1", Hover: &GridCell{Day: 6, SlotStart: "09:00"}}},
		{name: "malformed slot", state: DragState{DraggedID: "s1", Hover: &GridCell{Day: 1, SlotStart: "bogus"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, updated, moved := DropDrag(tc.state, sessions, week)
			assert.False(t, moved)
			assert.Nil(t, updated)
			assert.Equal(t, DragState{}, next)
		})
	}
}
