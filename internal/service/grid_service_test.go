package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashcoder237/oapet-schedule-api/internal/dto"
	"github.com/flashcoder237/oapet-schedule-api/internal/models"
)

func findCell(t *testing.T, grid dto.GridResponse, day int, slot string) dto.GridCellView {
	t.Helper()
	for _, cell := range grid.Cells {
		if cell.Day == day && cell.SlotStart == slot {
			return cell
		}
	}
	t.Fatalf("cell (%d, %s) not found", day, slot)
	return dto.GridCellView{}
}

func TestBuildGridGeometry(t *testing.T) {
	week := NewWeekModel(midWeek, DefaultWeekGridConfig())

	grid := BuildGrid(week, nil, nil, DragState{})
	assert.Equal(t, "2025-03-03", grid.WeekStart)
	assert.Equal(t, "2025-03-08", grid.WeekEnd)
	assert.Equal(t, []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}, grid.Days)
	assert.Len(t, grid.SlotStarts, 14)
	assert.Len(t, grid.Cells, 6*14)
}

func TestBuildGridPlacesSessionsWithFlags(t *testing.T) {
	week := NewWeekModel(midWeek, DefaultWeekGridConfig())
	sessions := []models.Session{
		makeSession("s1", "2025-03-03", "08:00", "10:00", "A101", "Dupont"),
		makeSession("s2", "2025-03-03", "09:00", "11:00", "A101", "Martin"),
		makeSession("s3", "2025-03-05", "14:00", "15:00", "B202", "Durand"),
	}
	conflicts := map[string]struct{}{"s1": {}, "s2": {}}
	drag := DragState{DraggedID: "s3", Hover: &GridCell{Day: 1, SlotStart: "10:00"}}

	grid := BuildGrid(week, sessions, conflicts, drag)

	cell := findCell(t, grid, 0, "08:00")
	require.Len(t, cell.Sessions, 1)
	assert.Equal(t, "s1", cell.Sessions[0].Session.ID)
	assert.True(t, cell.Sessions[0].Conflicted)
	assert.False(t, cell.Sessions[0].Dragging)

	cell = findCell(t, grid, 2, "14:00")
	require.Len(t, cell.Sessions, 1)
	assert.Equal(t, "s3", cell.Sessions[0].Session.ID)
	assert.False(t, cell.Sessions[0].Conflicted)
	assert.True(t, cell.Sessions[0].Dragging)
}

func TestBuildGridMarksDropTarget(t *testing.T) {
	week := NewWeekModel(midWeek, DefaultWeekGridConfig())
	drag := DragState{DraggedID: "s1", Hover: &GridCell{Day: 3, SlotStart: "11:00"}}

	grid := BuildGrid(week, nil, nil, drag)

	targets := 0
	for _, cell := range grid.Cells {
		if cell.DropTarget {
			targets++
			assert.Equal(t, 3, cell.Day)
			assert.Equal(t, "11:00", cell.SlotStart)
		}
	}
	assert.Equal(t, 1, targets)
}

func TestBuildGridRendersCancelledSessions(t *testing.T) {
	week := NewWeekModel(midWeek, DefaultWeekGridConfig())
	cancelled := makeSession("s1", "2025-03-03", "08:00", "10:00", "A101", "Dupont")
	cancelled.Status = models.SessionStatusCancelled
	sessions := []models.Session{cancelled}

	grid := BuildGrid(week, sessions, DetectConflicts(sessions), DragState{})

	cell := findCell(t, grid, 0, "08:00")
	require.Len(t, cell.Sessions, 1)
	assert.Equal(t, models.SessionStatusCancelled, cell.Sessions[0].Session.Status)
	assert.False(t, cell.Sessions[0].Conflicted)
}
