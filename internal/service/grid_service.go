package service

import (
	"github.com/flashcoder237/oapet-schedule-api/internal/dto"
	"github.com/flashcoder237/oapet-schedule-api/internal/models"
)

var weekDayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// BuildGrid projects the editor's state into renderable cells. It is
// a pure function of (week, sessions, conflict set, drag state) and
// never mutates the session list it is given. Cancelled sessions are
// still rendered; they just carry no conflict flag.
func BuildGrid(week WeekModel, sessions []models.Session, conflicts map[string]struct{}, drag DragState) dto.GridResponse {
	dates := week.Dates()
	slots := week.SlotStarts()
	start, end := week.Bounds()

	days := make([]string, len(dates))
	for i := range dates {
		days[i] = weekDayNames[i%len(weekDayNames)]
	}

	cells := make([]dto.GridCellView, 0, len(dates)*len(slots))
	for _, slot := range slots {
		for day := range dates {
			cell := dto.GridCellView{
				Day:       day,
				Date:      dates[day].Format(models.DateLayout),
				SlotStart: slot,
			}
			if drag.Dragging() && drag.Hover != nil && drag.Hover.Day == day && drag.Hover.SlotStart == slot {
				cell.DropTarget = true
			}
			for _, s := range week.SessionsAt(sessions, day, slot) {
				_, conflicted := conflicts[s.ID]
				cell.Sessions = append(cell.Sessions, dto.SessionCellView{
					Session:    s,
					Conflicted: conflicted,
					Dragging:   drag.DraggedID == s.ID,
				})
			}
			cells = append(cells, cell)
		}
	}

	return dto.GridResponse{
		WeekStart:  start.Format(models.DateLayout),
		WeekEnd:    end.Format(models.DateLayout),
		Days:       days,
		SlotStarts: slots,
		Cells:      cells,
	}
}
