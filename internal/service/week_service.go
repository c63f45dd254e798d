package service

import (
	"time"

	"github.com/flashcoder237/oapet-schedule-api/internal/models"
)

// WeekGridConfig fixes the geometry of the visible week. Geometry
// depends only on configuration and the reference date, never on
// session content.
type WeekGridConfig struct {
	Days         int
	DayStartHour int
	SlotCount    int
	SlotMinutes  int
}

// DefaultWeekGridConfig mirrors the timetable the editor was built
// for: Monday through Saturday, hourly slots from 07:00 to 20:00.
func DefaultWeekGridConfig() WeekGridConfig {
	return WeekGridConfig{Days: 6, DayStartHour: 7, SlotCount: 14, SlotMinutes: 60}
}

func (c WeekGridConfig) normalized() WeekGridConfig {
	if c.Days <= 0 || c.Days > 7 {
		c.Days = 6
	}
	if c.DayStartHour < 0 || c.DayStartHour > 23 {
		c.DayStartHour = 7
	}
	if c.SlotCount <= 0 {
		c.SlotCount = 14
	}
	if c.SlotMinutes <= 0 {
		c.SlotMinutes = 60
	}
	return c
}

// WeekModel derives the visible calendar dates and slot columns for
// the week containing a reference date. It is a value: navigation
// returns a new model.
type WeekModel struct {
	reference time.Time
	config    WeekGridConfig
}

// NewWeekModel builds the model for the week containing ref.
func NewWeekModel(ref time.Time, cfg WeekGridConfig) WeekModel {
	return WeekModel{reference: models.NormalizeDate(ref), config: cfg.normalized()}
}

// Reference returns the reference date the geometry derives from.
func (w WeekModel) Reference() time.Time {
	return w.reference
}

// Dates lists the visible calendar dates, Monday first.
func (w WeekModel) Dates() []time.Time {
	monday := w.mondayStart()
	dates := make([]time.Time, w.config.Days)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i)
	}
	return dates
}

// Bounds returns the first and last visible dates of the week.
func (w WeekModel) Bounds() (time.Time, time.Time) {
	dates := w.Dates()
	return dates[0], dates[len(dates)-1]
}

// SlotStarts lists the fixed time-of-day columns as "HH:MM".
func (w WeekModel) SlotStarts() []string {
	slots := make([]string, w.config.SlotCount)
	start := w.config.DayStartHour * 60
	for i := range slots {
		slots[i] = FormatMinutes(start + i*w.config.SlotMinutes)
	}
	return slots
}

// SessionsAt returns the sessions occupying a (day, slot) cell.
// Matching is exact string equality on the start time, not range
// containment: a 07:30 session does not appear in the 07:00 cell.
// Known fragility, preserved on purpose because relaxing it changes
// which sessions land in which cell.
func (w WeekModel) SessionsAt(sessions []models.Session, dayIndex int, slotStart string) []models.Session {
	dates := w.Dates()
	if dayIndex < 0 || dayIndex >= len(dates) {
		return nil
	}
	var matched []models.Session
	for _, s := range sessions {
		if !models.SameDay(s.Date, dates[dayIndex]) {
			continue
		}
		if s.StartTime != slotStart {
			continue
		}
		matched = append(matched, s)
	}
	return matched
}

// Next returns the model for the following week.
func (w WeekModel) Next() WeekModel {
	return WeekModel{reference: w.reference.AddDate(0, 0, 7), config: w.config}
}

// Previous returns the model for the preceding week.
func (w WeekModel) Previous() WeekModel {
	return WeekModel{reference: w.reference.AddDate(0, 0, -7), config: w.config}
}

// Today resets the reference date to now.
func (w WeekModel) Today(now time.Time) WeekModel {
	return WeekModel{reference: models.NormalizeDate(now), config: w.config}
}

// mondayStart finds the Monday of the reference week. Sundays belong
// to the week they close, matching the editor's Monday-first layout.
func (w WeekModel) mondayStart() time.Time {
	weekday := int(w.reference.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return w.reference.AddDate(0, 0, 1-weekday)
}
