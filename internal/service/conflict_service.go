package service

import (
	"sort"

	"github.com/flashcoder237/oapet-schedule-api/internal/models"
)

// DetectConflicts scans every unordered session pair and returns the
// set of ids involved in at least one resource collision: same
// calendar date, overlapping time range, and a shared non-empty room
// or teacher. Cancelled sessions are skipped entirely; they stay on
// the grid but no longer contend for resources.
//
// The scan is pure and recomputed from scratch on every call. O(n²)
// is deliberate: a visible week holds tens of sessions, not
// thousands. If that ever changes, bucket by date+resource before the
// pairwise pass; do not change the semantics.
func DetectConflicts(sessions []models.Session) map[string]struct{} {
	result := make(map[string]struct{})
	if len(sessions) < 2 {
		return result
	}

	for i := 0; i < len(sessions); i++ {
		if sessions[i].Status == models.SessionStatusCancelled {
			continue
		}
		for j := i + 1; j < len(sessions); j++ {
			if sessions[j].Status == models.SessionStatusCancelled {
				continue
			}
			if !models.SameDay(sessions[i].Date, sessions[j].Date) {
				continue
			}
			if !sessionsOverlap(sessions[i], sessions[j]) {
				continue
			}
			if !sharesResource(sessions[i], sessions[j]) {
				continue
			}
			result[sessions[i].ID] = struct{}{}
			result[sessions[j].ID] = struct{}{}
		}
	}
	return result
}

// DetectConflictPairs reports the same collisions as DetectConflicts
// but keeps the pairwise detail for diagnostic surfaces.
func DetectConflictPairs(sessions []models.Session) []models.SessionConflict {
	var pairs []models.SessionConflict
	for i := 0; i < len(sessions); i++ {
		if sessions[i].Status == models.SessionStatusCancelled {
			continue
		}
		for j := i + 1; j < len(sessions); j++ {
			if sessions[j].Status == models.SessionStatusCancelled {
				continue
			}
			if !models.SameDay(sessions[i].Date, sessions[j].Date) {
				continue
			}
			if !sessionsOverlap(sessions[i], sessions[j]) {
				continue
			}
			if sessions[i].Room != "" && sessions[i].Room == sessions[j].Room {
				pairs = append(pairs, models.SessionConflict{
					SessionID:      sessions[i].ID,
					OtherSessionID: sessions[j].ID,
					Dimension:      models.ConflictDimensionRoom,
					Resource:       sessions[i].Room,
				})
			}
			if sessions[i].Teacher != "" && sessions[i].Teacher == sessions[j].Teacher {
				pairs = append(pairs, models.SessionConflict{
					SessionID:      sessions[i].ID,
					OtherSessionID: sessions[j].ID,
					Dimension:      models.ConflictDimensionTeacher,
					Resource:       sessions[i].Teacher,
				})
			}
		}
	}
	return pairs
}

// ConflictIDs flattens a conflict set into a sorted id slice. Sorting
// keeps the serialization stable regardless of map iteration order.
func ConflictIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sessionsOverlap(a, b models.Session) bool {
	aStart, err := ToMinutes(a.StartTime)
	if err != nil {
		return false
	}
	aEnd, err := ToMinutes(a.EndTime)
	if err != nil {
		return false
	}
	bStart, err := ToMinutes(b.StartTime)
	if err != nil {
		return false
	}
	bEnd, err := ToMinutes(b.EndTime)
	if err != nil {
		return false
	}
	return Overlaps(aStart, aEnd, bStart, bEnd)
}

// sharesResource requires the contended field to be non-empty on both
// sides: two sessions with no room and no teacher have nothing to
// contend over.
func sharesResource(a, b models.Session) bool {
	if a.Room != "" && a.Room == b.Room {
		return true
	}
	if a.Teacher != "" && a.Teacher == b.Teacher {
		return true
	}
	return false
}
