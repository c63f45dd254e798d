package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flashcoder237/oapet-schedule-api/internal/dto"
	"github.com/flashcoder237/oapet-schedule-api/internal/models"
	appErrors "github.com/flashcoder237/oapet-schedule-api/pkg/errors"
)

// SessionStore is the persistence surface the editor depends on. A
// nil store leaves the editor fully functional in memory.
type SessionStore interface {
	ListBySchedule(ctx context.Context, scheduleID string) ([]models.Session, error)
	Create(ctx context.Context, session *models.Session) error
	UpdatePlacement(ctx context.Context, session models.Session) error
}

// EditorCallbacks are the outbound host interfaces. OnSessionChange
// and OnWeekChange run synchronously after the editor's own state is
// settled; OnConflictsChanged is deferred through the notifier.
type EditorCallbacks struct {
	OnConflictsChanged ConflictCallback
	OnSessionChange    func(models.Session)
	OnWeekChange       func(weekStart, weekEnd time.Time)
}

// EditorConfig governs one editor instance.
type EditorConfig struct {
	Grid     WeekGridConfig
	Notifier NotifierConfig
	ReadOnly bool
}

// ScheduleEditorService holds the in-memory session set for one
// schedule's visible week and re-derives the conflict set on every
// change. All placement mutations flow through Drop or MoveSession;
// nothing else writes session fields.
type ScheduleEditorService struct {
	scheduleID string
	store      SessionStore
	validator  *validator.Validate
	logger     *zap.Logger
	metrics    *MetricsService
	callbacks  EditorCallbacks
	notifier   *ConflictNotifier
	readOnly   bool
	now        func() time.Time

	mu        sync.Mutex
	sessions  []models.Session
	week      WeekModel
	drag      DragState
	conflicts map[string]struct{}
	loaded    bool
}

// NewScheduleEditorService wires one editor.
func NewScheduleEditorService(
	scheduleID string,
	store SessionStore,
	callbacks EditorCallbacks,
	validate *validator.Validate,
	logger *zap.Logger,
	metrics *MetricsService,
	cfg EditorConfig,
) *ScheduleEditorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &ScheduleEditorService{
		scheduleID: scheduleID,
		store:      store,
		validator:  validate,
		logger:     logger,
		metrics:    metrics,
		callbacks:  callbacks,
		readOnly:   cfg.ReadOnly,
		now:        time.Now,
		conflicts:  map[string]struct{}{},
	}
	e.week = NewWeekModel(e.now(), cfg.Grid)
	e.notifier = NewConflictNotifier(callbacks.OnConflictsChanged, logger, cfg.Notifier)
	return e
}

// Start begins deferred conflict dispatch.
func (e *ScheduleEditorService) Start(ctx context.Context) {
	e.notifier.Start(ctx)
}

// Stop drains the notifier.
func (e *ScheduleEditorService) Stop() {
	e.notifier.Stop()
}

// Load hydrates the working set from the store on first touch.
func (e *ScheduleEditorService) Load(ctx context.Context) error {
	e.mu.Lock()
	if e.loaded || e.store == nil {
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()

	sessions, err := e.store.ListBySchedule(ctx, e.scheduleID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions")
	}

	e.mu.Lock()
	e.sessions = sessions
	e.loaded = true
	ids := e.recomputeLocked()
	e.mu.Unlock()

	e.notifier.Publish(ids)
	return nil
}

// ReplaceSessions swaps the editor's working set. Malformed sessions
// and duplicate ids are rejected here, before anything reaches the
// conflict detector.
func (e *ScheduleEditorService) ReplaceSessions(payloads []dto.SessionPayload) error {
	sessions := make([]models.Session, 0, len(payloads))
	seen := make(map[string]struct{}, len(payloads))
	for _, payload := range payloads {
		session, err := e.sessionFromPayload(payload, false)
		if err != nil {
			return err
		}
		if _, dup := seen[session.ID]; dup {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("duplicate session id %s", session.ID))
		}
		seen[session.ID] = struct{}{}
		sessions = append(sessions, *session)
	}

	e.mu.Lock()
	e.sessions = sessions
	e.loaded = true
	e.drag = CancelDrag(e.drag)
	ids := e.recomputeLocked()
	e.mu.Unlock()

	e.notifier.Publish(ids)
	return nil
}

// CreateSession validates and adds a session, assigning an id when
// the payload carries none.
func (e *ScheduleEditorService) CreateSession(ctx context.Context, payload dto.SessionPayload) (*models.Session, error) {
	session, err := e.sessionFromPayload(payload, true)
	if err != nil {
		return nil, err
	}
	session.ScheduleID = e.scheduleID
	session.CreatedAt = e.now().UTC()
	session.UpdatedAt = session.CreatedAt

	if e.store != nil {
		if err := e.store.Create(ctx, session); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
		}
	}

	e.mu.Lock()
	for _, existing := range e.sessions {
		if existing.ID == session.ID {
			e.mu.Unlock()
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("session %s already exists", session.ID))
		}
	}
	e.sessions = append(e.sessions, *session)
	ids := e.recomputeLocked()
	e.mu.Unlock()

	e.notifier.Publish(ids)
	return session, nil
}

// Sessions returns a copy of the working set.
func (e *ScheduleEditorService) Sessions() []models.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Session, len(e.sessions))
	copy(out, e.sessions)
	return out
}

// Conflicts returns the current conflict id set plus pairwise detail.
func (e *ScheduleEditorService) Conflicts() ([]string, []models.SessionConflict) {
	e.mu.Lock()
	ids := ConflictIDs(e.conflicts)
	sessions := make([]models.Session, len(e.sessions))
	copy(sessions, e.sessions)
	e.mu.Unlock()
	return ids, DetectConflictPairs(sessions)
}

// Grid projects the current week into renderable cells.
func (e *ScheduleEditorService) Grid() dto.GridResponse {
	e.mu.Lock()
	defer e.mu.Unlock()
	return BuildGrid(e.week, e.sessions, e.conflicts, e.drag)
}

// StartDrag begins a drag gesture.
func (e *ScheduleEditorService) StartDrag(sessionID string) bool {
	e.mu.Lock()
	next, ok := StartDrag(e.drag, sessionID, e.readOnly)
	e.drag = next
	e.mu.Unlock()
	if e.metrics != nil {
		e.metrics.ObserveDragOperation("start")
	}
	return ok
}

// HoverDrag records the hovered grid cell. Advisory only.
func (e *ScheduleEditorService) HoverDrag(cell GridCell) {
	e.mu.Lock()
	e.drag = HoverDrag(e.drag, cell)
	e.mu.Unlock()
	if e.metrics != nil {
		e.metrics.ObserveDragOperation("hover")
	}
}

// CancelDrag clears an in-flight gesture without mutating data.
func (e *ScheduleEditorService) CancelDrag() {
	e.mu.Lock()
	e.drag = CancelDrag(e.drag)
	e.mu.Unlock()
	if e.metrics != nil {
		e.metrics.ObserveDragOperation("cancel")
	}
}

// Drop resolves the gesture. Drag state is cleared before any
// callback runs, so a callback that triggers a refresh never sees an
// in-flight drag. Persistence is fire-and-forget: a failed write is
// logged and the editor stays responsive.
func (e *ScheduleEditorService) Drop(ctx context.Context) (*models.Session, bool) {
	e.mu.Lock()
	next, updated, moved := DropDrag(e.drag, e.sessions, e.week)
	e.drag = next
	var ids []string
	if moved {
		updated.UpdatedAt = e.now().UTC()
		for i := range e.sessions {
			if e.sessions[i].ID == updated.ID {
				e.sessions[i] = *updated
				break
			}
		}
		ids = e.recomputeLocked()
	}
	e.mu.Unlock()

	if e.metrics != nil {
		e.metrics.ObserveDragOperation("drop")
	}
	if !moved {
		return nil, false
	}

	e.notifier.Publish(ids)
	e.persistPlacement(ctx, *updated)
	if e.callbacks.OnSessionChange != nil {
		e.callbacks.OnSessionChange(*updated)
	}
	return updated, true
}

// MoveSession is the direct host-facing variant of the mutation path:
// same duration-preserving placement change, without the gesture.
func (e *ScheduleEditorService) MoveSession(ctx context.Context, sessionID string, req dto.MoveSessionRequest) (*models.Session, error) {
	if err := e.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid move payload")
	}
	if e.readOnly {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "editor is read-only")
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	newStart, err := ToMinutes(req.StartTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	e.mu.Lock()
	idx := -1
	for i := range e.sessions {
		if e.sessions[i].ID == sessionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("session %s not found", sessionID))
	}
	start, _ := ToMinutes(e.sessions[idx].StartTime)
	end, _ := ToMinutes(e.sessions[idx].EndTime)

	updated := e.sessions[idx]
	updated.Date = date
	updated.StartTime = FormatMinutes(newStart)
	updated.EndTime = FormatMinutes(newStart + (end - start))
	updated.UpdatedAt = e.now().UTC()
	e.sessions[idx] = updated
	ids := e.recomputeLocked()
	e.mu.Unlock()

	e.notifier.Publish(ids)
	e.persistPlacement(ctx, updated)
	if e.callbacks.OnSessionChange != nil {
		e.callbacks.OnSessionChange(updated)
	}
	return &updated, nil
}

// NavigateWeek moves the visible week and reports the new bounds.
// Geometry only: the session list is untouched and the host is
// expected to refetch for the new range.
func (e *ScheduleEditorService) NavigateWeek(direction string) (time.Time, time.Time, error) {
	e.mu.Lock()
	switch direction {
	case "next":
		e.week = e.week.Next()
	case "previous":
		e.week = e.week.Previous()
	case "today":
		e.week = e.week.Today(e.now())
	default:
		e.mu.Unlock()
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown direction %q", direction))
	}
	start, end := e.week.Bounds()
	e.mu.Unlock()

	if e.callbacks.OnWeekChange != nil {
		e.callbacks.OnWeekChange(start, end)
	}
	return start, end, nil
}

// Week returns the current bounds without navigating.
func (e *ScheduleEditorService) Week() (time.Time, time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.week.Bounds()
}

func (e *ScheduleEditorService) recomputeLocked() []string {
	started := time.Now()
	e.conflicts = DetectConflicts(e.sessions)
	if e.metrics != nil {
		e.metrics.ObserveConflictScan(len(e.sessions), len(e.conflicts), time.Since(started))
	}
	return ConflictIDs(e.conflicts)
}

func (e *ScheduleEditorService) persistPlacement(ctx context.Context, session models.Session) {
	if e.store == nil {
		return
	}
	if err := e.store.UpdatePlacement(ctx, session); err != nil {
		e.logger.Sugar().Warnw("session placement write failed",
			"schedule_id", e.scheduleID, "session_id", session.ID, "error", err)
	}
}

func (e *ScheduleEditorService) sessionFromPayload(payload dto.SessionPayload, assignID bool) (*models.Session, error) {
	if err := e.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	date, err := models.ParseDate(payload.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	start, err := ToMinutes(payload.StartTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	end, err := ToMinutes(payload.EndTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if start >= end {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("session %q must end after it starts", payload.Title))
	}

	id := payload.ID
	if id == "" {
		if !assignID {
			return nil, appErrors.Clone(appErrors.ErrValidation, "session id is required")
		}
		id = uuid.NewString()
	}

	status := models.SessionStatus(payload.Status)
	if status == "" {
		status = models.SessionStatusPending
	}

	return &models.Session{
		ID:         id,
		ScheduleID: e.scheduleID,
		Title:      payload.Title,
		Type:       models.SessionType(payload.Type),
		Date:       date,
		StartTime:  FormatMinutes(start),
		EndTime:    FormatMinutes(end),
		Room:       payload.Room,
		Teacher:    payload.Teacher,
		Status:     status,
	}, nil
}
