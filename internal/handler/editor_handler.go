package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flashcoder237/oapet-schedule-api/internal/dto"
	"github.com/flashcoder237/oapet-schedule-api/internal/models"
	"github.com/flashcoder237/oapet-schedule-api/internal/service"
	appErrors "github.com/flashcoder237/oapet-schedule-api/pkg/errors"
	"github.com/flashcoder237/oapet-schedule-api/pkg/response"
)

const maxSessionsPerSchedule = 512

type editorProvider interface {
	Get(scheduleID string) *service.ScheduleEditorService
}

// EditorHandler exposes the timetable editor over HTTP.
type EditorHandler struct {
	editors editorProvider
}

// NewEditorHandler constructs the handler.
func NewEditorHandler(editors editorProvider) *EditorHandler {
	return &EditorHandler{editors: editors}
}

// Register wires the editor routes onto a router group.
func (h *EditorHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/schedules/:id/sessions", h.ListSessions)
	rg.PUT("/schedules/:id/sessions", h.ReplaceSessions)
	rg.POST("/schedules/:id/sessions", h.CreateSession)
	rg.GET("/schedules/:id/conflicts", h.Conflicts)
	rg.GET("/schedules/:id/grid", h.Grid)
	rg.POST("/schedules/:id/drag/start", h.DragStart)
	rg.POST("/schedules/:id/drag/hover", h.DragHover)
	rg.POST("/schedules/:id/drag/drop", h.DragDrop)
	rg.POST("/schedules/:id/drag/cancel", h.DragCancel)
	rg.POST("/schedules/:id/week", h.NavigateWeek)
	rg.PATCH("/schedules/:id/sessions/:sessionId", h.MoveSession)
}

// ListSessions godoc
// @Summary List the sessions loaded for a schedule
// @Tags Editor
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/sessions [get]
func (h *EditorHandler) ListSessions(c *gin.Context) {
	editor := h.editors.Get(c.Param("id"))
	if err := editor.Load(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, editor.Sessions(), nil)
}

// ReplaceSessions godoc
// @Summary Replace the editor's working session set
// @Tags Editor
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.ReplaceSessionsRequest true "Replace sessions payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/sessions [put]
func (h *EditorHandler) ReplaceSessions(c *gin.Context) {
	var req dto.ReplaceSessionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid sessions payload"))
		return
	}
	if len(req.Sessions) > maxSessionsPerSchedule {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "session list exceeds supported size"))
		return
	}
	editor := h.editors.Get(c.Param("id"))
	if err := editor.ReplaceSessions(req.Sessions); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, editor.Sessions(), nil)
}

// CreateSession godoc
// @Summary Add a session to a schedule
// @Tags Editor
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.SessionPayload true "Session payload"
// @Success 201 {object} response.Envelope
// @Router /schedules/{id}/sessions [post]
func (h *EditorHandler) CreateSession(c *gin.Context) {
	var req dto.SessionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}
	editor := h.editors.Get(c.Param("id"))
	session, err := editor.CreateSession(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Conflicts godoc
// @Summary Current conflict set for a schedule
// @Tags Editor
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/conflicts [get]
func (h *EditorHandler) Conflicts(c *gin.Context) {
	editor := h.editors.Get(c.Param("id"))
	ids, details := editor.Conflicts()
	response.JSON(c, http.StatusOK, dto.ConflictsResponse{SessionIDs: ids, Details: details}, nil)
}

// Grid godoc
// @Summary Rendered week grid for a schedule
// @Tags Editor
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/grid [get]
func (h *EditorHandler) Grid(c *gin.Context) {
	editor := h.editors.Get(c.Param("id"))
	response.JSON(c, http.StatusOK, editor.Grid(), nil)
}

// DragStart godoc
// @Summary Begin dragging a session
// @Tags Editor
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.DragStartRequest true "Drag start payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/drag/start [post]
func (h *EditorHandler) DragStart(c *gin.Context) {
	var req dto.DragStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid drag payload"))
		return
	}
	editor := h.editors.Get(c.Param("id"))
	started := editor.StartDrag(req.SessionID)
	response.JSON(c, http.StatusOK, gin.H{"started": started}, nil)
}

// DragHover godoc
// @Summary Record the hovered grid cell
// @Tags Editor
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.DragHoverRequest true "Hover payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/drag/hover [post]
func (h *EditorHandler) DragHover(c *gin.Context) {
	var req dto.DragHoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid hover payload"))
		return
	}
	editor := h.editors.Get(c.Param("id"))
	editor.HoverDrag(service.GridCell{Day: req.Day, SlotStart: req.SlotStart})
	response.NoContent(c)
}

// DragDrop godoc
// @Summary Drop the dragged session onto the hovered cell
// @Tags Editor
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/drag/drop [post]
func (h *EditorHandler) DragDrop(c *gin.Context) {
	editor := h.editors.Get(c.Param("id"))
	updated, moved := editor.Drop(c.Request.Context())
	response.JSON(c, http.StatusOK, dto.DropResponse{Updated: updated, Moved: moved}, nil)
}

// DragCancel godoc
// @Summary Cancel the in-flight drag gesture
// @Tags Editor
// @Param id path string true "Schedule ID"
// @Success 204
// @Router /schedules/{id}/drag/cancel [post]
func (h *EditorHandler) DragCancel(c *gin.Context) {
	editor := h.editors.Get(c.Param("id"))
	editor.CancelDrag()
	response.NoContent(c)
}

// NavigateWeek godoc
// @Summary Move the visible week
// @Tags Editor
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.WeekNavigationRequest true "Navigation payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/week [post]
func (h *EditorHandler) NavigateWeek(c *gin.Context) {
	var req dto.WeekNavigationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid navigation payload"))
		return
	}
	editor := h.editors.Get(c.Param("id"))
	start, end, err := editor.NavigateWeek(req.Direction)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"weekStart": start.Format(models.DateLayout),
		"weekEnd":   end.Format(models.DateLayout),
	}, nil)
}

// MoveSession godoc
// @Summary Move a session to a new date and start time
// @Tags Editor
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param sessionId path string true "Session ID"
// @Param payload body dto.MoveSessionRequest true "Move payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/sessions/{sessionId} [patch]
func (h *EditorHandler) MoveSession(c *gin.Context) {
	var req dto.MoveSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid move payload"))
		return
	}
	editor := h.editors.Get(c.Param("id"))
	session, err := editor.MoveSession(c.Request.Context(), c.Param("sessionId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}
