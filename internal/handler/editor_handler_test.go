package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashcoder237/oapet-schedule-api/internal/dto"
	"github.com/flashcoder237/oapet-schedule-api/internal/service"
)

func newEditorRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := service.NewEditorRegistry(context.Background(), func(scheduleID string) *service.ScheduleEditorService {
		return service.NewScheduleEditorService(scheduleID, nil, service.EditorCallbacks{}, nil, nil, nil, service.EditorConfig{})
	})
	t.Cleanup(registry.Close)

	r := gin.New()
	NewEditorHandler(registry).Register(r.Group("/"))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func replacePayload() dto.ReplaceSessionsRequest {
	return dto.ReplaceSessionsRequest{Sessions: []dto.SessionPayload{
		{
			ID: "s1", Title: "Algorithms", Type: "lecture",
			Date: "2025-03-03", StartTime: "08:00", EndTime: "10:00",
			Room: "A101", Teacher: "Dupont", Status: "confirmed",
		},
		{
			ID: "s2", Title: "Networks", Type: "lab",
			Date: "2025-03-03", StartTime: "09:00", EndTime: "11:00",
			Room: "A101", Teacher: "Martin", Status: "confirmed",
		},
	}}
}

func TestEditorHandlerReplaceAndConflicts(t *testing.T) {
	r := newEditorRouter(t)

	w := doJSON(t, r, http.MethodPut, "/schedules/sched-1/sessions", replacePayload())
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/schedules/sched-1/conflicts", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data dto.ConflictsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, []string{"s1", "s2"}, envelope.Data.SessionIDs)
	assert.NotEmpty(t, envelope.Data.Details)
}

func TestEditorHandlerReplaceInvalidBody(t *testing.T) {
	r := newEditorRouter(t)

	req, _ := http.NewRequest(http.MethodPut, "/schedules/sched-1/sessions", bytes.NewReader([]byte(`not json`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEditorHandlerReplaceRejectsMalformedSession(t *testing.T) {
	r := newEditorRouter(t)

	payload := replacePayload()
	payload.Sessions[0].StartTime = "8h00"
	w := doJSON(t, r, http.MethodPut, "/schedules/sched-1/sessions", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEditorHandlerCreateSession(t *testing.T) {
	r := newEditorRouter(t)

	w := doJSON(t, r, http.MethodPost, "/schedules/sched-1/sessions", dto.SessionPayload{
		Title: "Databases", Type: "tutorial",
		Date: "2025-03-04", StartTime: "10:00", EndTime: "12:00",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.ID)
	assert.Equal(t, "pending", envelope.Data.Status)
}

func TestEditorHandlerDragLifecycle(t *testing.T) {
	r := newEditorRouter(t)
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPut, "/schedules/sched-1/sessions", replacePayload()).Code)

	w := doJSON(t, r, http.MethodPost, "/schedules/sched-1/drag/start", dto.DragStartRequest{SessionID: "s1"})
	require.Equal(t, http.StatusOK, w.Code)
	var startEnvelope struct {
		Data struct {
			Started bool `json:"started"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &startEnvelope))
	assert.True(t, startEnvelope.Data.Started)

	w = doJSON(t, r, http.MethodPost, "/schedules/sched-1/drag/hover", dto.DragHoverRequest{Day: 2, SlotStart: "14:00"})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodPost, "/schedules/sched-1/drag/drop", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dropEnvelope struct {
		Data dto.DropResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dropEnvelope))
	require.True(t, dropEnvelope.Data.Moved)
	require.NotNil(t, dropEnvelope.Data.Updated)
	assert.Equal(t, "14:00", dropEnvelope.Data.Updated.StartTime)
	assert.Equal(t, "16:00", dropEnvelope.Data.Updated.EndTime)
}

func TestEditorHandlerDragCancel(t *testing.T) {
	r := newEditorRouter(t)
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPut, "/schedules/sched-1/sessions", replacePayload()).Code)
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/schedules/sched-1/drag/start", dto.DragStartRequest{SessionID: "s1"}).Code)

	w := doJSON(t, r, http.MethodPost, "/schedules/sched-1/drag/cancel", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	// Cancelled gesture means the next drop is a no-op.
	w = doJSON(t, r, http.MethodPost, "/schedules/sched-1/drag/drop", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dropEnvelope struct {
		Data dto.DropResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dropEnvelope))
	assert.False(t, dropEnvelope.Data.Moved)
}

func TestEditorHandlerGrid(t *testing.T) {
	r := newEditorRouter(t)
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPut, "/schedules/sched-1/sessions", replacePayload()).Code)

	w := doJSON(t, r, http.MethodGet, "/schedules/sched-1/grid", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data dto.GridResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Days, 6)
	assert.Len(t, envelope.Data.SlotStarts, 14)
	assert.Len(t, envelope.Data.Cells, 6*14)
}

func TestEditorHandlerNavigateWeek(t *testing.T) {
	r := newEditorRouter(t)

	w := doJSON(t, r, http.MethodPost, "/schedules/sched-1/week", dto.WeekNavigationRequest{Direction: "next"})
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data struct {
			WeekStart string `json:"weekStart"`
			WeekEnd   string `json:"weekEnd"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.WeekStart)
	assert.NotEmpty(t, envelope.Data.WeekEnd)

	w = doJSON(t, r, http.MethodPost, "/schedules/sched-1/week", dto.WeekNavigationRequest{Direction: "sideways"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEditorHandlerMoveSession(t *testing.T) {
	r := newEditorRouter(t)
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPut, "/schedules/sched-1/sessions", replacePayload()).Code)

	w := doJSON(t, r, http.MethodPatch, "/schedules/sched-1/sessions/s1", dto.MoveSessionRequest{
		Date: "2025-03-06", StartTime: "15:00",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data struct {
			StartTime string `json:"start_time"`
			EndTime   string `json:"end_time"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "15:00", envelope.Data.StartTime)
	assert.Equal(t, "17:00", envelope.Data.EndTime)

	w = doJSON(t, r, http.MethodPatch, "/schedules/sched-1/sessions/ghost", dto.MoveSessionRequest{
		Date: "2025-03-06", StartTime: "15:00",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditorHandlerSchedulesAreIsolated(t *testing.T) {
	r := newEditorRouter(t)
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPut, "/schedules/sched-1/sessions", replacePayload()).Code)

	w := doJSON(t, r, http.MethodGet, "/schedules/sched-2/conflicts", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data dto.ConflictsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Empty(t, envelope.Data.SessionIDs)
}

func TestEditorHandlerSessionListTooLarge(t *testing.T) {
	r := newEditorRouter(t)

	payload := dto.ReplaceSessionsRequest{}
	for i := 0; i < maxSessionsPerSchedule+1; i++ {
		payload.Sessions = append(payload.Sessions, dto.SessionPayload{
			ID: "s", Title: "S", Type: "lecture",
			Date: "2025-03-03", StartTime: "08:00", EndTime: "09:00",
		})
	}
	w := doJSON(t, r, http.MethodPut, "/schedules/sched-1/sessions", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
