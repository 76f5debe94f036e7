package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/staffsync/attendance-backend-go/internal/config"
	"github.com/staffsync/attendance-backend-go/internal/domain/attendance"
	"github.com/staffsync/attendance-backend-go/internal/handler/http/response"
	"github.com/staffsync/attendance-backend-go/internal/pkg/clock"
)

type AttendanceHandler interface {
	MarkLeave(w http.ResponseWriter, r *http.Request)
	MarkRemote(w http.ResponseWriter, r *http.Request)
	GetMine(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Sweep(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	engine attendance.Service
	clock  clock.Clock
	cfg    config.AttendanceConfig
}

func NewAttendanceHandler(engine attendance.Service, clk clock.Clock, cfg config.AttendanceConfig) AttendanceHandler {
	return &AttendanceHandlerImpl{engine: engine, clock: clk, cfg: cfg}
}

// MarkLeave implements AttendanceHandler.
func (h *AttendanceHandlerImpl) MarkLeave(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.MarkLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("MarkLeave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	rec, err := h.engine.MarkLeave(r.Context(), userID, req)
	if err != nil {
		slog.Error("MarkLeave service error", "error", err, "user_id", userID)
		response.HandleError(w, err)
		return
	}

	slog.Info("Leave marked", "user_id", userID, "date", rec.Date)
	response.Created(w, "Leave recorded", rec)
}

// MarkRemote implements AttendanceHandler.
func (h *AttendanceHandlerImpl) MarkRemote(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.MarkRemoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("MarkRemote decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	rec, err := h.engine.MarkRemote(r.Context(), userID, req)
	if err != nil {
		slog.Error("MarkRemote service error", "error", err, "user_id", userID)
		response.HandleError(w, err)
		return
	}

	slog.Info("Remote work marked", "user_id", userID, "date", rec.Date)
	response.Created(w, "Remote work recorded", rec)
}

// GetMine implements AttendanceHandler.
func (h *AttendanceHandlerImpl) GetMine(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.engine.GetMyAttendance(r.Context(), userID)
	if err != nil {
		slog.Error("GetMyAttendance service error", "error", err, "user_id", userID)
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// List implements AttendanceHandler. Admin only; filters come from the
// query string.
func (h *AttendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	req := attendance.ListRequest{
		Date:       r.URL.Query().Get("date"),
		Department: r.URL.Query().Get("department"),
		Status:     r.URL.Query().Get("status"),
	}

	resp, err := h.engine.ListForDate(r.Context(), req)
	if err != nil {
		slog.Error("ListForDate service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Update implements AttendanceHandler. The explicit admin correction path.
func (h *AttendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	rec, err := h.engine.UpdateRecord(r.Context(), req)
	if err != nil {
		slog.Error("UpdateRecord service error", "error", err, "record_id", req.ID)
		response.HandleError(w, err)
		return
	}

	slog.Info("Attendance record updated", "record_id", rec.ID)
	response.SuccessWithMessage(w, "Record updated", rec)
}

type sweepRequest struct {
	Date string `json:"date"`
}

// Sweep implements AttendanceHandler. Manual trigger for the absence sweep,
// defaulting to today when no date is given. The sweep is idempotent so
// re-triggering is safe.
func (h *AttendanceHandlerImpl) Sweep(w http.ResponseWriter, r *http.Request) {
	var req sweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		slog.Error("Sweep decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// An explicit date is interpreted in the portal timezone so it names
	// the same civil day the sweep will resolve it to.
	date := h.clock.Now()
	if req.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.Date, h.cfg.Location())
		if err != nil {
			response.BadRequest(w, "date must be in YYYY-MM-DD format", nil)
			return
		}
		date = parsed
	}

	result, err := h.engine.RunAbsenceSweep(r.Context(), date)
	if err != nil {
		slog.Error("RunAbsenceSweep service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Absence sweep triggered", "date", result.Date, "marked", result.Marked)
	response.SuccessWithMessage(w, "Absence sweep completed", result)
}
