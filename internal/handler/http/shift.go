package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ShiftHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	Start(w http.ResponseWriter, r *http.Request)
	End(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	MarkMissed(w http.ResponseWriter, r *http.Request)
	MarkNoShow(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService shift.ShiftService
}

func NewShiftHandler(shiftService shift.ShiftService) ShiftHandler {
	return &shiftHandlerImpl{shiftService: shiftService}
}

// Create implements ShiftHandler.
func (h *shiftHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req shift.CreateShiftRequest
	if err := decodeJSON(r, &req, "CreateShift"); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.shiftService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Shift created successfully", result)
}

// List implements ShiftHandler.
func (h *shiftHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := shift.ShiftFilter{
		AgentID:   queryString(r, "agent_id"),
		Date:      queryString(r, "date"),
		StartDate: queryString(r, "start_date"),
		EndDate:   queryString(r, "end_date"),
		Status:    queryString(r, "status"),
		ShiftType: queryString(r, "shift_type"),
		Page:      getIntQueryParam(r, "page", 1),
		Limit:     getIntQueryParam(r, "limit", 20),
		SortBy:    r.URL.Query().Get("sort_by"),
		SortOrder: r.URL.Query().Get("sort_order"),
	}

	result, err := h.shiftService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Get implements ShiftHandler.
func (h *shiftHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.shiftService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Update implements ShiftHandler.
func (h *shiftHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req shift.UpdateShiftRequest
	if err := decodeJSON(r, &req, "UpdateShift"); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.shiftService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Shift updated successfully", result)
}

// Delete implements ShiftHandler.
func (h *shiftHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.shiftService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	slog.Info("Shift deleted", "shift_id", id)
	response.SuccessWithMessage(w, "Shift deleted successfully", nil)
}

func (h *shiftHandlerImpl) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) (shift.ShiftResponse, error), message string) {
	result, err := fn(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, message, result)
}

// Start implements ShiftHandler.
func (h *shiftHandlerImpl) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.shiftService.Start, "Shift started")
}

// End implements ShiftHandler.
func (h *shiftHandlerImpl) End(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.shiftService.End, "Shift completed")
}

// Cancel implements ShiftHandler.
func (h *shiftHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.shiftService.Cancel, "Shift cancelled")
}

// MarkMissed implements ShiftHandler.
func (h *shiftHandlerImpl) MarkMissed(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.shiftService.MarkMissed, "Shift marked as missed")
}

// MarkNoShow implements ShiftHandler.
func (h *shiftHandlerImpl) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.shiftService.MarkNoShow, "Shift marked as no-show")
}
