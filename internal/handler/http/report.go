package http

import (
	"net/http"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

// Submit implements ReportHandler.
func (h *reportHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req report.SubmitReportRequest
	if err := decodeJSON(r, &req, "SubmitReport"); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.reportService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Activity report submitted", result)
}

// List implements ReportHandler.
func (h *reportHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := report.ReportFilter{
		EmployeeID: queryString(r, "employee_id"),
		Approved:   getBoolQueryParam(r, "approved"),
		ReportType: queryString(r, "report_type"),
		StartDate:  queryString(r, "start_date"),
		EndDate:    queryString(r, "end_date"),
		Page:       getIntQueryParam(r, "page", 1),
		Limit:      getIntQueryParam(r, "limit", 20),
	}

	result, err := h.reportService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Get implements ReportHandler.
func (h *reportHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Update implements ReportHandler.
func (h *reportHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req report.UpdateReportRequest
	if err := decodeJSON(r, &req, "UpdateReport"); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.reportService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Activity report updated", result)
}

// Delete implements ReportHandler.
func (h *reportHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.reportService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Activity report deleted", nil)
}

// Approve implements ReportHandler.
func (h *reportHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Activity report approved", result)
}
