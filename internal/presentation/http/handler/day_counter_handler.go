package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/daybook-api/internal/application/service"
	"github.com/sangkips/daybook-api/internal/domain/entity"
	"github.com/sangkips/daybook-api/internal/domain/repository"
	"github.com/sangkips/daybook-api/internal/presentation/http/dto/request"
	"github.com/sangkips/daybook-api/internal/presentation/http/dto/response"
	"github.com/sangkips/daybook-api/pkg/apperror"
	"github.com/sangkips/daybook-api/pkg/utils"
)

// DayCounterHandler handles day counter HTTP requests
type DayCounterHandler struct {
	counterService *service.DayCounterService
	exportService  *service.ExportService
}

// NewDayCounterHandler creates a new day counter handler
func NewDayCounterHandler(counterService *service.DayCounterService, exportService *service.ExportService) *DayCounterHandler {
	return &DayCounterHandler{counterService: counterService, exportService: exportService}
}

func dayCounterInput(req *request.DayCounterRequest) *service.DayCounterInput {
	return &service.DayCounterInput{
		Date:           req.Date.TimePtr(),
		OpeningBalance: req.OpeningBalance,
		Payments: entity.PaymentBreakdown{
			Cash:            orZero(req.Payments.Cash),
			DigitalTransfer: orZero(req.Payments.DigitalTransfer),
			Card:            orZero(req.Payments.Card),
			Credit:          orZero(req.Payments.Credit),
		},
		Expenses:       orZero(req.Expenses),
		CashHandOver:   orZero(req.CashHandOver),
		ClosingBalance: orZero(req.ClosingBalance),
		Remarks:        req.Remarks,
	}
}

// List handles listing day counters, newest date first
func (h *DayCounterHandler) List(c *gin.Context) {
	dates, ok := dateRange(c)
	if !ok {
		return
	}

	result, err := h.counterService.ListDayCounters(c.Request.Context(), &repository.DayCounterFilterParams{
		Pagination: pageParams(c),
		Dates:      dates,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, "Day counters retrieved successfully", result)
}

// Create handles creating the day counter for a date
func (h *DayCounterHandler) Create(c *gin.Context) {
	var req request.DayCounterRequest
	if !bindJSON(c, &req) {
		return
	}

	counter, err := h.counterService.CreateDayCounter(c.Request.Context(), dayCounterInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Day counter created successfully", counter)
}

// Get handles getting a day counter by ID
func (h *DayCounterHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "day counter")
	if !ok {
		return
	}

	counter, err := h.counterService.GetDayCounter(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Day counter retrieved successfully", counter)
}

// GetByDate handles getting the day counter for a calendar date
func (h *DayCounterHandler) GetByDate(c *gin.Context) {
	date, err := utils.ParseDate(c.Param("date"))
	if err != nil {
		response.Error(c, apperror.NewFieldError("date", err.Error()))
		return
	}

	counter, err := h.counterService.GetDayCounterByDate(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Day counter retrieved successfully", counter)
}

// Replace handles a full update of a day counter
func (h *DayCounterHandler) Replace(c *gin.Context) {
	id, ok := parseID(c, "day counter")
	if !ok {
		return
	}
	var req request.DayCounterRequest
	if !bindJSON(c, &req) {
		return
	}

	counter, err := h.counterService.ReplaceDayCounter(c.Request.Context(), id, dayCounterInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Day counter updated successfully", counter)
}

// Patch handles a partial update; the derived totals are recomputed from
// the merged fields
func (h *DayCounterHandler) Patch(c *gin.Context) {
	id, ok := parseID(c, "day counter")
	if !ok {
		return
	}
	var req request.PatchDayCounterRequest
	if !bindJSON(c, &req) {
		return
	}

	patch := &service.DayCounterPatch{
		Date:           req.Date.TimePtr(),
		OpeningBalance: req.OpeningBalance,
		Expenses:       req.Expenses,
		CashHandOver:   req.CashHandOver,
		ClosingBalance: req.ClosingBalance,
		Remarks:        req.Remarks,
	}
	if p := req.Payments; p != nil {
		patch.Payments = &service.PaymentBreakdownPatch{
			Cash:            p.Cash,
			DigitalTransfer: p.DigitalTransfer,
			Card:            p.Card,
			Credit:          p.Credit,
		}
	}

	counter, err := h.counterService.PatchDayCounter(c.Request.Context(), id, patch)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Day counter updated successfully", counter)
}

// Delete handles deleting a day counter
func (h *DayCounterHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "day counter")
	if !ok {
		return
	}

	if err := h.counterService.DeleteDayCounter(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Export writes the day counters in the from/to range as an XLSX workbook
func (h *DayCounterHandler) Export(c *gin.Context) {
	dates, ok := dateRange(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.exportService.ExportDayCounters(c.Request.Context(), &buf, dates); err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="day-counters.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
