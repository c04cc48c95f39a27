package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/daybook-api/internal/application/service"
	"github.com/sangkips/daybook-api/internal/domain/repository"
	"github.com/sangkips/daybook-api/internal/presentation/http/dto/request"
	"github.com/sangkips/daybook-api/internal/presentation/http/dto/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PurchaseHandler handles purchase-related HTTP requests
type PurchaseHandler struct {
	purchaseService *service.PurchaseService
	exportService   *service.ExportService
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(purchaseService *service.PurchaseService, exportService *service.ExportService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService, exportService: exportService}
}

func purchaseInput(req *request.PurchaseRequest) *service.PurchaseInput {
	return &service.PurchaseInput{
		Date:          req.Date.Time,
		Category:      req.Category,
		RawMaterialID: *req.RawMaterialID,
		PricePerUnit:  *req.PricePerUnit,
		Quantity:      *req.Quantity,
		Vendor:        req.Vendor,
		PaymentMethod: req.PaymentMethod,
		PaidAmount:    *req.PaidAmount,
	}
}

// List handles listing purchases
func (h *PurchaseHandler) List(c *gin.Context) {
	dates, ok := dateRange(c)
	if !ok {
		return
	}

	params := &repository.PurchaseFilterParams{
		Pagination: pageParams(c),
		Vendor:     c.Query("vendor"),
		Category:   c.Query("category"),
		Dates:      dates,
	}
	if raw := c.Query("raw_material_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid raw material ID")
			return
		}
		params.RawMaterialID = &id
	}

	result, err := h.purchaseService.ListPurchases(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, "Purchases retrieved successfully", result)
}

// Create handles creating a purchase
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req request.PurchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	purchase, err := h.purchaseService.CreatePurchase(c.Request.Context(), purchaseInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Purchase created successfully", purchase)
}

// Get handles getting a single purchase
func (h *PurchaseHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "purchase")
	if !ok {
		return
	}

	purchase, err := h.purchaseService.GetPurchase(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase retrieved successfully", purchase)
}

// Replace handles a full update of a purchase
func (h *PurchaseHandler) Replace(c *gin.Context) {
	id, ok := parseID(c, "purchase")
	if !ok {
		return
	}
	var req request.PurchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	purchase, err := h.purchaseService.ReplacePurchase(c.Request.Context(), id, purchaseInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase updated successfully", purchase)
}

// Patch handles a partial update of a purchase
func (h *PurchaseHandler) Patch(c *gin.Context) {
	id, ok := parseID(c, "purchase")
	if !ok {
		return
	}
	var req request.PatchPurchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	purchase, err := h.purchaseService.PatchPurchase(c.Request.Context(), id, &service.PurchasePatch{
		Date:          req.Date.TimePtr(),
		Category:      req.Category,
		RawMaterialID: req.RawMaterialID,
		PricePerUnit:  req.PricePerUnit,
		Quantity:      req.Quantity,
		Vendor:        req.Vendor,
		PaymentMethod: req.PaymentMethod,
		PaidAmount:    req.PaidAmount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase updated successfully", purchase)
}

// Delete handles deleting a purchase
func (h *PurchaseHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "purchase")
	if !ok {
		return
	}

	if err := h.purchaseService.DeletePurchase(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Export writes the purchases in the from/to range as an XLSX workbook
func (h *PurchaseHandler) Export(c *gin.Context) {
	dates, ok := dateRange(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.exportService.ExportPurchases(c.Request.Context(), &buf, dates); err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="purchases.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
