package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/daybook-api/internal/application/service"
	"github.com/sangkips/daybook-api/internal/domain/entity"
	"github.com/sangkips/daybook-api/internal/domain/repository"
	"github.com/sangkips/daybook-api/internal/presentation/http/dto/request"
	"github.com/sangkips/daybook-api/internal/presentation/http/dto/response"
)

// catalogBody is a request DTO that can be copied onto a record of type T.
type catalogBody[T any, R any] interface {
	*R
	Apply(*T)
}

func bindCatalog[T any, R any, P catalogBody[T, R]](c *gin.Context) (func(*T), bool) {
	req := P(new(R))
	if !bindJSON(c, req) {
		return nil, false
	}
	return req.Apply, true
}

// CatalogHandler serves list, create, get, full update and delete for one
// kind of catalog record
type CatalogHandler[T any] struct {
	service *service.CatalogService[T]
	noun    string
	plural  string
	bind    func(c *gin.Context) (func(*T), bool)
}

// NewVendorHandler creates the vendor handler
func NewVendorHandler(svc *service.CatalogService[entity.Vendor]) *CatalogHandler[entity.Vendor] {
	return &CatalogHandler[entity.Vendor]{service: svc, noun: "Vendor", plural: "Vendors",
		bind: bindCatalog[entity.Vendor, request.VendorRequest, *request.VendorRequest]}
}

// NewProductHandler creates the product handler
func NewProductHandler(svc *service.CatalogService[entity.Product]) *CatalogHandler[entity.Product] {
	return &CatalogHandler[entity.Product]{service: svc, noun: "Product", plural: "Products",
		bind: bindCatalog[entity.Product, request.ProductRequest, *request.ProductRequest]}
}

// NewRawMaterialHandler creates the raw material handler
func NewRawMaterialHandler(svc *service.CatalogService[entity.RawMaterial]) *CatalogHandler[entity.RawMaterial] {
	return &CatalogHandler[entity.RawMaterial]{service: svc, noun: "Raw material", plural: "Raw materials",
		bind: bindCatalog[entity.RawMaterial, request.RawMaterialRequest, *request.RawMaterialRequest]}
}

// NewPurchaseCategoryHandler creates the purchase category handler
func NewPurchaseCategoryHandler(svc *service.CatalogService[entity.PurchaseCategory]) *CatalogHandler[entity.PurchaseCategory] {
	return &CatalogHandler[entity.PurchaseCategory]{service: svc, noun: "Purchase category", plural: "Purchase categories",
		bind: bindCatalog[entity.PurchaseCategory, request.PurchaseCategoryRequest, *request.PurchaseCategoryRequest]}
}

// List handles listing records ordered by name
func (h *CatalogHandler[T]) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), &repository.ListParams{
		Pagination: pageParams(c),
		Search:     c.Query("search"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, h.plural+" retrieved successfully", result)
}

// Create handles creating a record
func (h *CatalogHandler[T]) Create(c *gin.Context) {
	apply, ok := h.bind(c)
	if !ok {
		return
	}

	record := new(T)
	apply(record)
	created, err := h.service.Create(c.Request.Context(), record)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, h.noun+" created successfully", created)
}

// Get handles getting a record by ID
func (h *CatalogHandler[T]) Get(c *gin.Context) {
	id, ok := parseID(c, h.noun)
	if !ok {
		return
	}

	record, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, h.noun+" retrieved successfully", record)
}

// Update handles replacing every field of a record
func (h *CatalogHandler[T]) Update(c *gin.Context) {
	id, ok := parseID(c, h.noun)
	if !ok {
		return
	}
	apply, ok := h.bind(c)
	if !ok {
		return
	}

	record, err := h.service.Update(c.Request.Context(), id, apply)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, h.noun+" updated successfully", record)
}

// Delete handles deleting a record
func (h *CatalogHandler[T]) Delete(c *gin.Context) {
	id, ok := parseID(c, h.noun)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
