package request

import (
	"github.com/sangkips/daybook-api/internal/domain/entity"
	"github.com/sangkips/daybook-api/pkg/money"
)

// VendorRequest creates or fully replaces a vendor
type VendorRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Contact string `json:"contact" binding:"max=255"`
	Address string `json:"address"`
}

func (r *VendorRequest) Apply(v *entity.Vendor) {
	v.Name = r.Name
	v.Contact = r.Contact
	v.Address = r.Address
}

// ProductRequest creates or fully replaces a product
type ProductRequest struct {
	Name         string       `json:"name" binding:"required,max=255"`
	Category     string       `json:"category" binding:"required,max=255"`
	ProductCode  string       `json:"product_code" binding:"required,max=100"`
	CostPrice    *money.Money `json:"cost_price" binding:"required"`
	SellingPrice *money.Money `json:"selling_price" binding:"required"`
	HSNCode      string       `json:"hsn_code" binding:"required,max=50"`
	Quantity     int          `json:"quantity" binding:"min=0"`
}

func (r *ProductRequest) Apply(p *entity.Product) {
	p.Name = r.Name
	p.Category = r.Category
	p.ProductCode = r.ProductCode
	p.CostPrice = *r.CostPrice
	p.SellingPrice = *r.SellingPrice
	p.HSNCode = r.HSNCode
	p.Quantity = r.Quantity
}

// RawMaterialRequest creates or fully replaces a raw material
type RawMaterialRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"max=255"`
}

func (r *RawMaterialRequest) Apply(m *entity.RawMaterial) {
	m.Name = r.Name
	m.Description = r.Description
	m.Category = r.Category
}

// PurchaseCategoryRequest creates or fully replaces a purchase category
type PurchaseCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

func (r *PurchaseCategoryRequest) Apply(c *entity.PurchaseCategory) {
	c.Name = r.Name
	c.Description = r.Description
}
