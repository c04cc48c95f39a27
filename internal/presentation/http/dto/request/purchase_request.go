package request

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sangkips/daybook-api/internal/domain/enum"
	"github.com/sangkips/daybook-api/pkg/money"
	"github.com/shopspring/decimal"
)

// purchaseDerived are computed by the server. Clients may echo them back;
// the values are discarded.
type purchaseDerived struct {
	Total      json.RawMessage `json:"total"`
	BalanceDue json.RawMessage `json:"balance_due"`
}

// PurchaseRequest creates or fully replaces a purchase
type PurchaseRequest struct {
	Date          *Date              `json:"date" binding:"required"`
	Category      string             `json:"category" binding:"required,max=255"`
	RawMaterialID *uuid.UUID         `json:"raw_material_id" binding:"required"`
	PricePerUnit  *money.Money       `json:"price_per_unit" binding:"required"`
	Quantity      *decimal.Decimal   `json:"quantity" binding:"required"`
	Vendor        string             `json:"vendor" binding:"required,max=255"`
	PaymentMethod enum.PaymentMethod `json:"payment_method" binding:"required"`
	PaidAmount    *money.Money       `json:"paid_amount" binding:"required"`
	purchaseDerived
}

// PatchPurchaseRequest changes only the fields present in the body
type PatchPurchaseRequest struct {
	Date          *Date               `json:"date"`
	Category      *string             `json:"category" binding:"omitempty,min=1,max=255"`
	RawMaterialID *uuid.UUID          `json:"raw_material_id"`
	PricePerUnit  *money.Money        `json:"price_per_unit"`
	Quantity      *decimal.Decimal    `json:"quantity"`
	Vendor        *string             `json:"vendor" binding:"omitempty,min=1,max=255"`
	PaymentMethod *enum.PaymentMethod `json:"payment_method"`
	PaidAmount    *money.Money        `json:"paid_amount"`
	purchaseDerived
}
