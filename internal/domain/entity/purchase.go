package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/daybook-api/internal/domain/enum"
	"github.com/sangkips/daybook-api/pkg/money"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Purchase represents a raw-material purchase from a vendor.
// Total and BalanceDue are derived and never taken from the client.
type Purchase struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	Date          time.Time          `gorm:"type:date;not null;index" json:"date"`
	Category      string             `gorm:"size:255;not null" json:"category"`
	RawMaterialID uuid.UUID          `gorm:"type:uuid;not null;index" json:"raw_material_id"`
	PricePerUnit  money.Money        `gorm:"type:bigint;not null" json:"price_per_unit"`
	Quantity      decimal.Decimal    `gorm:"type:decimal(15,3);not null" json:"quantity"`
	Vendor        string             `gorm:"size:255;not null;index" json:"vendor"`
	PaymentMethod enum.PaymentMethod `gorm:"not null" json:"payment_method"`
	PaidAmount    money.Money        `gorm:"type:bigint;not null" json:"paid_amount"`
	Total         money.Money        `gorm:"type:bigint;not null" json:"total"`
	BalanceDue    money.Money        `gorm:"type:bigint;not null" json:"balance_due"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`

	// Relationships
	RawMaterial *RawMaterial `gorm:"foreignKey:RawMaterialID" json:"raw_material,omitempty"`
}

// BeforeCreate generates a UUID before creating a new purchase
func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Purchase model
func (Purchase) TableName() string {
	return "purchases"
}
