package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/daybook-api/pkg/money"
	"gorm.io/gorm"
)

// Product represents a finished good in the catalog
type Product struct {
	ID           uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	Name         string      `gorm:"size:255;not null" json:"name"`
	Category     string      `gorm:"size:255;not null;index" json:"category"`
	ProductCode  string      `gorm:"size:100;not null;uniqueIndex" json:"product_code"`
	CostPrice    money.Money `gorm:"type:bigint;not null" json:"cost_price"`
	SellingPrice money.Money `gorm:"type:bigint;not null" json:"selling_price"`
	HSNCode      string      `gorm:"size:50;not null;column:hsn_code" json:"hsn_code"`
	Quantity     int         `gorm:"not null" json:"quantity"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

func (p *Product) GetID() uuid.UUID  { return p.ID }
func (p *Product) UniqueKey() string { return p.ProductCode }
