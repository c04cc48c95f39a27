package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogRecord is implemented by the plain reference entities (vendors,
// products, raw materials, purchase categories) that share one CRUD flow.
type CatalogRecord interface {
	GetID() uuid.UUID
	// UniqueKey is the value that must not repeat across records.
	UniqueKey() string
}

// Vendor is a supplier of raw materials
type Vendor struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Contact   string    `gorm:"size:255" json:"contact"`
	Address   string    `gorm:"type:text" json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

func (Vendor) TableName() string    { return "vendors" }
func (v *Vendor) GetID() uuid.UUID  { return v.ID }
func (v *Vendor) UniqueKey() string { return v.Name }

// RawMaterial is an input bought through purchases
type RawMaterial struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"size:255" json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r *RawMaterial) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (RawMaterial) TableName() string    { return "raw_materials" }
func (r *RawMaterial) GetID() uuid.UUID  { return r.ID }
func (r *RawMaterial) UniqueKey() string { return r.Name }

// PurchaseCategory groups purchases for reporting
type PurchaseCategory struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *PurchaseCategory) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (PurchaseCategory) TableName() string    { return "purchase_categories" }
func (p *PurchaseCategory) GetID() uuid.UUID  { return p.ID }
func (p *PurchaseCategory) UniqueKey() string { return p.Name }
