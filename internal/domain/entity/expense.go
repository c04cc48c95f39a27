package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/daybook-api/pkg/money"
	"gorm.io/gorm"
)

// Expense is an operating expense recorded by a user.
// Total is derived from Payment; BalanceDue is what is still owed to the payee
// and is supplied by the caller.
type Expense struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Date        time.Time      `gorm:"type:date;not null;index" json:"date"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Category    string         `gorm:"size:255;not null;index" json:"category"`
	Payment     ExpensePayment `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	Total       money.Money    `gorm:"type:bigint;not null" json:"total"`
	BalanceDue  money.Money    `gorm:"type:bigint;not null" json:"balance_due"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new expense
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Expense model
func (Expense) TableName() string {
	return "expenses"
}
