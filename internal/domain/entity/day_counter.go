package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/daybook-api/pkg/money"
	"gorm.io/gorm"
)

// DayCounter is the cash reconciliation snapshot for one calendar date.
// TotalDayCounter, ActualClosingCounter and Difference are derived from the
// other money fields on every write.
type DayCounter struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Date           time.Time        `gorm:"type:date;not null;uniqueIndex" json:"date"`
	OpeningBalance money.Money      `gorm:"type:bigint;not null" json:"opening_balance"`
	Payments       PaymentBreakdown `gorm:"embedded;embeddedPrefix:payment_" json:"payments"`
	Expenses       money.Money      `gorm:"type:bigint;not null" json:"expenses"`
	CashHandOver   money.Money      `gorm:"type:bigint;not null" json:"cash_hand_over"`
	ClosingBalance money.Money      `gorm:"type:bigint;not null" json:"closing_balance"`
	Remarks        string           `gorm:"type:text" json:"remarks"`

	TotalDayCounter      money.Money `gorm:"type:bigint;not null" json:"total_day_counter"`
	ActualClosingCounter money.Money `gorm:"type:bigint;not null" json:"actual_closing_counter"`
	Difference           money.Money `gorm:"type:bigint;not null" json:"difference"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new day counter
func (d *DayCounter) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DayCounter model
func (DayCounter) TableName() string {
	return "day_counters"
}
