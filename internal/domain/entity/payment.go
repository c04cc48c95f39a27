package entity

import "github.com/sangkips/daybook-api/pkg/money"

// PaymentBreakdown splits an amount across the four payment channels
type PaymentBreakdown struct {
	Cash            money.Money `gorm:"type:bigint;not null" json:"cash"`
	DigitalTransfer money.Money `gorm:"type:bigint;not null" json:"digital_transfer"`
	Card            money.Money `gorm:"type:bigint;not null" json:"card"`
	Credit          money.Money `gorm:"type:bigint;not null" json:"credit"`
}

// Total is the sum of every channel
func (p PaymentBreakdown) Total() (money.Money, error) {
	return money.Sum(p.Cash, p.DigitalTransfer, p.Card, p.Credit)
}

// ExpensePayment is how an expense was paid; expenses are never paid by card
type ExpensePayment struct {
	Cash            money.Money `gorm:"type:bigint;not null" json:"cash"`
	DigitalTransfer money.Money `gorm:"type:bigint;not null" json:"digital_transfer"`
	Credit          money.Money `gorm:"type:bigint;not null" json:"credit"`
}

// Total is the sum of every channel
func (p ExpensePayment) Total() (money.Money, error) {
	return money.Sum(p.Cash, p.DigitalTransfer, p.Credit)
}
