package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an order created at checkout. Totals are fixed at creation
// time and never recomputed afterwards; the only later mutation is payment
// finalization (payment, change, note, completion flag).
type Transaction struct {
	ID             uint                `gorm:"primaryKey" json:"trx_id"`
	UserID         uint                `gorm:"not null;index" json:"user_id"`
	User           User                `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	TableNo        *string             `gorm:"type:varchar(20)" json:"table_no,omitempty"`
	Subtotal       decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	DiscountAmount decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0" json:"discount_amount"`
	TaxAmount      decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0" json:"tax_amount"`
	Total          decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"total"`
	PaymentAmount  decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"payment_amount"`
	ChangeAmount   decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"change_amount"`
	Note           *string             `gorm:"type:text" json:"note,omitempty"`
	IsCompleted    bool                `gorm:"not null;default:false" json:"is_completed"`
	CreatedAt      time.Time           `gorm:"not null" json:"created_at"`
	Items          []TransactionItem   `gorm:"foreignKey:TransactionID;references:ID" json:"items"`
}
