package models

import (
	"github.com/shopspring/decimal"
)

// TransactionItem is one cart line of a transaction. PriceAtTime is the unit
// price snapshot taken at checkout (base price plus modifier deltas); later
// menu price changes never affect stored lines.
type TransactionItem struct {
	ID            uint                      `gorm:"primaryKey" json:"id"`
	TransactionID uint                      `gorm:"not null;index" json:"trx_id"`
	Transaction   Transaction               `gorm:"foreignKey:TransactionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuID        uint                      `gorm:"not null" json:"menu_id"`
	Menu          Menu                      `gorm:"foreignKey:MenuID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu"`
	Qty           int                       `gorm:"not null" json:"qty"`
	PriceAtTime   decimal.Decimal           `gorm:"type:decimal(12,2);not null" json:"price_at_time"`
	LineTotal     decimal.Decimal           `gorm:"type:decimal(12,2);not null" json:"line_total"`
	Modifiers     []TransactionItemModifier `gorm:"foreignKey:ItemID;references:ID" json:"modifiers"`
}

// TransactionItemModifier snapshots a modifier selected on a line.
type TransactionItemModifier struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ItemID      uint            `gorm:"not null;index" json:"item_id"`
	ModifierID  uint            `gorm:"not null" json:"modifier_id"`
	Modifier    Modifier        `gorm:"foreignKey:ModifierID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	PriceAtTime decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_at_time"`
}
