package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reason codes for inventory log entries.
const (
	StockReasonUsed         = "used"
	StockReasonUsedModifier = "used_modifier"
	StockReasonRestock      = "restock"
	StockReasonAdjustment   = "adjustment"
)

// InventoryLog is an append-only audit record of a stock change. Rows are
// never updated or deleted; ChangeQty is negative for consumption.
type InventoryLog struct {
	ID           uint            `gorm:"primaryKey" json:"log_id"`
	IngredientID uint            `gorm:"not null;index" json:"ingredient_id"`
	Ingredient   Ingredient      `gorm:"foreignKey:IngredientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	ChangeQty    decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"change_qty"`
	Reason       string          `gorm:"type:varchar(32);not null" json:"reason"`
	RelatedTrxID *uint           `gorm:"index" json:"related_trx_id,omitempty"`
	Note         *string         `gorm:"type:text" json:"note,omitempty"`
	CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
}
