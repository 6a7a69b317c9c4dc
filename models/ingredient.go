package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient holds the cached current stock level. StockQty is only ever
// mutated alongside an InventoryLog row; the log is the audit trail and the
// stock field is the cached running sum of its deltas. Stock may go negative:
// checkout does not reserve or pre-check stock.
type Ingredient struct {
	ID                uint                `gorm:"primaryKey" json:"ingredient_id"`
	Name              string              `gorm:"type:varchar(255);not null" json:"name"`
	Unit              string              `gorm:"type:varchar(50);not null" json:"unit"`
	StockQty          decimal.Decimal     `gorm:"type:decimal(12,3);not null;default:0" json:"stock_qty"`
	LowStockThreshold decimal.NullDecimal `gorm:"type:decimal(12,3)" json:"low_stock_threshold"`
	CreatedAt         time.Time           `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time           `gorm:"not null" json:"updated_at"`
}
