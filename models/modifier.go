package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modifier is an optional add-on to a menu item. Price is the delta applied
// on top of the menu's base price. IngredientID, when set, links the modifier
// to an ingredient that is consumed once per unit sold.
type Modifier struct {
	ID           uint            `gorm:"primaryKey" json:"modifier_id"`
	Name         string          `gorm:"type:varchar(100);not null" json:"name"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	IngredientID *uint           `gorm:"index" json:"ingredient_id,omitempty"`
	Ingredient   *Ingredient     `gorm:"foreignKey:IngredientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	IsActive     bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null" json:"updated_at"`
}

func (Modifier) TableName() string {
	return "menu_modifiers"
}
