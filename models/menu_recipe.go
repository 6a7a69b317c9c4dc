package models

import (
	"github.com/shopspring/decimal"
)

// MenuRecipe maps a menu item to the ingredient quantity it consumes per unit
// sold. The (menu, ingredient) pair is unique; QtyUsed must be > 0.
type MenuRecipe struct {
	ID           uint            `gorm:"primaryKey" json:"recipe_id"`
	MenuID       uint            `gorm:"not null;uniqueIndex:idx_menu_ingredient" json:"menu_id"`
	Menu         Menu            `gorm:"foreignKey:MenuID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	IngredientID uint            `gorm:"not null;uniqueIndex:idx_menu_ingredient" json:"ingredient_id"`
	Ingredient   Ingredient      `gorm:"foreignKey:IngredientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	QtyUsed      decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"qty_used"`
	Unit         *string         `gorm:"type:varchar(50)" json:"unit,omitempty"`
}

func (MenuRecipe) TableName() string {
	return "menu_recipes"
}
