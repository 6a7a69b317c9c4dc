package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/warungpos/pos-backend/models"
)

// Catalog is the read-only view of menu data the order engine prices against.
// Every method takes the *gorm.DB in effect so lookups can run inside the
// caller's transaction when needed.
type Catalog interface {
	MenuItem(db *gorm.DB, id uint) (*models.Menu, error)
	Modifier(db *gorm.DB, id uint) (*models.Modifier, error)
	RecipeLines(db *gorm.DB, menuID uint) ([]models.MenuRecipe, error)
}

// StockLedger mutates ingredient stock. AdjustStock applies a signed relative
// delta in SQL (stock_qty = stock_qty + delta) so concurrent checkouts never
// lose updates, and AppendLog writes the matching audit row. Both must be
// called with the same transaction handle as the order writes: a stock change
// must never commit without its order, and vice versa.
type StockLedger interface {
	AdjustStock(db *gorm.DB, ingredientID uint, delta decimal.Decimal) error
	AppendLog(db *gorm.DB, entry *models.InventoryLog) error
}

type gormCatalog struct{}

func NewCatalog() Catalog {
	return gormCatalog{}
}

func (gormCatalog) MenuItem(db *gorm.DB, id uint) (*models.Menu, error) {
	var menu models.Menu
	if err := db.First(&menu, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: menu %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &menu, nil
}

func (gormCatalog) Modifier(db *gorm.DB, id uint) (*models.Modifier, error) {
	var mod models.Modifier
	if err := db.First(&mod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: modifier %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &mod, nil
}

func (gormCatalog) RecipeLines(db *gorm.DB, menuID uint) ([]models.MenuRecipe, error) {
	var lines []models.MenuRecipe
	if err := db.Where("menu_id = ?", menuID).Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

type gormLedger struct{}

func NewStockLedger() StockLedger {
	return gormLedger{}
}

func (gormLedger) AdjustStock(db *gorm.DB, ingredientID uint, delta decimal.Decimal) error {
	res := db.Model(&models.Ingredient{}).
		Where("id = ?", ingredientID).
		UpdateColumn("stock_qty", gorm.Expr("stock_qty + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: ingredient %d", ErrNotFound, ingredientID)
	}
	return nil
}

func (gormLedger) AppendLog(db *gorm.DB, entry *models.InventoryLog) error {
	return db.Create(entry).Error
}
