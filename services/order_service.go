package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/warungpos/pos-backend/models"
	"github.com/warungpos/pos-backend/utils"
)

// OrderService is the checkout engine: it prices a cart against the catalog,
// then persists the transaction header, its items and modifier snapshots, and
// the recipe-driven stock deductions in a single database transaction.
type OrderService struct {
	DB      *gorm.DB
	Catalog Catalog
	Ledger  StockLedger
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{
		DB:      db,
		Catalog: NewCatalog(),
		Ledger:  NewStockLedger(),
	}
}

type CartModifier struct {
	ModifierID uint `json:"modifier_id" binding:"required"`
	// Price sent by the client is informational only and never trusted.
	Price *decimal.Decimal `json:"price,omitempty"`
}

type CartLine struct {
	MenuID    uint             `json:"menu_id" binding:"required"`
	Qty       int              `json:"qty" binding:"required"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Modifiers []CartModifier   `json:"modifiers"`
}

type CheckoutRequest struct {
	UserID   uint            `json:"user_id" binding:"required"`
	TableNo  *string         `json:"table_no"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Items    []CartLine      `json:"items" binding:"required"`
}

// pricedLine is a cart line after catalog resolution, ready to persist.
type pricedLine struct {
	menu      *models.Menu
	qty       int
	unitPrice decimal.Decimal
	lineTotal decimal.Decimal
	modifiers []*models.Modifier
}

// Checkout validates and prices the cart, then runs the atomic unit of work.
// On success the persisted receipt (header + items + modifiers) is returned;
// on any failure nothing is persisted.
func (s *OrderService) Checkout(req CheckoutRequest) (*models.Transaction, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrInvalidInput)
	}
	if req.Discount.IsNegative() || req.Tax.IsNegative() {
		return nil, fmt.Errorf("%w: discount and tax must not be negative", ErrInvalidInput)
	}

	var operator models.User
	if err := s.DB.Where("id = ? AND is_active = ?", req.UserID, true).First(&operator).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d is not an active operator", ErrInvalidInput, req.UserID)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// Price every line against the catalog. Prices are re-fetched here;
	// client-sent prices are ignored.
	lines := make([]pricedLine, 0, len(req.Items))
	subtotal := decimal.Zero
	for _, item := range req.Items {
		if item.Qty <= 0 {
			return nil, fmt.Errorf("%w: qty must be greater than 0 for menu %d", ErrInvalidInput, item.MenuID)
		}

		menu, err := s.Catalog.MenuItem(s.DB, item.MenuID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: menu ID %d not found", ErrInvalidInput, item.MenuID)
			}
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if !menu.IsAvailable {
			return nil, fmt.Errorf("%w: menu %q is not available", ErrInvalidInput, menu.Name)
		}

		unitPrice := menu.Price
		mods := make([]*models.Modifier, 0, len(item.Modifiers))
		for _, sel := range item.Modifiers {
			mod, err := s.Catalog.Modifier(s.DB, sel.ModifierID)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					return nil, fmt.Errorf("%w: modifier ID %d not found", ErrInvalidInput, sel.ModifierID)
				}
				return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
			}
			if !mod.IsActive {
				return nil, fmt.Errorf("%w: modifier %q is not active", ErrInvalidInput, mod.Name)
			}
			unitPrice = unitPrice.Add(mod.Price)
			mods = append(mods, mod)
		}

		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(item.Qty)))
		subtotal = subtotal.Add(lineTotal)
		lines = append(lines, pricedLine{
			menu:      menu,
			qty:       item.Qty,
			unitPrice: unitPrice,
			lineTotal: lineTotal,
			modifiers: mods,
		})
	}

	total := subtotal.Sub(req.Discount).Add(req.Tax)
	if total.IsNegative() {
		return nil, fmt.Errorf("%w: total would be negative", ErrInvalidInput)
	}

	trx := models.Transaction{
		UserID:         req.UserID,
		TableNo:        req.TableNo,
		Subtotal:       subtotal,
		DiscountAmount: req.Discount,
		TaxAmount:      req.Tax,
		Total:          total,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&trx).Error; err != nil {
			return err
		}

		for _, line := range lines {
			item := models.TransactionItem{
				TransactionID: trx.ID,
				MenuID:        line.menu.ID,
				Qty:           line.qty,
				PriceAtTime:   line.unitPrice,
				LineTotal:     line.lineTotal,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}

			for _, mod := range line.modifiers {
				snap := models.TransactionItemModifier{
					ItemID:      item.ID,
					ModifierID:  mod.ID,
					PriceAtTime: mod.Price,
				}
				if err := tx.Create(&snap).Error; err != nil {
					return err
				}
			}

			if err := s.deductRecipe(tx, &trx, line); err != nil {
				return err
			}
			if err := s.deductModifierStock(tx, &trx, line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.ErrorLogger.Printf("checkout rolled back for user %d: %v", req.UserID, err)
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	utils.InfoLogger.Printf("transaction %d created by user %d, total %s",
		trx.ID, req.UserID, utils.FormatCurrencyIDR(trx.Total))

	return s.GetTransaction(trx.ID)
}

// deductRecipe consumes the line's recipe ingredients: qty_used per unit times
// the line quantity, with one ledger row per ingredient.
func (s *OrderService) deductRecipe(tx *gorm.DB, trx *models.Transaction, line pricedLine) error {
	recipes, err := s.Catalog.RecipeLines(tx, line.menu.ID)
	if err != nil {
		return err
	}

	qty := decimal.NewFromInt(int64(line.qty))
	for _, rl := range recipes {
		consumed := rl.QtyUsed.Mul(qty)
		if err := s.Ledger.AdjustStock(tx, rl.IngredientID, consumed.Neg()); err != nil {
			return err
		}
		entry := models.InventoryLog{
			IngredientID: rl.IngredientID,
			ChangeQty:    consumed.Neg(),
			Reason:       models.StockReasonUsed,
			RelatedTrxID: &trx.ID,
		}
		if err := s.Ledger.AppendLog(tx, &entry); err != nil {
			return err
		}
	}
	return nil
}

// deductModifierStock consumes one unit of each linked ingredient per
// line quantity for every selected modifier that has an ingredient link.
func (s *OrderService) deductModifierStock(tx *gorm.DB, trx *models.Transaction, line pricedLine) error {
	qty := decimal.NewFromInt(int64(line.qty))
	for _, mod := range line.modifiers {
		if mod.IngredientID == nil {
			continue
		}
		if err := s.Ledger.AdjustStock(tx, *mod.IngredientID, qty.Neg()); err != nil {
			return err
		}
		note := fmt.Sprintf("modifier %s on menu %s", mod.Name, line.menu.Name)
		entry := models.InventoryLog{
			IngredientID: *mod.IngredientID,
			ChangeQty:    qty.Neg(),
			Reason:       models.StockReasonUsedModifier,
			RelatedTrxID: &trx.ID,
			Note:         &note,
		}
		if err := s.Ledger.AppendLog(tx, &entry); err != nil {
			return err
		}
	}
	return nil
}

// RecordPayment finalizes an existing transaction: change = payment - total,
// and the row is marked completed. Underpayment is recorded, not rejected;
// the change amount simply goes negative.
func (s *OrderService) RecordPayment(trxID uint, payment decimal.Decimal, note *string) (*models.Transaction, error) {
	if payment.IsNegative() {
		return nil, fmt.Errorf("%w: payment must not be negative", ErrInvalidInput)
	}

	var trx models.Transaction
	if err := s.DB.First(&trx, trxID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: transaction %d", ErrNotFound, trxID)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	change := payment.Sub(trx.Total)
	updates := map[string]interface{}{
		"payment_amount": payment,
		"change_amount":  change,
		"is_completed":   true,
	}
	if note != nil {
		updates["note"] = *note
	}
	if err := s.DB.Model(&trx).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	trx.PaymentAmount = decimal.NewNullDecimal(payment)
	trx.ChangeAmount = decimal.NewNullDecimal(change)
	trx.Note = note
	trx.IsCompleted = true

	utils.InfoLogger.Printf("transaction %d paid %s, change %s",
		trx.ID, utils.FormatCurrencyIDR(payment), utils.FormatCurrencyIDR(change))

	return &trx, nil
}

// GetTransaction returns one transaction with its items and modifier snapshots.
func (s *OrderService) GetTransaction(trxID uint) (*models.Transaction, error) {
	var trx models.Transaction
	err := s.DB.Preload("Items.Menu").Preload("Items.Modifiers").First(&trx, trxID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: transaction %d", ErrNotFound, trxID)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &trx, nil
}

// ListTransactions returns all transactions, newest first.
func (s *OrderService) ListTransactions() ([]models.Transaction, error) {
	var trxs []models.Transaction
	err := s.DB.Preload("Items").Order("id DESC").Find(&trxs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return trxs, nil
}
