package services_test

import (
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/warungpos/pos-backend/models"
	"github.com/warungpos/pos-backend/services"
	"github.com/warungpos/pos-backend/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Menu{},
		&models.Ingredient{},
		&models.Modifier{},
		&models.MenuRecipe{},
		&models.Transaction{},
		&models.TransactionItem{},
		&models.TransactionItemModifier{},
		&models.InventoryLog{},
	)
	require.NoError(t, err)
	return db
}

// seedCatalog builds the worked example: a menu at 24000 consuming 10 units
// of one ingredient per item, plus a 5000 modifier linked to another
// ingredient.
func seedCatalog(t *testing.T, db *gorm.DB) (menu models.Menu, mod models.Modifier, base, linked models.Ingredient, op models.User) {
	op = models.User{Username: "kasir1", PasswordHash: "x", FullName: "Kasir Satu", Role: "cashier", IsActive: true}
	require.NoError(t, db.Create(&op).Error)

	base = models.Ingredient{Name: "Beras", Unit: "gram", StockQty: decimal.NewFromInt(1000)}
	require.NoError(t, db.Create(&base).Error)

	linked = models.Ingredient{Name: "Telur", Unit: "pcs", StockQty: decimal.NewFromInt(50)}
	require.NoError(t, db.Create(&linked).Error)

	menu = models.Menu{Name: "Nasi Goreng", Price: decimal.NewFromInt(24000), IsAvailable: true}
	require.NoError(t, db.Create(&menu).Error)

	mod = models.Modifier{Name: "Extra Telur", Price: decimal.NewFromInt(5000), IngredientID: &linked.ID, IsActive: true}
	require.NoError(t, db.Create(&mod).Error)

	recipe := models.MenuRecipe{MenuID: menu.ID, IngredientID: base.ID, QtyUsed: decimal.NewFromInt(10)}
	require.NoError(t, db.Create(&recipe).Error)

	return menu, mod, base, linked, op
}

func TestCheckoutWorkedExample(t *testing.T) {
	db := setupDB(t)
	menu, mod, base, linked, op := seedCatalog(t, db)
	svc := services.NewOrderService(db)

	trx, err := svc.Checkout(services.CheckoutRequest{
		UserID: op.ID,
		Items: []services.CartLine{
			{MenuID: menu.ID, Qty: 2, Modifiers: []services.CartModifier{{ModifierID: mod.ID}}},
		},
	})
	require.NoError(t, err)

	// (24000 + 5000) * 2
	assert.True(t, trx.Subtotal.Equal(decimal.NewFromInt(58000)), "subtotal = %s", trx.Subtotal)
	assert.True(t, trx.Total.Equal(decimal.NewFromInt(58000)))
	require.Len(t, trx.Items, 1)
	assert.True(t, trx.Items[0].PriceAtTime.Equal(decimal.NewFromInt(29000)))
	assert.True(t, trx.Items[0].LineTotal.Equal(decimal.NewFromInt(58000)))
	require.Len(t, trx.Items[0].Modifiers, 1)
	assert.True(t, trx.Items[0].Modifiers[0].PriceAtTime.Equal(decimal.NewFromInt(5000)))

	var logs []models.InventoryLog
	require.NoError(t, db.Order("id ASC").Find(&logs).Error)
	require.Len(t, logs, 2)

	assert.Equal(t, base.ID, logs[0].IngredientID)
	assert.Equal(t, models.StockReasonUsed, logs[0].Reason)
	assert.True(t, logs[0].ChangeQty.Equal(decimal.NewFromInt(-20)))
	require.NotNil(t, logs[0].RelatedTrxID)
	assert.Equal(t, trx.ID, *logs[0].RelatedTrxID)

	assert.Equal(t, linked.ID, logs[1].IngredientID)
	assert.Equal(t, models.StockReasonUsedModifier, logs[1].Reason)
	assert.True(t, logs[1].ChangeQty.Equal(decimal.NewFromInt(-2)))

	var baseAfter, linkedAfter models.Ingredient
	require.NoError(t, db.First(&baseAfter, base.ID).Error)
	require.NoError(t, db.First(&linkedAfter, linked.ID).Error)
	assert.True(t, baseAfter.StockQty.Equal(decimal.NewFromInt(980)), "base stock = %s", baseAfter.StockQty)
	assert.True(t, linkedAfter.StockQty.Equal(decimal.NewFromInt(48)))
}

func TestCheckoutTotalArithmetic(t *testing.T) {
	db := setupDB(t)
	menu, _, _, _, op := seedCatalog(t, db)
	svc := services.NewOrderService(db)

	discount := decimal.NewFromInt(3000)
	tax := decimal.RequireFromString("2640.50")

	trx, err := svc.Checkout(services.CheckoutRequest{
		UserID:   op.ID,
		Discount: discount,
		Tax:      tax,
		Items:    []services.CartLine{{MenuID: menu.ID, Qty: 3}},
	})
	require.NoError(t, err)

	subtotal := decimal.NewFromInt(72000)
	assert.True(t, trx.Subtotal.Equal(subtotal))
	assert.True(t, trx.Total.Equal(subtotal.Sub(discount).Add(tax)), "total = %s", trx.Total)

	// total survives a round trip through the store exactly
	fetched, err := svc.GetTransaction(trx.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Total.Equal(subtotal.Sub(discount).Add(tax)))
	assert.True(t, fetched.Items[0].LineTotal.Equal(fetched.Items[0].PriceAtTime.Mul(decimal.NewFromInt(3))))
}

func TestCheckoutValidation(t *testing.T) {
	db := setupDB(t)
	menu, mod, _, _, op := seedCatalog(t, db)
	svc := services.NewOrderService(db)

	cases := []struct {
		name string
		req  services.CheckoutRequest
	}{
		{"empty cart", services.CheckoutRequest{UserID: op.ID}},
		{"zero qty", services.CheckoutRequest{UserID: op.ID, Items: []services.CartLine{{MenuID: menu.ID, Qty: 0}}}},
		{"unknown menu", services.CheckoutRequest{UserID: op.ID, Items: []services.CartLine{{MenuID: 9999, Qty: 1}}}},
		{"unknown modifier", services.CheckoutRequest{UserID: op.ID, Items: []services.CartLine{
			{MenuID: menu.ID, Qty: 1, Modifiers: []services.CartModifier{{ModifierID: 9999}}}}}},
		{"unknown operator", services.CheckoutRequest{UserID: 9999, Items: []services.CartLine{{MenuID: menu.ID, Qty: 1}}}},
		{"negative total", services.CheckoutRequest{UserID: op.ID, Discount: decimal.NewFromInt(100000),
			Items: []services.CartLine{{MenuID: menu.ID, Qty: 1}}}},
		{"negative discount", services.CheckoutRequest{UserID: op.ID, Discount: decimal.NewFromInt(-1),
			Items: []services.CartLine{{MenuID: menu.ID, Qty: 1}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Checkout(tc.req)
			assert.ErrorIs(t, err, services.ErrInvalidInput)
		})
	}

	// inactive modifier and unavailable menu are rejected too
	require.NoError(t, db.Model(&mod).Update("is_active", false).Error)
	_, err := svc.Checkout(services.CheckoutRequest{UserID: op.ID, Items: []services.CartLine{
		{MenuID: menu.ID, Qty: 1, Modifiers: []services.CartModifier{{ModifierID: mod.ID}}}}})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	require.NoError(t, db.Model(&menu).Update("is_available", false).Error)
	_, err = svc.Checkout(services.CheckoutRequest{UserID: op.ID, Items: []services.CartLine{{MenuID: menu.ID, Qty: 1}}})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	// nothing was persisted by any of the rejected carts
	var trxCount, itemCount, logCount int64
	db.Model(&models.Transaction{}).Count(&trxCount)
	db.Model(&models.TransactionItem{}).Count(&itemCount)
	db.Model(&models.InventoryLog{}).Count(&logCount)
	assert.Zero(t, trxCount)
	assert.Zero(t, itemCount)
	assert.Zero(t, logCount)
}

func TestCheckoutRollsBackOnFailure(t *testing.T) {
	db := setupDB(t)
	menu, _, _, _, op := seedCatalog(t, db)
	svc := services.NewOrderService(db)

	// A recipe line pointing at a missing ingredient makes the stock
	// decrement fail mid-transaction.
	broken := models.MenuRecipe{MenuID: menu.ID, IngredientID: 9999, QtyUsed: decimal.NewFromInt(1)}
	require.NoError(t, db.Create(&broken).Error)

	_, err := svc.Checkout(services.CheckoutRequest{
		UserID: op.ID,
		Items:  []services.CartLine{{MenuID: menu.ID, Qty: 1}},
	})
	require.Error(t, err)

	var trxCount, itemCount, logCount int64
	db.Model(&models.Transaction{}).Count(&trxCount)
	db.Model(&models.TransactionItem{}).Count(&itemCount)
	db.Model(&models.InventoryLog{}).Count(&logCount)
	assert.Zero(t, trxCount, "no order header may survive a failed checkout")
	assert.Zero(t, itemCount)
	assert.Zero(t, logCount)

	// the good ingredient's stock was not touched either
	var baseAfter models.Ingredient
	require.NoError(t, db.Where("name = ?", "Beras").First(&baseAfter).Error)
	assert.True(t, baseAfter.StockQty.Equal(decimal.NewFromInt(1000)))
}

func TestPriceSnapshotInvariance(t *testing.T) {
	db := setupDB(t)
	menu, _, _, _, op := seedCatalog(t, db)
	svc := services.NewOrderService(db)

	trx, err := svc.Checkout(services.CheckoutRequest{
		UserID: op.ID,
		Items:  []services.CartLine{{MenuID: menu.ID, Qty: 2}},
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&menu).Update("price", decimal.NewFromInt(99000)).Error)

	fetched, err := svc.GetTransaction(trx.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Items[0].PriceAtTime.Equal(decimal.NewFromInt(24000)))
	assert.True(t, fetched.Items[0].LineTotal.Equal(decimal.NewFromInt(48000)))
	assert.True(t, fetched.Total.Equal(decimal.NewFromInt(48000)))
}

func TestStockMatchesLedger(t *testing.T) {
	db := setupDB(t)
	menu, mod, base, linked, op := seedCatalog(t, db)
	svc := services.NewOrderService(db)
	ledger := services.NewStockLedger()

	for i := 0; i < 3; i++ {
		_, err := svc.Checkout(services.CheckoutRequest{
			UserID: op.ID,
			Items: []services.CartLine{
				{MenuID: menu.ID, Qty: i + 1, Modifiers: []services.CartModifier{{ModifierID: mod.ID}}},
			},
		})
		require.NoError(t, err)
	}

	// a manual restock flows through the same ledger
	require.NoError(t, ledger.AdjustStock(db, base.ID, decimal.NewFromInt(500)))
	require.NoError(t, ledger.AppendLog(db, &models.InventoryLog{
		IngredientID: base.ID,
		ChangeQty:    decimal.NewFromInt(500),
		Reason:       models.StockReasonRestock,
	}))

	initial := map[uint]decimal.Decimal{
		base.ID:   decimal.NewFromInt(1000),
		linked.ID: decimal.NewFromInt(50),
	}
	for id, start := range initial {
		var logs []models.InventoryLog
		require.NoError(t, db.Where("ingredient_id = ?", id).Find(&logs).Error)

		sum := start
		for _, l := range logs {
			sum = sum.Add(l.ChangeQty)
		}

		var ing models.Ingredient
		require.NoError(t, db.First(&ing, id).Error)
		assert.True(t, ing.StockQty.Equal(sum), "ingredient %d: stock %s != ledger sum %s", id, ing.StockQty, sum)
	}
}

func TestStockMayGoNegative(t *testing.T) {
	db := setupDB(t)
	menu, _, base, _, op := seedCatalog(t, db)
	svc := services.NewOrderService(db)

	// 150 * 10 units consumed against a stock of 1000: oversell is allowed
	_, err := svc.Checkout(services.CheckoutRequest{
		UserID: op.ID,
		Items:  []services.CartLine{{MenuID: menu.ID, Qty: 150}},
	})
	require.NoError(t, err)

	var after models.Ingredient
	require.NoError(t, db.First(&after, base.ID).Error)
	assert.True(t, after.StockQty.Equal(decimal.NewFromInt(-500)), "stock = %s", after.StockQty)
}

func TestRecordPayment(t *testing.T) {
	db := setupDB(t)
	menu, _, _, _, op := seedCatalog(t, db)
	svc := services.NewOrderService(db)

	trx, err := svc.Checkout(services.CheckoutRequest{
		UserID: op.ID,
		Items:  []services.CartLine{{MenuID: menu.ID, Qty: 1}},
	})
	require.NoError(t, err)

	note := "lunch rush"
	paid, err := svc.RecordPayment(trx.ID, decimal.NewFromInt(25000), &note)
	require.NoError(t, err)
	assert.True(t, paid.PaymentAmount.Decimal.Equal(decimal.NewFromInt(25000)))
	assert.True(t, paid.ChangeAmount.Decimal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, paid.IsCompleted)

	var stored models.Transaction
	require.NoError(t, db.First(&stored, trx.ID).Error)
	assert.True(t, stored.IsCompleted)
	require.True(t, stored.PaymentAmount.Valid)
	assert.True(t, stored.PaymentAmount.Decimal.Equal(decimal.NewFromInt(25000)))
	require.NotNil(t, stored.Note)
	assert.Equal(t, note, *stored.Note)
}

func TestRecordPaymentUnderpaymentRecorded(t *testing.T) {
	db := setupDB(t)
	menu, _, _, _, op := seedCatalog(t, db)
	svc := services.NewOrderService(db)

	trx, err := svc.Checkout(services.CheckoutRequest{
		UserID: op.ID,
		Items:  []services.CartLine{{MenuID: menu.ID, Qty: 1}},
	})
	require.NoError(t, err)

	paid, err := svc.RecordPayment(trx.ID, decimal.NewFromInt(20000), nil)
	require.NoError(t, err)
	assert.True(t, paid.ChangeAmount.Decimal.Equal(decimal.NewFromInt(-4000)))
}

func TestRecordPaymentNotFound(t *testing.T) {
	db := setupDB(t)
	seedCatalog(t, db)
	svc := services.NewOrderService(db)

	_, err := svc.RecordPayment(4242, decimal.NewFromInt(1000), nil)
	assert.ErrorIs(t, err, services.ErrNotFound)

	var count int64
	db.Model(&models.Transaction{}).Count(&count)
	assert.Zero(t, count)
}
