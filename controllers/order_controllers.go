package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/warungpos/pos-backend/services"
	"github.com/warungpos/pos-backend/utils"
)

type OrderController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{
		DB:     db,
		Orders: services.NewOrderService(db),
	}
}

// Checkout -> POST /orders
// Prices the cart, persists the transaction and deducts ingredient stock in
// one unit of work, then returns the full receipt.
func (oc *OrderController) Checkout(c *gin.Context) {
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("missing required fields: items, user_id"))
		return
	}

	trx, err := oc.Orders.Checkout(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Transaction created", trx)
}

// RecordPayment -> PUT /orders
// Finalizes an existing transaction with the tendered amount.
func (oc *OrderController) RecordPayment(c *gin.Context) {
	var req struct {
		TrxID   uint            `json:"trx_id" binding:"required"`
		Payment decimal.Decimal `json:"payment"`
		Note    *string         `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("missing required fields: trx_id, payment"))
		return
	}

	trx, err := oc.Orders.RecordPayment(req.TrxID, req.Payment, req.Note)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("Transaction not found"))
			return
		}
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment recorded", gin.H{
		"trx_id":  trx.ID,
		"payment": trx.PaymentAmount.Decimal,
		"change":  trx.ChangeAmount.Decimal,
	})
}

// GetOrders -> GET /orders[?trx_id=ID]
// With trx_id returns one receipt, otherwise the full list newest first.
func (oc *OrderController) GetOrders(c *gin.Context) {
	trxIDStr := c.Query("trx_id")
	if trxIDStr != "" {
		trxID, err := strconv.Atoi(trxIDStr)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid trx_id"))
			return
		}

		trx, err := oc.Orders.GetTransaction(uint(trxID))
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				utils.RespondError(c, http.StatusNotFound, errors.New("Transaction not found"))
				return
			}
			respondServiceError(c, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Transaction detail", trx)
		return
	}

	trxs, err := oc.Orders.ListTransactions()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List transactions", trxs)
}
