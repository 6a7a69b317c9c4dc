package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/warungpos/pos-backend/models"
	"github.com/warungpos/pos-backend/services"
	"github.com/warungpos/pos-backend/utils"
)

type IngredientController struct {
	DB     *gorm.DB
	Ledger services.StockLedger
}

func NewIngredientController(db *gorm.DB) *IngredientController {
	return &IngredientController{
		DB:     db,
		Ledger: services.NewStockLedger(),
	}
}

// GetAllIngredients supports ?q= name search and ?low_stock_only=1.
func (ic *IngredientController) GetAllIngredients(c *gin.Context) {
	var ingredients []models.Ingredient

	query := ic.DB.Order("updated_at DESC")
	if q := c.Query("q"); q != "" {
		query = query.Where("name LIKE ?", "%"+q+"%")
	}
	if low := c.Query("low_stock_only"); low != "" && low != "0" {
		query = query.Where("low_stock_threshold IS NOT NULL AND stock_qty <= low_stock_threshold")
	}

	if err := query.Find(&ingredients).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List ingredients", ingredients)
}

// GetIngredientByID
func (ic *IngredientController) GetIngredientByID(c *gin.Context) {
	idStr := c.Param("ingredient_id")
	id, _ := strconv.Atoi(idStr)

	var ingredient models.Ingredient
	if err := ic.DB.First(&ingredient, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Ingredient not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Ingredient detail", ingredient)
}

// CreateIngredient
func (ic *IngredientController) CreateIngredient(c *gin.Context) {
	var body struct {
		Name              string              `json:"name" binding:"required"`
		Unit              string              `json:"unit" binding:"required"`
		StockQty          decimal.Decimal     `json:"stock_qty"`
		LowStockThreshold decimal.NullDecimal `json:"low_stock_threshold"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("name and unit are required"))
		return
	}

	ingredient := models.Ingredient{
		Name:              body.Name,
		Unit:              body.Unit,
		StockQty:          body.StockQty,
		LowStockThreshold: body.LowStockThreshold,
	}
	if err := ic.DB.Create(&ingredient).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Ingredient created", ingredient)
}

// UpdateIngredient changes master data. Stock itself is not edited here;
// use AdjustStock so every change leaves a ledger entry.
func (ic *IngredientController) UpdateIngredient(c *gin.Context) {
	idStr := c.Param("ingredient_id")
	id, _ := strconv.Atoi(idStr)

	var ingredient models.Ingredient
	if err := ic.DB.First(&ingredient, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Ingredient not found"))
		return
	}

	var body struct {
		Name              *string              `json:"name"`
		Unit              *string              `json:"unit"`
		LowStockThreshold *decimal.NullDecimal `json:"low_stock_threshold"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Name != nil {
		if *body.Name == "" {
			utils.RespondError(c, http.StatusBadRequest, errors.New("name must not be empty"))
			return
		}
		ingredient.Name = *body.Name
	}
	if body.Unit != nil {
		if *body.Unit == "" {
			utils.RespondError(c, http.StatusBadRequest, errors.New("unit must not be empty"))
			return
		}
		ingredient.Unit = *body.Unit
	}
	if body.LowStockThreshold != nil {
		ingredient.LowStockThreshold = *body.LowStockThreshold
	}

	if err := ic.DB.Save(&ingredient).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Ingredient updated", ingredient)
}

// AdjustStock -> POST /ingredients/:ingredient_id/adjust
// Applies a signed stock delta through the ledger so the audit trail stays
// consistent with the cached stock value.
func (ic *IngredientController) AdjustStock(c *gin.Context) {
	idStr := c.Param("ingredient_id")
	id, _ := strconv.Atoi(idStr)

	var body struct {
		ChangeQty decimal.Decimal `json:"change_qty"`
		Reason    string          `json:"reason"`
		Note      *string         `json:"note"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.ChangeQty.IsZero() {
		utils.RespondError(c, http.StatusBadRequest, errors.New("change_qty must not be zero"))
		return
	}

	reason := body.Reason
	if reason == "" {
		if body.ChangeQty.IsPositive() {
			reason = models.StockReasonRestock
		} else {
			reason = models.StockReasonAdjustment
		}
	}

	var ingredient models.Ingredient
	err := ic.DB.Transaction(func(tx *gorm.DB) error {
		if err := ic.Ledger.AdjustStock(tx, uint(id), body.ChangeQty); err != nil {
			return err
		}
		entry := models.InventoryLog{
			IngredientID: uint(id),
			ChangeQty:    body.ChangeQty,
			Reason:       reason,
			Note:         body.Note,
		}
		if err := ic.Ledger.AppendLog(tx, &entry); err != nil {
			return err
		}
		return tx.First(&ingredient, id).Error
	})
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("Ingredient not found"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Stock adjusted", ingredient)
}

// GetInventoryLogs -> GET /inventory/logs[?ingredient_id=ID]
func (ic *IngredientController) GetInventoryLogs(c *gin.Context) {
	var logs []models.InventoryLog

	query := ic.DB.Order("id DESC")
	if idStr := c.Query("ingredient_id"); idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid ingredient_id"))
			return
		}
		query = query.Where("ingredient_id = ?", id)
	}

	if err := query.Find(&logs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Inventory logs", logs)
}

// DeleteIngredient
func (ic *IngredientController) DeleteIngredient(c *gin.Context) {
	idStr := c.Param("ingredient_id")
	id, _ := strconv.Atoi(idStr)

	res := ic.DB.Delete(&models.Ingredient{}, id)
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("Ingredient not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ingredient deleted", gin.H{"ingredient_id": id})
}
