package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/warungpos/pos-backend/models"
	"github.com/warungpos/pos-backend/utils"
)

type ModifierController struct {
	DB *gorm.DB
}

func NewModifierController(db *gorm.DB) *ModifierController {
	return &ModifierController{DB: db}
}

// GetAllModifiers lists active modifiers cheapest first, the order the POS
// screen renders them in. ?all=1 includes inactive ones for the back office.
func (mc *ModifierController) GetAllModifiers(c *gin.Context) {
	var modifiers []models.Modifier

	query := mc.DB.Order("price ASC")
	if c.Query("all") == "" {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Find(&modifiers).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List modifiers", modifiers)
}

// CreateModifier
func (mc *ModifierController) CreateModifier(c *gin.Context) {
	var body struct {
		Name         string          `json:"name" binding:"required"`
		Price        decimal.Decimal `json:"price"`
		IngredientID *uint           `json:"ingredient_id"`
		IsActive     *bool           `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("modifier name is required"))
		return
	}

	if body.IngredientID != nil {
		var ingredient models.Ingredient
		if err := mc.DB.First(&ingredient, *body.IngredientID).Error; err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("linked ingredient does not exist"))
			return
		}
	}

	modifier := models.Modifier{
		Name:         body.Name,
		Price:        body.Price,
		IngredientID: body.IngredientID,
		IsActive:     true,
	}
	if body.IsActive != nil {
		modifier.IsActive = *body.IsActive
	}

	if err := mc.DB.Create(&modifier).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Modifier created", modifier)
}

// UpdateModifier
func (mc *ModifierController) UpdateModifier(c *gin.Context) {
	idStr := c.Param("modifier_id")
	id, _ := strconv.Atoi(idStr)

	var modifier models.Modifier
	if err := mc.DB.First(&modifier, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Modifier not found"))
		return
	}

	var body struct {
		Name         *string          `json:"name"`
		Price        *decimal.Decimal `json:"price"`
		IngredientID *uint            `json:"ingredient_id"`
		IsActive     *bool            `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Name != nil {
		modifier.Name = *body.Name
	}
	if body.Price != nil {
		modifier.Price = *body.Price
	}
	if body.IngredientID != nil {
		var ingredient models.Ingredient
		if err := mc.DB.First(&ingredient, *body.IngredientID).Error; err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("linked ingredient does not exist"))
			return
		}
		modifier.IngredientID = body.IngredientID
	}
	if body.IsActive != nil {
		modifier.IsActive = *body.IsActive
	}

	if err := mc.DB.Save(&modifier).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Modifier updated", modifier)
}

// DeleteModifier
func (mc *ModifierController) DeleteModifier(c *gin.Context) {
	idStr := c.Param("modifier_id")
	id, _ := strconv.Atoi(idStr)

	res := mc.DB.Delete(&models.Modifier{}, id)
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("Modifier not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Modifier deleted", gin.H{"modifier_id": id})
}
