package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/warungpos/pos-backend/models"
	"github.com/warungpos/pos-backend/utils"
)

type RecipeController struct {
	DB *gorm.DB
}

func NewRecipeController(db *gorm.DB) *RecipeController {
	return &RecipeController{DB: db}
}

// isDuplicatePairErr detects a unique-index violation on (menu, ingredient).
// Error strings differ per driver, so match the common substrings.
func isDuplicatePairErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

// GetRecipes supports ?id=, ?menu_id= and ?ingredient_id= filters.
func (rc *RecipeController) GetRecipes(c *gin.Context) {
	if idStr := c.Query("id"); idStr != "" {
		id, _ := strconv.Atoi(idStr)
		var recipe models.MenuRecipe
		if err := rc.DB.First(&recipe, id).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("Recipe not found"))
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Recipe detail", recipe)
		return
	}

	query := rc.DB.Model(&models.MenuRecipe{})
	if menuIDStr := c.Query("menu_id"); menuIDStr != "" {
		menuID, _ := strconv.Atoi(menuIDStr)
		query = query.Where("menu_id = ?", menuID)
	}
	if ingredientIDStr := c.Query("ingredient_id"); ingredientIDStr != "" {
		ingredientID, _ := strconv.Atoi(ingredientIDStr)
		query = query.Where("ingredient_id = ?", ingredientID)
	}

	var recipes []models.MenuRecipe
	if err := query.Find(&recipes).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List recipes", recipes)
}

// CreateRecipe registers an ingredient consumption line for a menu item.
// The (menu, ingredient) pair must be unique; duplicates answer 409.
func (rc *RecipeController) CreateRecipe(c *gin.Context) {
	var body struct {
		MenuID       uint            `json:"menu_id" binding:"required"`
		IngredientID uint            `json:"ingredient_id" binding:"required"`
		QtyUsed      decimal.Decimal `json:"qty_used"`
		Unit         *string         `json:"unit"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("menu_id and ingredient_id are required"))
		return
	}
	if !body.QtyUsed.IsPositive() {
		utils.RespondError(c, http.StatusBadRequest, errors.New("qty_used must be greater than 0"))
		return
	}

	var menu models.Menu
	if err := rc.DB.First(&menu, body.MenuID).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("menu does not exist"))
		return
	}
	var ingredient models.Ingredient
	if err := rc.DB.First(&ingredient, body.IngredientID).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("ingredient does not exist"))
		return
	}

	recipe := models.MenuRecipe{
		MenuID:       body.MenuID,
		IngredientID: body.IngredientID,
		QtyUsed:      body.QtyUsed,
		Unit:         body.Unit,
	}
	if err := rc.DB.Create(&recipe).Error; err != nil {
		if isDuplicatePairErr(err) {
			utils.RespondError(c, http.StatusConflict, errors.New("this ingredient is already registered for the menu"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Recipe created", recipe)
}

// UpdateRecipe
func (rc *RecipeController) UpdateRecipe(c *gin.Context) {
	idStr := c.Query("id")
	id, _ := strconv.Atoi(idStr)
	if id <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("query parameter 'id' is required"))
		return
	}

	var recipe models.MenuRecipe
	if err := rc.DB.First(&recipe, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Recipe not found"))
		return
	}

	var body struct {
		MenuID       *uint            `json:"menu_id"`
		IngredientID *uint            `json:"ingredient_id"`
		QtyUsed      *decimal.Decimal `json:"qty_used"`
		Unit         *string          `json:"unit"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.MenuID != nil {
		recipe.MenuID = *body.MenuID
	}
	if body.IngredientID != nil {
		recipe.IngredientID = *body.IngredientID
	}
	if body.QtyUsed != nil {
		if !body.QtyUsed.IsPositive() {
			utils.RespondError(c, http.StatusBadRequest, errors.New("qty_used must be greater than 0"))
			return
		}
		recipe.QtyUsed = *body.QtyUsed
	}
	if body.Unit != nil {
		recipe.Unit = body.Unit
	}

	if err := rc.DB.Save(&recipe).Error; err != nil {
		if isDuplicatePairErr(err) {
			utils.RespondError(c, http.StatusConflict, errors.New("menu and ingredient combination already in use"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Recipe updated", recipe)
}

// DeleteRecipe
func (rc *RecipeController) DeleteRecipe(c *gin.Context) {
	idStr := c.Query("id")
	id, _ := strconv.Atoi(idStr)
	if id <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("query parameter 'id' is required"))
		return
	}

	res := rc.DB.Delete(&models.MenuRecipe{}, id)
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("Recipe not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Recipe deleted", gin.H{"recipe_id": id})
}
