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

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetAllMenus
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	var menus []models.Menu

	query := mc.DB.Preload("Category").Order("id DESC")
	if categoryIDStr := c.Query("category"); categoryIDStr != "" {
		categoryID, err := strconv.Atoi(categoryIDStr)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid category ID"))
			return
		}
		query = query.Where("category_id = ?", categoryID)
	}

	if err := query.Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List menu", menus)
}

// GetMenuByID
func (mc *MenuController) GetMenuByID(c *gin.Context) {
	idStr := c.Param("menu_id")
	id, _ := strconv.Atoi(idStr)

	var menu models.Menu
	if err := mc.DB.Preload("Category").First(&menu, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Menu not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Detail menu", menu)
}

// CreateMenu
func (mc *MenuController) CreateMenu(c *gin.Context) {
	var body struct {
		Name        string          `json:"name" binding:"required"`
		Description *string         `json:"description"`
		Price       decimal.Decimal `json:"price"`
		CategoryID  *uint           `json:"category_id"`
		IsAvailable *bool           `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("missing required fields (name, price)"))
		return
	}
	if body.Price.IsNegative() {
		utils.RespondError(c, http.StatusBadRequest, errors.New("price must not be negative"))
		return
	}

	menu := models.Menu{
		Name:        body.Name,
		Description: body.Description,
		Price:       body.Price,
		CategoryID:  body.CategoryID,
		IsAvailable: true,
	}
	if body.IsAvailable != nil {
		menu.IsAvailable = *body.IsAvailable
	}

	if err := mc.DB.Create(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Menu added successfully", gin.H{"menu_id": menu.ID})
}

// UpdateMenu
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	idStr := c.Param("menu_id")
	id, _ := strconv.Atoi(idStr)

	var menu models.Menu
	if err := mc.DB.First(&menu, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Menu not found"))
		return
	}

	var body struct {
		Name        *string          `json:"name"`
		Description *string          `json:"description"`
		Price       *decimal.Decimal `json:"price"`
		CategoryID  *uint            `json:"category_id"`
		IsAvailable *bool            `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Name != nil {
		menu.Name = *body.Name
	}
	if body.Description != nil {
		menu.Description = body.Description
	}
	if body.Price != nil {
		if body.Price.IsNegative() {
			utils.RespondError(c, http.StatusBadRequest, errors.New("price must not be negative"))
			return
		}
		menu.Price = *body.Price
	}
	if body.CategoryID != nil {
		menu.CategoryID = body.CategoryID
	}
	if body.IsAvailable != nil {
		menu.IsAvailable = *body.IsAvailable
	}

	if err := mc.DB.Save(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu updated successfully", menu)
}

// DeleteMenu
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	idStr := c.Param("menu_id")
	id, _ := strconv.Atoi(idStr)

	res := mc.DB.Delete(&models.Menu{}, id)
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("Menu not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu deleted successfully", gin.H{"menu_id": id})
}
