package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/warungpos/pos-backend/controllers"
	"github.com/warungpos/pos-backend/models"
	"github.com/warungpos/pos-backend/utils"
)

func setupTestDBForRecipes() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(&models.Menu{}, &models.Ingredient{}, &models.MenuRecipe{})
	if err != nil {
		panic(err)
	}

	menu := models.Menu{Name: "Mie Goreng", Price: decimal.NewFromInt(20000), IsAvailable: true}
	db.Create(&menu)

	ingredient := models.Ingredient{Name: "Mie Telur", Unit: "gram", StockQty: decimal.NewFromInt(2000)}
	db.Create(&ingredient)
	other := models.Ingredient{Name: "Kecap", Unit: "ml", StockQty: decimal.NewFromInt(900)}
	db.Create(&other)

	return db
}

func setupRecipeRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	recipeCtrl := controllers.NewRecipeController(db)
	router.GET("/recipes", recipeCtrl.GetRecipes)
	router.POST("/recipes", recipeCtrl.CreateRecipe)
	router.PUT("/recipes", recipeCtrl.UpdateRecipe)
	router.DELETE("/recipes", recipeCtrl.DeleteRecipe)
	return router
}

func postRecipe(router *gin.Engine, payload map[string]interface{}) *httptest.ResponseRecorder {
	payloadBytes, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", "/recipes", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateRecipeAndDuplicatePair(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForRecipes()
	router := setupRecipeRouter(db)

	w := postRecipe(router, map[string]interface{}{
		"menu_id":       1,
		"ingredient_id": 1,
		"qty_used":      120,
		"unit":          "gram",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var createResp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &createResp)
	assert.NoError(t, err)
	assert.Equal(t, "Recipe created", createResp["message"])
	data := createResp["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["recipe_id"].(float64))
	assert.Equal(t, "120", data["qty_used"].(string))

	// the same (menu, ingredient) pair again answers 409
	w = postRecipe(router, map[string]interface{}{
		"menu_id":       1,
		"ingredient_id": 1,
		"qty_used":      50,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	var dupResp map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &dupResp)
	assert.NoError(t, err)
	assert.Equal(t, false, dupResp["success"])

	// a different ingredient for the same menu is fine
	w = postRecipe(router, map[string]interface{}{
		"menu_id":       1,
		"ingredient_id": 2,
		"qty_used":      10,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateRecipeValidation(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForRecipes()
	router := setupRecipeRouter(db)

	// qty_used must be positive
	w := postRecipe(router, map[string]interface{}{
		"menu_id":       1,
		"ingredient_id": 1,
		"qty_used":      0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// referenced rows must exist
	w = postRecipe(router, map[string]interface{}{
		"menu_id":       77,
		"ingredient_id": 1,
		"qty_used":      5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postRecipe(router, map[string]interface{}{
		"menu_id":       1,
		"ingredient_id": 77,
		"qty_used":      5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.MenuRecipe{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestUpdateAndDeleteRecipe(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForRecipes()
	router := setupRecipeRouter(db)

	w := postRecipe(router, map[string]interface{}{
		"menu_id":       1,
		"ingredient_id": 1,
		"qty_used":      100,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	updateBytes, _ := json.Marshal(map[string]interface{}{"qty_used": 150})
	req, _ := http.NewRequest("PUT", "/recipes?id=1", bytes.NewBuffer(updateBytes))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var updateResp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &updateResp)
	assert.NoError(t, err)
	data := updateResp["data"].(map[string]interface{})
	assert.Equal(t, "150", data["qty_used"].(string))

	// filter by menu
	req, _ = http.NewRequest("GET", "/recipes?menu_id=1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	var listResp map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &listResp)
	assert.NoError(t, err)
	assert.Len(t, listResp["data"].([]interface{}), 1)

	req, _ = http.NewRequest("DELETE", "/recipes?id=1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// gone now
	req, _ = http.NewRequest("DELETE", "/recipes?id=1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
