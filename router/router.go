package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/warungpos/pos-backend/controllers"
	"github.com/warungpos/pos-backend/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	// Global limiter must be attached before any route is registered,
	// otherwise gin never applies it to them.
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	userCtrl := controllers.NewUserController(db)
	categoryCtrl := controllers.NewCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	modifierCtrl := controllers.NewModifierController(db)
	ingredientCtrl := controllers.NewIngredientController(db)
	recipeCtrl := controllers.NewRecipeController(db)
	orderCtrl := controllers.NewOrderController(db)
	reportCtrl := controllers.NewReportController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Login is throttled harder than the rest of the API.
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/login", userCtrl.Login)
	}

	// Everything below requires a bearer token from /login.
	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware())
	{
		// ORDERS (the checkout surface)
		api.POST("/orders", orderCtrl.Checkout)
		api.PUT("/orders", orderCtrl.RecordPayment)
		api.GET("/orders", orderCtrl.GetOrders)

		// USERS
		api.GET("/users", userCtrl.GetAllUsers)
		api.POST("/users", userCtrl.CreateUser)
		api.GET("/users/:user_id", userCtrl.GetUserByID)
		api.PUT("/users/:user_id", userCtrl.UpdateUser)
		api.DELETE("/users/:user_id", userCtrl.DeleteUser)

		// CATEGORIES
		api.GET("/categories", categoryCtrl.GetAllCategories)
		api.POST("/categories", categoryCtrl.CreateCategory)
		api.GET("/categories/:cat_id", categoryCtrl.GetCategoryByID)
		api.PUT("/categories/:cat_id", categoryCtrl.UpdateCategory)
		api.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

		// MENUS
		api.GET("/menus", menuCtrl.GetAllMenus)
		api.POST("/menus", menuCtrl.CreateMenu)
		api.GET("/menus/:menu_id", menuCtrl.GetMenuByID)
		api.PUT("/menus/:menu_id", menuCtrl.UpdateMenu)
		api.DELETE("/menus/:menu_id", menuCtrl.DeleteMenu)

		// MODIFIERS
		api.GET("/modifiers", modifierCtrl.GetAllModifiers)
		api.POST("/modifiers", modifierCtrl.CreateModifier)
		api.PUT("/modifiers/:modifier_id", modifierCtrl.UpdateModifier)
		api.DELETE("/modifiers/:modifier_id", modifierCtrl.DeleteModifier)

		// INGREDIENTS & INVENTORY
		api.GET("/ingredients", ingredientCtrl.GetAllIngredients)
		api.POST("/ingredients", ingredientCtrl.CreateIngredient)
		api.GET("/ingredients/:ingredient_id", ingredientCtrl.GetIngredientByID)
		api.PUT("/ingredients/:ingredient_id", ingredientCtrl.UpdateIngredient)
		api.DELETE("/ingredients/:ingredient_id", ingredientCtrl.DeleteIngredient)
		api.POST("/ingredients/:ingredient_id/adjust", ingredientCtrl.AdjustStock)
		api.GET("/inventory/logs", ingredientCtrl.GetInventoryLogs)

		// RECIPES
		api.GET("/recipes", recipeCtrl.GetRecipes)
		api.POST("/recipes", recipeCtrl.CreateRecipe)
		api.PUT("/recipes", recipeCtrl.UpdateRecipe)
		api.DELETE("/recipes", recipeCtrl.DeleteRecipe)

		// DASHBOARD & REPORTS
		api.GET("/dashboard", reportCtrl.GetDashboard)
		api.GET("/reports", reportCtrl.GetReport)
	}

	return r
}
