package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/Rahnken/recipe-tracker/config"
	"github.com/Rahnken/recipe-tracker/internal/api"
	"github.com/Rahnken/recipe-tracker/internal/logger"
	"github.com/Rahnken/recipe-tracker/internal/middleware"
	"github.com/Rahnken/recipe-tracker/internal/observability"
)

// Handlers groups the HTTP handlers mounted under /api/v1.
type Handlers struct {
	Auth        *api.AuthHandler
	Ingredients *api.IngredientHandler
	Recipes     *api.RecipeHandler
	RateLimits  *api.RateLimitHandler
}

// Limiters are optional; nil limiters let every request through.
type Limiters struct {
	RecipeCreation     *middleware.RateLimiter
	RecipeModification *middleware.RateLimiter
}

// SetupRouter configures the application routes
func SetupRouter(
	cfg *config.Config,
	db *gorm.DB,
	log *logger.Logger,
	tokens middleware.TokenValidator,
	h Handlers,
	limits Limiters,
) *gin.Engine {
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery(log))
	if observability.Enabled() {
		router.Use(otelgin.Middleware(observability.ServiceName))
	}
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	health := api.HealthCheck(db)
	router.GET("/health", health)

	v1 := router.Group("/api/v1")
	v1.GET("/health", health)

	// Auth routes
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
	}

	requireAuth := middleware.AuthMiddleware(tokens)

	// Ingredient directory: reads and additions are public
	ingredients := v1.Group("/ingredients")
	{
		ingredients.GET("", h.Ingredients.List)
		ingredients.POST("", h.Ingredients.Create)
		ingredients.PUT("/:id", requireAuth, h.Ingredients.Update)
		ingredients.DELETE("/:id", requireAuth, h.Ingredients.Delete)
	}

	// Protected routes
	protected := v1.Group("")
	protected.Use(requireAuth)

	recipes := protected.Group("/recipes")
	{
		recipes.GET("", h.Recipes.ListRecipes)
		recipes.POST("", limits.RecipeCreation.RateLimitMiddleware(), h.Recipes.CreateRecipe)
		recipes.GET("/export", h.Recipes.ExportRecipes)
		recipes.POST("/import", limits.RecipeCreation.RateLimitMiddleware(), h.Recipes.ImportRecipes)
		recipes.POST("/defaults/hide", h.Recipes.HideAllDefaults)
		recipes.POST("/defaults/unhide", h.Recipes.UnhideAllDefaults)

		recipes.GET("/:id", h.Recipes.GetRecipe)
		recipes.PUT("/:id", limits.RecipeModification.PerRecipeRateLimitMiddleware(), h.Recipes.UpdateRecipe)
		recipes.DELETE("/:id", h.Recipes.DeleteRecipe)
		recipes.POST("/:id/favourite", h.Recipes.ToggleFavourite)
		recipes.POST("/:id/hidden", h.Recipes.ToggleHidden)
		recipes.POST("/:id/share", h.Recipes.ShareRecipe)
		recipes.GET("/:id/shares", h.Recipes.ListShares)
	}

	if h.RateLimits != nil {
		rateLimits := protected.Group("/rate-limits")
		{
			rateLimits.GET("/recipe-creation", h.RateLimits.RecipeCreation)
			rateLimits.GET("/recipe-modification/:id", h.RateLimits.RecipeModification)
		}
	}

	return router
}
