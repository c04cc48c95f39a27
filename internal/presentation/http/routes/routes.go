package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/daybook-api/internal/config"
	"github.com/sangkips/daybook-api/internal/domain/entity"
	domainRepo "github.com/sangkips/daybook-api/internal/domain/repository"
	"github.com/sangkips/daybook-api/internal/presentation/http/handler"
	"github.com/sangkips/daybook-api/internal/presentation/http/middleware"
	"github.com/sangkips/daybook-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth             *handler.AuthHandler
	User             *handler.UserHandler
	Purchase         *handler.PurchaseHandler
	Expense          *handler.ExpenseHandler
	DayCounter       *handler.DayCounterHandler
	Vendor           *handler.CatalogHandler[entity.Vendor]
	Product          *handler.CatalogHandler[entity.Product]
	RawMaterial      *handler.CatalogHandler[entity.RawMaterial]
	PurchaseCategory *handler.CatalogHandler[entity.PurchaseCategory]
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Logger          logrus.FieldLogger
	RateLimiter     *middleware.UserRateLimiter
}

// NewRateLimiter builds the per-user limiter from the rate limit settings:
// Requests per Duration seconds, with bursts up to Requests.
func NewRateLimiter(cfg config.RateLimitConfig) *middleware.UserRateLimiter {
	rlCfg := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rlCfg.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rlCfg.BurstSize = cfg.Requests
	}
	return middleware.NewUserRateLimiter(rlCfg)
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	rateLimiter := deps.RateLimiter
	if rateLimiter == nil {
		rateLimiter = NewRateLimiter(deps.Cfg.RateLimit)
	}

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, h, rateLimiter)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(rateLimiter.Middleware())
		protected.Use(middleware.Idempotency(middleware.IdempotencyConfig{
			Repo:   deps.IdempotencyRepo,
			Logger: deps.Logger,
		}))

		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers, rateLimiter *middleware.UserRateLimiter) {
	auth := v1.Group("/auth")
	auth.Use(rateLimiter.Middleware())
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	me := protected.Group("/auth")
	{
		me.GET("/me", h.Auth.Me)
		me.PATCH("/me", h.Auth.UpdateProfile)
		me.DELETE("/me", h.Auth.DeleteAccount)
		me.POST("/change-password", h.Auth.ChangePassword)
	}

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole(entity.RoleAdmin))
	{
		admin.GET("/users", h.User.List)
		admin.PATCH("/users/:id", h.User.Update)
	}

	purchases := protected.Group("/purchases")
	{
		purchases.GET("", h.Purchase.List)
		purchases.POST("", h.Purchase.Create)
		purchases.GET("/export", h.Purchase.Export)
		purchases.GET("/:id", h.Purchase.Get)
		purchases.PUT("/:id", h.Purchase.Replace)
		purchases.PATCH("/:id", h.Purchase.Patch)
		purchases.DELETE("/:id", h.Purchase.Delete)
	}

	expenses := protected.Group("/expenses")
	{
		expenses.GET("", h.Expense.List)
		expenses.POST("", h.Expense.Create)
		expenses.GET("/:id", h.Expense.Get)
		expenses.PUT("/:id", h.Expense.Replace)
		expenses.PATCH("/:id", h.Expense.Patch)
		expenses.DELETE("/:id", h.Expense.Delete)
	}

	counters := protected.Group("/day-counters")
	{
		counters.GET("", h.DayCounter.List)
		counters.POST("", h.DayCounter.Create)
		counters.GET("/export", h.DayCounter.Export)
		counters.GET("/date/:date", h.DayCounter.GetByDate)
		counters.GET("/:id", h.DayCounter.Get)
		counters.PUT("/:id", h.DayCounter.Replace)
		counters.PATCH("/:id", h.DayCounter.Patch)
		counters.DELETE("/:id", h.DayCounter.Delete)
	}

	registerCatalogRoutes(protected.Group("/vendors"), h.Vendor)
	registerCatalogRoutes(protected.Group("/products"), h.Product)
	registerCatalogRoutes(protected.Group("/raw-materials"), h.RawMaterial)
	registerCatalogRoutes(protected.Group("/purchase-categories"), h.PurchaseCategory)
}

func registerCatalogRoutes[T any](group *gin.RouterGroup, h *handler.CatalogHandler[T]) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}
