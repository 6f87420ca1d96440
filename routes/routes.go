package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/LovationAdmin/expense-api/handlers"
	"github.com/LovationAdmin/expense-api/metrics"
	"github.com/LovationAdmin/expense-api/middleware"
	"github.com/LovationAdmin/expense-api/services"
)

// Dependencies are the pieces the router wires together.
type Dependencies struct {
	Ledger         *services.LedgerService
	WS             *handlers.WSHandler
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(cors.New(corsConfig(deps.AllowedOrigins)))
	if deps.RateLimiter != nil {
		router.Use(deps.RateLimiter.Middleware())
	}

	SetupExpenseRoutes(router, handlers.NewExpenseHandler(deps.Ledger))
	if deps.WS != nil {
		SetupRealtimeRoutes(router, deps.WS)
	}
	SetupOpsRoutes(router, deps.Ledger)

	return router
}

// SetupExpenseRoutes registers the ledger API.
func SetupExpenseRoutes(rg gin.IRoutes, h *handlers.ExpenseHandler) {
	rg.POST("/add-expense", h.AddExpense)
	rg.GET("/expenses", h.GetExpenses)
	rg.GET("/user/:userId/insights", h.GetInsights)
}

// SetupRealtimeRoutes registers the websocket feed.
func SetupRealtimeRoutes(rg gin.IRoutes, ws *handlers.WSHandler) {
	rg.GET("/ws/expenses/:userId", ws.HandleWS)
}

// SetupOpsRoutes registers health and metrics.
func SetupOpsRoutes(rg gin.IRoutes, p handlers.Pinger) {
	rg.GET("/health", handlers.Health(p))
	rg.GET("/metrics", gin.WrapH(metrics.Handler()))
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        86400,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}
