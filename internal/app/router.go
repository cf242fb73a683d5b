package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"billiard/internal/handler"
	"billiard/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TableHandler    *handler.TableHandler
	SessionHandler  *handler.SessionHandler
	SettingsHandler *handler.SettingsHandler
	OrderHandler    *handler.OrderHandler
	RedisClient     *redis.Client
	NewRelicApp     *newrelic.Application
	Logger          logrus.FieldLogger
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	if deps.Logger != nil {
		router.Use(middleware.RequestLogger(deps.Logger))
	}
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
		router.Use(middleware.TransactionAttributes())
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient, deps.Logger))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		tables := v1.Group("/tables")
		{
			tables.GET("", deps.TableHandler.GetAll)
			tables.POST("/:tableNo/start", deps.TableHandler.Start)
			tables.POST("/:tableNo/stop", deps.TableHandler.Stop)
			tables.POST("/:tableNo/resume", deps.TableHandler.Resume)
		}

		sessions := v1.Group("/sessions")
		{
			sessions.GET("/:id", deps.SessionHandler.GetSession)
			sessions.POST("/:id/stop", deps.SessionHandler.Stop)
			sessions.POST("/:id/resume", deps.SessionHandler.Resume)
			sessions.POST("/:id/extras", deps.SessionHandler.AddExtra)
			sessions.DELETE("/:id/extras", deps.SessionHandler.RemoveExtra)
		}

		v1.POST("/checkout", deps.SessionHandler.Checkout)

		settings := v1.Group("/settings")
		{
			settings.GET("", deps.SettingsHandler.Get)
			settings.PUT("", deps.SettingsHandler.Update)
		}

		orders := v1.Group("/orders")
		{
			orders.GET("", deps.OrderHandler.GetAll)
			orders.GET("/:id", deps.OrderHandler.GetOrder)
			orders.GET("/:id/receipt", deps.OrderHandler.GetReceipt)
		}
	}

	return router
}
