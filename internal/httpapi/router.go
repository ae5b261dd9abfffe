// Package httpapi wires the gin router for every route in §6. Grounded on
// the teacher's API gateway server (internal/gateway/server.go) for
// middleware ordering (recovery, request logging, CORS, metrics) and its
// fx lifecycle hook pattern, now serving the venue's own routes instead of
// proxying to other services.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tradsys/venue/internal/api"
	"github.com/tradsys/venue/internal/broadcaster"
	"github.com/tradsys/venue/internal/ingress"
	"github.com/tradsys/venue/internal/refstore"
)

// Router assembles the gin engine for every component that serves HTTP.
type Router struct {
	engine *gin.Engine
}

func NewRouter(store *refstore.Store, ingressHandler *ingress.Handler, bc *broadcaster.Broadcaster, limiter *RateLimiter, logger *zap.Logger, shutdown func(graceful bool), adminJWTSecret string) *Router {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if limiter != nil {
		engine.Use(limiter.Middleware())
	}
	engine.Use(errorTranslator())

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	api.RegisterSwaggerRoutes(engine)

	h := &entityHandlers{store: store}
	h.registerClients(engine)
	h.registerMarkets(engine)
	h.registerSubAccounts(engine)
	h.registerOrders(engine)
	h.registerFills(engine, bc)
	h.registerPositions(engine)

	// The rate limiter applies to order creation only.
	var ordersRouter gin.IRouter = engine
	if limiter != nil {
		ordersRouter = engine.Group("", limiter.Middleware())
	}
	ingressHandler.RegisterRoutes(ordersRouter)

	engine.POST("/shutdown/:graceful", adminAuth(adminJWTSecret), func(c *gin.Context) {
		graceful := c.Param("graceful") != "false"
		shutdown(graceful)
		c.Status(http.StatusNoContent)
	})

	return &Router{engine: engine}
}

func (r *Router) Engine() *gin.Engine { return r.engine }

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()
		logger.Info("http request",
			zap.String("path", path),
			zap.String("method", c.Request.Method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// errorTranslator lets handlers attach a venueerrors error via c.Error and
// have this middleware write the status/body pair from the error handling
// design table, instead of every handler duplicating that mapping.
func errorTranslator() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		respondError(c, err)
	}
}

// ShutdownFunc is the shape of the shutdown callback NewRouter takes. This
// package's fx provider (newRouter) builds that callback from fx.Shutdowner,
// so POST /shutdown/{graceful} triggers the same shutdown path as a signal.
type ShutdownFunc func(graceful bool)
