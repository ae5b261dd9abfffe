// Command broadcaster runs only the fill fan-out tier: it consumes the
// fills stream and serves GET /fills/stream, scaled independently of the
// order-ingress and reference-store tiers.
package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tradsys/venue/internal/broadcaster"
	"github.com/tradsys/venue/internal/bus"
	"github.com/tradsys/venue/internal/config"
)

func newEngine(bc *broadcaster.Broadcaster) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET"},
	}))

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/fills/stream", bc.Handler("fills"))

	return engine
}

func registerServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config, logger *zap.Logger) {
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				logger.Info("starting broadcaster http server", zap.String("addr", server.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("broadcaster http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}

func main() {
	app := fx.New(
		config.Module,
		bus.Module,
		broadcaster.Module,
		fx.Provide(newEngine),
		fx.Invoke(registerServer),
		fx.Invoke(func(logger *zap.Logger) {
			logger.Info("broadcaster started")
		}),
	)

	app.Run()
}
