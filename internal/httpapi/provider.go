package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tradsys/venue/internal/broadcaster"
	"github.com/tradsys/venue/internal/config"
	"github.com/tradsys/venue/internal/ingress"
	"github.com/tradsys/venue/internal/refstore"
)

func newRateLimiter(logger *zap.Logger) *RateLimiter {
	return NewRateLimiter(time.Minute, 300, logger)
}

// newRouter wires the gin engine's shutdown route through fx's own
// Shutdowner, so POST /shutdown/{graceful} and a process signal trigger the
// same stop path.
func newRouter(store *refstore.Store, ingressHandler *ingress.Handler, bc *broadcaster.Broadcaster, limiter *RateLimiter, logger *zap.Logger, shutdowner fx.Shutdowner, cfg *config.Config) *Router {
	shutdown := func(graceful bool) {
		opts := []fx.ShutdownOption{}
		if !graceful {
			opts = append(opts, fx.ExitCode(1))
		}
		if err := shutdowner.Shutdown(opts...); err != nil {
			logger.Error("shutdown request failed", zap.Error(err))
		}
	}
	return NewRouter(store, ingressHandler, bc, limiter, logger, shutdown, cfg.Admin.JWTSecret)
}

// Module supplies the gin router and runs the HTTP server for the lifetime
// of the process, per the teacher's gateway server lifecycle pattern.
var Module = fx.Options(
	fx.Provide(newRateLimiter),
	fx.Provide(newRouter),
	fx.Invoke(registerLifecycle),
)

func registerLifecycle(lc fx.Lifecycle, router *Router, cfg *config.Config, logger *zap.Logger) {
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router.Engine(),
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				logger.Info("starting http server", zap.String("addr", server.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}
