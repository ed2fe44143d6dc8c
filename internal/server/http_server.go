package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/elite-connect/internal/app"
	"github.com/oggyb/elite-connect/internal/metrics"
	"github.com/oggyb/elite-connect/internal/middleware"
	"github.com/oggyb/elite-connect/internal/respond"
)

// NewRouter builds the gin engine with the shared middleware chain and mounts
// every registrar under /api.
func NewRouter(a *app.AppContext, registrars ...Registrar) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recovery(a.Logger),
		middleware.RequestID(),
		middleware.AccessLog(a.Logger),
		metrics.Middleware(),
		middleware.CORS(a.Config.HTTP.AllowedOrigins),
		middleware.BodyLimit(a.Config.HTTP.MaxBodyBytes),
	)

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
			"service":   a.Config.App.Name,
		})
	})

	protected := api.Group("")
	protected.Use(middleware.Auth(a))

	for _, reg := range registrars {
		reg.Register(api, protected)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Fail(c, http.StatusNotFound, "Route not found")
	})
	return r
}

// RunHTTPServer serves h until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func RunHTTPServer(ctx context.Context, addr string, h http.Handler, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server on %s: %w", addr, err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
