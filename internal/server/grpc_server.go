package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/oggyb/elite-connect/internal/app"
)

// ServiceName is the health-check service name reported over gRPC.
const ServiceName = "elite_connect.api"

// Pinger is any dependency whose liveness feeds the health status.
type Pinger func(ctx context.Context) error

// NewHealthServer creates a health server with every service NOT_SERVING
// until the first probe.
func NewHealthServer() *health.Server {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return hs
}

// Probe runs every pinger once and publishes the combined status.
func Probe(ctx context.Context, hs *health.Server, log *slog.Logger, pingers map[string]Pinger) {
	status := healthpb.HealthCheckResponse_SERVING
	for name, ping := range pingers {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := ping(pctx)
		cancel()
		if err != nil {
			log.Warn("health probe failed", "dependency", name, "err", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	hs.SetServingStatus("", status)
	hs.SetServingStatus(ServiceName, status)
}

// StorePingers returns the DB and Redis liveness checks of a.
func StorePingers(a *app.AppContext) map[string]Pinger {
	return map[string]Pinger{
		"db": func(ctx context.Context) error {
			sqlDB, err := a.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": a.RedisCache.Ping,
	}
}

// RunGRPCServer boots the gRPC ops endpoint (health + reflection), refreshes
// the health status every interval and stops gracefully when ctx ends.
func RunGRPCServer(ctx context.Context, a *app.AppContext, interval time.Duration) error {
	addr := fmt.Sprintf("%s:%s", a.Config.GRPC.Host, a.Config.GRPC.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	grpcServer := grpc.NewServer()
	hs := NewHealthServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	// enable reflection for easier debugging with grpcurl
	reflection.Register(grpcServer)

	pingers := StorePingers(a)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			Probe(ctx, hs, a.Logger, pingers)
			select {
			case <-ctx.Done():
				hs.Shutdown()
				grpcServer.GracefulStop()
				return
			case <-ticker.C:
			}
		}
	}()

	return grpcServer.Serve(lis)
}
