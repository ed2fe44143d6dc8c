package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oggyb/elite-connect/internal/app"
	"github.com/oggyb/elite-connect/internal/cache"
	"github.com/oggyb/elite-connect/internal/config"
	"github.com/oggyb/elite-connect/internal/db"
	"github.com/oggyb/elite-connect/internal/logger"
	"github.com/oggyb/elite-connect/internal/server"
	"github.com/oggyb/elite-connect/internal/service/auth"
	"github.com/oggyb/elite-connect/internal/service/chat"
	"github.com/oggyb/elite-connect/internal/service/explore"
	"github.com/oggyb/elite-connect/internal/service/profile"
	"github.com/oggyb/elite-connect/internal/service/subscription"
)

const (
	shutdownTimeout = 15 * time.Second
	healthInterval  = 10 * time.Second
)

func main() {
	envFile := flag.String("env", ".env", "optional dotenv file")
	flag.Parse()

	if err := run(*envFile); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(envFile string) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	database, err := db.NewDB(cfg)
	if err != nil {
		return fmt.Errorf("init db: %w", err)
	}

	redisCache := cache.NewRedisCache(cfg)
	defer redisCache.Close()
	if err := redisCache.Ping(context.Background()); err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}

	if cfg.App.SeedOnStart {
		if err := db.SeedTestData(database, log); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	appCtx := app.New(cfg, database, redisCache, log)

	subs, err := subscription.NewRegistrar(appCtx)
	if err != nil {
		return err
	}
	router := server.NewRouter(appCtx,
		auth.NewRegistrar(appCtx),
		profile.NewRegistrar(appCtx),
		explore.NewRegistrar(appCtx),
		chat.NewRegistrar(appCtx),
		subs,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
		log.Info("starting HTTP server", "addr", addr)
		return server.RunHTTPServer(ctx, addr, router, shutdownTimeout)
	})

	g.Go(func() error {
		log.Info("starting gRPC health server", "addr", cfg.GRPC.Host+":"+cfg.GRPC.Port)
		return server.RunGRPCServer(ctx, appCtx, healthInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("shutdown complete")
	return nil
}
