package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/schedulehub/schedulehub/internal/config"
	"github.com/schedulehub/schedulehub/internal/db"
	httpx "github.com/schedulehub/schedulehub/internal/http"
	"github.com/schedulehub/schedulehub/internal/observability"
	"github.com/schedulehub/schedulehub/internal/redisclient"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx := context.Background()

	// tracing
	shutdownTracer, err := observability.InitTracer(ctx, "schedulehub", cfg.OTLPEndpoint)

	if err != nil {
		log.Warn("tracing disabled", "err", err)
	} else {
		defer func() {
			sctx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()
			_ = shutdownTracer(sctx)
		}()
	}

	// metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	prom := observability.NewProm(reg)

	// storage
	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("could not connect to postgres", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	err = db.Migrate(ctx, pool)

	if err != nil {
		log.Error("schema migration failed", "err", err)
		os.Exit(1)
	}

	err = db.EnsureSeedUser(ctx, pool, cfg)

	if err != nil {
		log.Error("seed user failed", "err", err)
		os.Exit(1)
	}

	// redis backs the rate limiter; the API runs without it
	var rdb *redisclient.Client

	if cfg.RedisAddr != "" {
		rdb = redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		defer rdb.Close()

		pctx, cancel := config.WithTimeout(2 * time.Second)
		if err := rdb.Ping(pctx); err != nil {
			log.Warn("redis unreachable, rate limiting fails open", "err", err)
		}
		cancel()
	}

	router := httpx.NewRouter(pool, prom, rdb, cfg)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		sctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(sctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
