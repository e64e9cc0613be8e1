package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/schedulehub/schedulehub/internal/config"
	"github.com/schedulehub/schedulehub/internal/http/handlers"
	"github.com/schedulehub/schedulehub/internal/http/middlewares"
	"github.com/schedulehub/schedulehub/internal/observability"
	"github.com/schedulehub/schedulehub/internal/redisclient"
	"github.com/schedulehub/schedulehub/internal/repo/postgres"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(pool *pgxpool.Pool, prom *observability.Prom, rdb *redisclient.Client, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("schedulehub"))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())

	if len(cfg.CORSOrigins) > 0 {
		r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	}

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	if cfg.MaxBodyBytes > 0 {
		r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	}

	r.Use(middlewares.RequireJSON())

	if rdb != nil {
		limiter := middlewares.NewRateLimiter(rdb, cfg.RateLimit, time.Duration(cfg.RateWindowSecs)*time.Second)
		r.Use(limiter.RateLimiterMiddleware(middlewares.KeyByIP))
	}

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/", handlers.Welcome)

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	schedulesRepo := postgres.NewSchedulesRepo(pool, prom)
	activitiesRepo := postgres.NewActivitiesRepo(pool, prom)

	guard := middlewares.NewOwnershipGuard(schedulesRepo)

	schedulesHandler := handlers.NewSchedulesHandler(schedulesRepo, usersRepo, activitiesRepo)
	activitiesHandler := handlers.NewActivitiesHandler(activitiesRepo)

	r.POST("/schedules", schedulesHandler.CreateSchedule)

	// everything under a concrete schedule goes through the ownership guard
	sg := r.Group("/schedules/:scheduleId", guard.VerifyScheduleOwnership())
	sg.GET("", schedulesHandler.GetSchedule)
	sg.POST("/activities", activitiesHandler.AddActivity)
	sg.POST("/bulk-activities", activitiesHandler.BulkAddActivities)

	return r
}
