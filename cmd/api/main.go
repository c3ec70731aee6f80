package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goldendragon/restaurant/internal/auth"
	"github.com/goldendragon/restaurant/internal/menu"
	"github.com/goldendragon/restaurant/internal/notifications"
	"github.com/goldendragon/restaurant/internal/orders"
	"github.com/goldendragon/restaurant/internal/reservations"
	"github.com/goldendragon/restaurant/internal/risk"
	"github.com/goldendragon/restaurant/pkg/common"
	"github.com/goldendragon/restaurant/pkg/config"
	"github.com/goldendragon/restaurant/pkg/database"
	"github.com/goldendragon/restaurant/pkg/eventbus"
	"github.com/goldendragon/restaurant/pkg/health"
	"github.com/goldendragon/restaurant/pkg/logger"
	"github.com/goldendragon/restaurant/pkg/middleware"
	"github.com/goldendragon/restaurant/pkg/ratelimit"
	"github.com/goldendragon/restaurant/pkg/redis"
	"github.com/goldendragon/restaurant/pkg/tracing"
	"github.com/goldendragon/restaurant/pkg/ws"
)

const serviceVersion = "1.0.0"

func main() {
	cfg, err := config.Load("restaurant-api")
	if err != nil {
		panic(err)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Server.Environment,
			Release:     serviceVersion,
		}); err != nil {
			logger.Warn("Sentry initialization failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.Init(ctx, cfg.Server.ServiceName, &cfg.Tracing)
		if err != nil {
			logger.Warn("Tracing initialization failed", zap.Error(err))
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = shutdown(shutdownCtx)
			}()
		}
	}

	if err := database.RunMigrations(&cfg.Database, "migrations"); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	pool, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(pool)

	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	var bus *eventbus.Bus
	if cfg.NATS.Enabled {
		bus, err = eventbus.Connect(cfg.NATS.URL)
		if err != nil {
			logger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer bus.Close()
	}

	hub := ws.NewHub()
	go hub.Run()

	// Repositories
	orderRepo := orders.NewRepository(pool)
	reservationRepo := reservations.NewRepository(pool)
	menuRepo := menu.NewRepository(pool)
	userRepo := auth.NewRepository(pool)

	// Risk evaluator, fed by the order history of the same database
	riskCfg := risk.ConfigFromApp(&cfg.Risk)
	evaluator := risk.NewEvaluator(riskCfg, orderRepo)

	// Services
	var publisher orders.EventPublisher
	if bus != nil {
		publisher = bus
	}
	orderService := orders.NewService(orderRepo, evaluator, publisher, hub)
	reservationService := reservations.NewService(reservationRepo, riskCfg.Location)
	menuService := menu.NewService(menuRepo, redisClient.Client)
	authService := auth.NewService(userRepo, cfg.JWT, cfg.Roles)

	// Notification fan-out listens on the bus when both are configured
	if bus != nil {
		var sms notifications.SMSClient
		if cfg.Twilio.Enabled {
			sms = notifications.NewTwilioClient(cfg.Twilio)
		}
		var email notifications.EmailClient
		if cfg.SMTP.Enabled {
			email = notifications.NewSMTPClient(cfg.SMTP)
		}
		notificationService := notifications.NewService(sms, email, cfg.Reminder)
		eventHandler := notifications.NewEventHandler(notificationService)
		if err := eventHandler.RegisterSubscriptions(ctx, bus); err != nil {
			logger.Error("Failed to register notification subscriptions", zap.Error(err))
		}
	}

	// Handlers
	orderHandler := orders.NewHandler(orderService)
	reservationHandler := reservations.NewHandler(reservationService)
	menuHandler := menu.NewHandler(menuService)
	authHandler := auth.NewHandler(authService)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics(cfg.Server.ServiceName))
	if cfg.Sentry.Enabled {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.CORSOriginList()
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Correlation-ID"}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", common.HealthCheckWithDeps(cfg.Server.ServiceName, serviceVersion, map[string]func() error{
		"postgres": health.DatabaseChecker(pool),
		"redis":    health.RedisChecker(redisClient.Client),
	}))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Order submission is the public abuse surface: rate limited per client
	// and bounded by a hard timeout.
	var createOrderMiddleware []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.NewLimiter(redisClient.Client, cfg.RateLimit)
		createOrderMiddleware = append(createOrderMiddleware, limiter.Middleware(cfg.RateLimit.OrderLimit))
	}
	createOrderMiddleware = append(createOrderMiddleware, timeout.New(
		timeout.WithTimeout(5*time.Second),
		timeout.WithHandler(func(c *gin.Context) { c.Next() }),
		timeout.WithResponse(func(c *gin.Context) {
			common.ErrorResponse(c, http.StatusRequestTimeout, "request timed out")
		}),
	))

	authHandler.RegisterRoutes(router, cfg.JWT.Secret)
	menuHandler.RegisterRoutes(router, cfg.JWT.Secret)
	orderHandler.RegisterRoutes(router, cfg.JWT.Secret, createOrderMiddleware...)
	reservationHandler.RegisterRoutes(router, cfg.JWT.Secret)

	// Live order feed for the host dashboard
	router.GET("/api/v1/ws/orders",
		middleware.AuthMiddleware(cfg.JWT.Secret),
		middleware.RequireRole(auth.RoleHost, auth.RoleMaintenance),
		func(c *gin.Context) {
			if err := hub.ServeWS(c.Writer, c.Request); err != nil {
				logger.WithContext(c.Request.Context()).Warn("WebSocket upgrade failed", zap.Error(err))
			}
		})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("API server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("environment", cfg.Server.Environment))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
