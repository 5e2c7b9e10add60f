// Package main runs the StreamFlow operator console: the HTTP API, the WebSocket state feed and
// the dashboard poller, with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/streamflow/console/config"
	"github.com/streamflow/console/internal/console"
	"github.com/streamflow/console/internal/controller"
	"github.com/streamflow/console/internal/middleware"
	"github.com/streamflow/console/internal/poller"
	"github.com/streamflow/console/internal/realtime"
	"github.com/streamflow/console/internal/remote"
	"github.com/streamflow/console/internal/state"
	"github.com/streamflow/console/pkg/redis"
	"github.com/streamflow/console/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()

	var publisher realtime.Publisher
	if cfg.Redis.Enabled() {
		rdb, err := redis.NewClient(ctx, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if err != nil {
			logger.Warn("redis fan-out disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			publisher = realtime.NewRedisPubSub(rdb.Client, cfg.Redis.Channel, logger)
		}
	}

	store := state.NewStore()
	service := remote.NewClient(cfg.Stream.BaseURL, &http.Client{Timeout: cfg.Stream.RequestTimeout}, logger)
	dashboard := poller.New(service, store, cfg.Stream.PollInterval, logger)
	ctrl := controller.New(store, service, dashboard, logger)

	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	hub := realtime.NewHub(logger, publisher)
	go hub.Run(hubCtx)
	unsubscribe := store.Subscribe(func(s state.Snapshot) {
		hub.Notify(realtime.EventState, s.View())
	})
	defer unsubscribe()
	hub.Notify(realtime.EventState, store.Snapshot().View())

	consoleHandler := console.NewHandler(store, ctrl, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok", "views": hub.ViewCount()})
	})
	consoleHandler.Register(router.Group("/api"))
	router.GET("/ws", realtime.ServeWs(hub, middleware.OriginAllowed(cfg.Server.CORSAllowedOrigins), logger))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	ctrl.Start()

	go func() {
		logger.Info("console listening",
			zap.String("port", cfg.Server.Port),
			zap.String("stream_service", cfg.Stream.BaseURL),
			zap.Duration("poll_interval", cfg.Stream.PollInterval),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctrl.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	hubCancel()
	logger.Info("console stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
