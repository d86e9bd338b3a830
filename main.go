package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/Idkwii/Cycle-youtube-analytics/domain/repository"
	youtubeclient "github.com/Idkwii/Cycle-youtube-analytics/infrastructure/clients/youtube"
	"github.com/Idkwii/Cycle-youtube-analytics/infrastructure/configuration"
	"github.com/Idkwii/Cycle-youtube-analytics/infrastructure/logger"
	"github.com/Idkwii/Cycle-youtube-analytics/infrastructure/metrics"
	"github.com/Idkwii/Cycle-youtube-analytics/infrastructure/notification"
	"github.com/Idkwii/Cycle-youtube-analytics/infrastructure/persistence"
	httpHandler "github.com/Idkwii/Cycle-youtube-analytics/interfaces/http"
	"github.com/Idkwii/Cycle-youtube-analytics/server"
	"github.com/Idkwii/Cycle-youtube-analytics/usecase"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	stateStore, videoCache := initiateStorage(ctx)

	apiKey := configuration.C.YouTube.APIKey
	youtubeClient, err := youtubeclient.NewClient(ctx, apiKey, collector)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("YouTube client initialization failed")
		os.Exit(1)
	}
	logger.GetLogger().WithField("keyConfigured", apiKey != "").Info("YouTube client initialized")

	notifications := notification.NewQueue(notification.DefaultTTL)
	notifications.StartSweeper(time.Second)
	defer notifications.Stop()

	resolver := usecase.NewChannelResolver(youtubeClient)
	fetcher := usecase.NewVideoFetcher(youtubeClient, collector)
	dashboardUseCase := usecase.NewDashboardUseCase(
		resolver,
		fetcher,
		stateStore,
		videoCache,
		notifications,
		collector,
		apiKey,
		configuration.C.Dashboard.BaseURL,
		configuration.C.Dashboard.DefaultPeriodDays,
	).WithCredentialSink(youtubeClient)

	// A share token passed at startup seeds the dashboard from a shared
	// configuration; saved settings win when it is absent.
	if err := dashboardUseCase.Bootstrap(ctx, os.Getenv("DASHBOARD_SHARE_TOKEN")); err != nil {
		logger.GetLogger().WithField("error", err).Error("Bootstrap failed")
	}

	dashboardHandler := httpHandler.NewDashboardHandler(dashboardUseCase, notifications)
	router := server.InitiateRouter(dashboardHandler, metrics.Handler(registry))

	port := configuration.C.App.Port
	logger.GetLogger().WithField("port", port).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// initiateStorage selects the persistence driver. Redis keeps the documents in
// a shared instance; the default file driver writes them under the local data
// directory.
func initiateStorage(ctx context.Context) (repository.IStateStore, repository.IVideoCache) {
	cfg := configuration.C.Storage
	if cfg.Driver == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
			Username: configuration.C.RedisClient.Username,
			Password: configuration.C.RedisClient.Password,
			DB:       configuration.C.RedisClient.Database,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Redis not reachable, falling back to file storage")
		} else {
			logger.GetLogger().Info("Redis storage initialized")
			return persistence.NewRedisStateStore(client), persistence.NewRedisVideoCache(client)
		}
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"statePath":      cfg.StatePath,
		"videoCachePath": cfg.VideoCachePath,
	}).Info("File storage initialized")
	return persistence.NewFileStateStore(cfg.StatePath), persistence.NewFileVideoCache(cfg.VideoCachePath)
}
