package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/ratewatch/rates-service/internal/app/background"
	"github.com/ratewatch/rates-service/internal/config"
	"github.com/ratewatch/rates-service/internal/delivery/http/handlers"
	"github.com/ratewatch/rates-service/internal/delivery/ws"
	publisher "github.com/ratewatch/rates-service/internal/infrastructure/kafka"
	eventlog "github.com/ratewatch/rates-service/internal/infrastructure/logger"
	"github.com/ratewatch/rates-service/internal/infrastructure/metrics"
	"github.com/ratewatch/rates-service/internal/infrastructure/migrate"
	"github.com/ratewatch/rates-service/internal/infrastructure/postgres"
	"github.com/ratewatch/rates-service/internal/infrastructure/rates"
	"github.com/ratewatch/rates-service/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	setupLogger(cfg.LogConfig)

	// Init database
	db := postgres.MustInitDB(cfg)
	if cfg.ItemsDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.ItemsDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Init kafka
	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	pub := publisher.NewDefaultKafkaPublisher(brokers)
	sub := publisher.NewDefaultKafkaSubscriber(brokers)

	// Init metrics and push hub
	rateMetrics := metrics.NewRateMetrics(prometheus.DefaultRegisterer)
	hub := ws.NewHub(rateMetrics)

	// Init item repo and audit logger
	itemRepo := postgres.NewDefaultItemRepository(db)
	rateEventLogger := eventlog.NewPGRateEventLogger(db)

	emitter := &usecase.EventEmitter{
		Publisher: pub,
		Hub:       hub,
		EventLog:  rateEventLogger,
		Metrics:   rateMetrics,
		Topic:     cfg.KafkaService.Topic,
	}

	// Init rate providers
	cbrProvider := rates.NewCBRProvider(cfg.RatesSource)
	binanceProvider := rates.NewBinanceProvider(cfg.RatesSource)

	// Init sync usecase
	syncUsecase := usecase.NewDefaultRateSyncUsecase(
		itemRepo,
		cbrProvider,
		binanceProvider,
		emitter,
		rateMetrics,
		cfg.RatesSource,
	)
	// Init item usecase
	itemUsecase := usecase.NewDefaultItemUsecase(itemRepo, emitter)

	// Replication of events from other instances
	replicatorCtx, cancelReplicator := context.WithCancel(context.Background())
	replicator := usecase.NewReplicator(syncUsecase, sub, emitter, cfg.KafkaService.Topic, cfg.KafkaService.GroupID)
	if err := replicator.Start(replicatorCtx); err != nil {
		log.Fatalf("failed to start replicator: %v", err)
	}

	// Recurring poll cycle
	poller := background.NewPoller(syncUsecase, cfg.RatesSource.PollInterval)
	poller.Start()

	// HTTP server
	app := handlers.NewApp(
		handlers.NewItemHandler(itemUsecase),
		handlers.NewTaskHandler(poller),
		handlers.NewWSHandler(hub),
	)

	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
		log.Printf("HTTP server started on %s\n", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("failed to serve: %v\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	poller.Stop()
	cancelReplicator()
	if err := sub.Close(); err != nil {
		slog.Error("failed to close kafka subscriber", "error", err)
	}
	replicator.Wait()
	if err := pub.Close(); err != nil {
		slog.Error("failed to close kafka publisher", "error", err)
	}
	if err := app.Shutdown(); err != nil {
		slog.Error("failed to shutdown http server", "error", err)
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	out := os.Stdout
	if cfg.LogOutput == "stderr" {
		out = os.Stderr
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	}

	slog.SetDefault(slog.New(handler))
}
