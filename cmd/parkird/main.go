package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/MuhammadRafly8/parkir-ukk/config"
	"github.com/MuhammadRafly8/parkir-ukk/internal/alert"
	"github.com/MuhammadRafly8/parkir-ukk/internal/api"
	"github.com/MuhammadRafly8/parkir-ukk/internal/auth"
	"github.com/MuhammadRafly8/parkir-ukk/internal/board"
	"github.com/MuhammadRafly8/parkir-ukk/internal/db"
	"github.com/MuhammadRafly8/parkir-ukk/internal/notification"
	"github.com/MuhammadRafly8/parkir-ukk/internal/parking"
	"github.com/MuhammadRafly8/parkir-ukk/internal/reconcile"
	"github.com/MuhammadRafly8/parkir-ukk/internal/store"
)

func main() {
	seed := flag.Bool("seed", false, "create default users, areas and tariffs before serving")
	flag.Parse()

	// Amounts are sent to clients as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	cfg.Log.SetupLogger()
	log.Printf("configuration loaded successfully from %s", configPath)

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	log.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *seed {
		if err := db.Seed(ctx, gormDB); err != nil {
			log.Fatalf("failed to seed database: %v", err)
		}
		log.Println("database seeded")
	}

	appStore := store.NewGormStore(gormDB)
	log.Println("data store initialized")

	// Push delivery is optional; alerts are stored either way.
	var webpushOptions *webpush.Options
	var dispatcher alert.Dispatcher
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions)
		pool.Start(ctx)
		dispatcher = pool
		log.Printf("notification worker pool started with %d workers", cfg.WorkerPool.Size)
	} else {
		log.Warn("VAPID keys are not configured; alerts will not be pushed")
	}

	alertSvc := alert.NewService(appStore, dispatcher, cfg.Alerts.AlmostFullRatio)
	engineOpts := []parking.Option{parking.WithObserver(alertSvc)}

	if cfg.MQTT.Enabled {
		client, err := board.Connect(cfg.MQTT)
		if err != nil {
			log.Fatalf("failed to connect to MQTT broker %s: %v", cfg.MQTT.Broker, err)
		}
		defer client.Disconnect(250)

		publisher := board.NewPublisher(client, cfg.MQTT.TopicPrefix, cfg.MQTT.QoS, board.WithAreaLoader(appStore))
		areas, err := appStore.ListAreas(ctx)
		if err != nil {
			log.Errorf("failed to load areas for display boards: %v", err)
		} else {
			publisher.PublishAll(areas)
		}
		engineOpts = append(engineOpts, parking.WithObserver(publisher))
		log.Printf("publishing area availability to %s", cfg.MQTT.Broker)
	}

	engine := parking.NewEngine(gormDB, engineOpts...)

	if cfg.Reconciler.Enabled {
		reconciler := reconcile.NewService(appStore, alertSvc, cfg.Reconciler.Interval)
		go reconciler.Run(ctx)
	}

	// Initialize router
	authSvc := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	handler := api.NewHandler(appStore, engine, alertSvc, authSvc, webpushOptions)
	router := api.NewRouter(handler, cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		log.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	log.Println("Shutdown signal received, stopping services...")
	cancel()

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("HTTP server Shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
