package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/auth"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/clickhouse"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/config"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/dal"
	grpcserver "github.com/Billy-Davies-2/hockey-draft-kit/internal/grpc"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/handlers"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/league"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/logger"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/mcpserver"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/mocks"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/pubsub"
)

var version = "dev"

// upstream is a cluster-wide event bus that can be shut down
type upstream interface {
	pubsub.Upstream
	Close()
}

// analytics receives picks and serves average draft positions
type analytics interface {
	league.PickRecorder
	handlers.Pinger
	SyncAverageDraftPositions(ctx context.Context, apply func(map[string]float64) error) error
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger first
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	logger.Info("Starting hockey draft service", "version", version, "environment", cfg.Environment)

	store, err := openStore(cfg)
	if err != nil {
		logger.Error("Failed to initialize data store", "driver", cfg.DBDriver, "error", err)
		log.Fatalf("Failed to initialize data store: %v", err)
	}
	defer store.Close()

	bus, err := openBus(cfg)
	if err != nil {
		logger.Error("Failed to initialize NATS", "error", err)
		log.Fatalf("Failed to initialize NATS: %v", err)
	}
	defer bus.Close()
	ps := pubsub.NewWithUpstream(bus)

	chClient, err := openAnalytics(cfg)
	if err != nil {
		logger.Error("Failed to initialize ClickHouse", "error", err, "address", cfg.ClickHouseAddr)
		log.Fatalf("Failed to initialize ClickHouse: %v", err)
	}
	defer chClient.Close()

	svc, err := league.NewService(store,
		league.WithPublisher(ps),
		league.WithPickRecorder(chClient),
	)
	if err != nil {
		logger.Error("Failed to initialize league", "error", err)
		log.Fatalf("Failed to initialize league: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start periodic ADP sync
	go func() {
		ticker := time.NewTicker(cfg.ADPSyncInterval)
		defer ticker.Stop()

		syncAverageDraftPositions(ctx, chClient, svc)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				syncAverageDraftPositions(ctx, chClient, svc)
			}
		}
	}()

	// Initialize authentication
	// Use mock auth in development mode, Authentik OAuth2 in production
	var authProvider auth.AuthProvider
	if cfg.IsDevelopment() {
		logger.Info("Using mock authentication for local development (no Authentik server required)")
		authProvider = auth.NewMockAuth()
	} else {
		authProvider = auth.NewAuthentikAuth(&auth.AuthentikConfig{
			BaseURL:           cfg.AuthentikBaseURL,
			ClientID:          cfg.AuthentikClientID,
			ClientSecret:      cfg.AuthentikClientSecret,
			RedirectURL:       cfg.AuthentikRedirectURL,
			Scopes:            cfg.AuthentikScopes,
			CommissionerGroup: cfg.CommissionerGroup,
		})
		logger.Info("Connected to Authentik", "url", cfg.AuthentikBaseURL)
	}

	// Start gRPC server in a goroutine
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(grpcserver.LoggingInterceptor))
	grpcserver.Register(grpcServer, grpcserver.NewServer(svc, ps))

	go func() {
		addr := "0.0.0.0:" + cfg.GRPCPort
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			logger.Error("Failed to listen for gRPC", "error", err, "port", cfg.GRPCPort)
			log.Fatalf("Failed to listen for gRPC: %v", err)
		}

		logger.Info("gRPC server starting", "address", addr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("Failed to serve gRPC", "error", err)
		}
	}()

	// Set up HTTP routes
	mux := http.NewServeMux()
	mux.HandleFunc("/", indexHandler(cfg))

	auth.Register(mux, authProvider)
	handlers.NewAPIHandlers(svc, ps).Register(mux, authProvider.RequireCommissioner)
	handlers.NewHealth(store, map[string]handlers.Pinger{"clickhouse": chClient}).Register(mux)
	mux.Handle(cfg.MCPPath, mcpserver.New(svc, version).Handler())

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP shutdown failed", "error", err)
		}
		grpcServer.GracefulStop()
	}()

	logger.Info("Server starting", "address", srv.Addr, "mcp", cfg.MCPPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server failed", "error", err)
		log.Fatal(err)
	}
}

// openStore picks the league store from DB_DRIVER
func openStore(cfg *config.Config) (dal.LeagueDAL, error) {
	switch cfg.DBDriver {
	case "sqlite":
		logger.Info("Connecting to SQLite database", "file", cfg.SQLiteFile)
		return dal.NewSQLiteDAL(cfg.SQLiteFile)
	case "postgres":
		if cfg.DatabaseURL == "" && cfg.IsDevelopment() {
			return mocks.NewMockPostgresDAL(cfg.SQLiteFile)
		}
		logger.Info("Connecting to Postgres database")
		return dal.NewPostgresDAL(cfg.DatabaseURL)
	default:
		logger.Info("Using in-memory data store")
		return dal.NewMemoryDAL()
	}
}

// openBus uses embedded NATS in development mode, real NATS in production
func openBus(cfg *config.Config) (upstream, error) {
	if !cfg.IsDevelopment() {
		logger.Info("Using real NATS JetStream for production", "url", cfg.NATSURL)
		return pubsub.NewNATSPubSub(cfg.NATSURL, cfg.NATSSubject)
	}

	if cfg.NATSMock {
		return mocks.NewMockNATSPubSub(cfg.NATSSubject), nil
	}

	logger.Info("Starting embedded NATS server for local development")
	embedded, err := pubsub.NewEmbeddedNATSPubSub(pubsub.EmbeddedNATSOptions{
		Port:       -1,
		Subject:    cfg.NATSSubject,
		StreamName: pubsub.StreamName,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Embedded NATS server ready", "url", embedded.GetServerURL())
	return embedded, nil
}

// openAnalytics connects to ClickHouse, or keeps picks in memory during development
func openAnalytics(cfg *config.Config) (analytics, error) {
	if cfg.IsDevelopment() {
		return mocks.NewMockClickHouseClient(), nil
	}

	client, err := clickhouse.NewClient(cfg.ClickHouseAddr, cfg.ClickHouseDB, cfg.ClickHouseUser, cfg.ClickHousePassword)
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to ClickHouse", "address", cfg.ClickHouseAddr, "database", cfg.ClickHouseDB)
	return client, nil
}

// syncAverageDraftPositions fills missing ADPs from recorded picks
func syncAverageDraftPositions(ctx context.Context, source analytics, svc *league.Service) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	filled := 0
	err := source.SyncAverageDraftPositions(ctx, func(adps map[string]float64) error {
		n, err := svc.FillAverageDraftPositions(adps)
		filled = n
		return err
	})
	if err != nil {
		logger.Error("Failed to sync average draft positions", "error", err)
		return
	}
	if filled > 0 {
		logger.Info("Average draft positions synced", "filled", filled)
	}
}

// indexHandler lists the service entry points
func indexHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"service": "hockey-draft-kit",
			"version": version,
			"endpoints": map[string]string{
				"players": "/api/players",
				"draft":   "/api/draft/state",
				"events":  "/api/events",
				"health":  "/api/health",
				"mcp":     cfg.MCPPath,
				"grpc":    ":" + cfg.GRPCPort,
			},
		})
	}
}
