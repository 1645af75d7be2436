package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/controltower/decision-engine/pkg/config"
	"github.com/controltower/decision-engine/pkg/database"
	"github.com/controltower/decision-engine/pkg/handlers"
	"github.com/controltower/decision-engine/pkg/repositories"
	"github.com/controltower/decision-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("port", cfg.Port),
		zap.String("erp", cfg.ERP.Host),
		zap.String("graph", cfg.Graph.URI))

	ctx := context.Background()

	// Migrations run over database/sql; the pool below is pgx-native.
	migrationDB, err := sql.Open("pgx", cfg.ERP.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(migrationDB, cfg.ERP.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = migrationDB.Close()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.ERP.ConnectionString(),
		MaxConnections: cfg.ERP.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to ERP database", zap.Error(err))
	}
	defer db.Close()

	graphDriver, err := database.NewNeo4jDriver(ctx, &cfg.Graph)
	if err != nil {
		logger.Fatal("Failed to connect to graph database", zap.Error(err))
	}
	defer func() { _ = graphDriver.Close(ctx) }()

	erpRepo := repositories.NewERPRepository(db)
	graphRepo := repositories.NewGraphRepository(graphDriver)
	orderRepo := repositories.NewOrderRepository(db)
	auditRepo := repositories.NewAuditRepository(db)

	rfqService := services.NewRFQService(erpRepo, cfg.Engine, logger)
	singleSourceService := services.NewSingleSourceService(erpRepo, logger)
	consolidationService := services.NewConsolidationService(erpRepo, cfg.Engine, logger)
	simulationService := services.NewSimulationService(graphRepo, cfg.Engine, logger)
	blastRadiusService := services.NewBlastRadiusService(graphRepo, logger)
	planService := services.NewPlanService(logger)
	analystService := services.NewAnalystService(erpRepo, graphRepo, logger)
	actionService := services.NewActionService(orderRepo, auditRepo, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, db, logger).RegisterRoutes(mux)
	handlers.NewSourcingHandler(rfqService, singleSourceService, consolidationService, logger).RegisterRoutes(mux)
	handlers.NewSimulationHandler(simulationService, blastRadiusService, logger).RegisterRoutes(mux)
	handlers.NewAgentHandler(planService, analystService, actionService, logger).RegisterRoutes(mux)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("Starting decision-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
