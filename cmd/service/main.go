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

	"gitlab.com/dirk.krummacker/contacts-page/internal/audit"
	"gitlab.com/dirk.krummacker/contacts-page/internal/config"
	"gitlab.com/dirk.krummacker/contacts-page/internal/logger"
	"gitlab.com/dirk.krummacker/contacts-page/internal/observability"
	"gitlab.com/dirk.krummacker/contacts-page/internal/seed"
	"gitlab.com/dirk.krummacker/contacts-page/internal/service"
	"gitlab.com/dirk.krummacker/contacts-page/internal/store"
	"gitlab.com/dirk.krummacker/contacts-page/internal/store/ormstore"
	"gitlab.com/dirk.krummacker/contacts-page/internal/store/sqlstore"
)

var version = "dev"

const shutdownTimeout = 10 * time.Second

// Usage example on the command line:
// > PORT=8080 DBUSER=dirk DBPWD=bullo92 GIN_MODE=release GIN_LOGGING=OFF go run main.go
// > DBDRIVER=sqlite DBNAME=contacts go run main.go
func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not create logger", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("service stopped", "error", err)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, log, observability.TracingConfig{
		Exporter:     cfg.OtelExporter,
		SamplerRatio: cfg.OtelSamplerRatio,
		Version:      version,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	gateway, err := openGateway(cfg.Database, log)
	if err != nil {
		return err
	}
	defer gateway.Close()

	if cfg.Seed {
		if _, err := seed.Seed(ctx, gateway, cfg.AuditActor, log); err != nil {
			return err
		}
	}

	svc := service.New(gateway, log, service.Options{
		Actor:          cfg.AuditActor,
		RequestLogging: cfg.RequestLoggingEnabled(),
		CorsOrigins:    cfg.CorsOrigins,
		Tracing:        cfg.TracingEnabled(),
	})
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           svc.SetupHttpRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("contacts service listening", "port", cfg.Port, "driver", cfg.Database.Driver)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openGateway connects to the configured database. MySQL is accessed through prepared sqlx
// statements on the schema of scripts/database.sql; PostgreSQL and SQLite go through gorm, which
// creates the schema itself.
func openGateway(db config.Database, log *logger.Logger) (store.Gateway, error) {
	dsn, err := db.DataSourceName()
	if err != nil {
		return nil, err
	}
	hook := audit.NewHook(nil)
	if db.Driver == "mysql" {
		sqlDB, err := sqlstore.Open(dsn)
		if err != nil {
			return nil, err
		}
		gateway, err := sqlstore.New(sqlDB, hook)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		return gateway, nil
	}
	gateway, err := ormstore.Open(db.Driver, dsn, hook, log)
	if err != nil {
		return nil, err
	}
	if err := gateway.Migrate(); err != nil {
		_ = gateway.Close()
		return nil, err
	}
	return gateway, nil
}
