package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dmaia/fleetdesk/backend/internal/config"
	"github.com/dmaia/fleetdesk/backend/internal/handler"
	"github.com/dmaia/fleetdesk/backend/internal/metrics"
	"github.com/dmaia/fleetdesk/backend/internal/middleware"
	"github.com/dmaia/fleetdesk/backend/internal/repo"
	"github.com/dmaia/fleetdesk/backend/internal/service"
	"github.com/dmaia/fleetdesk/backend/internal/store"
)

// maxBodyBytes caps incoming request bodies. The largest legitimate payload
// is a request form; one megabyte is generous.
const maxBodyBytes = 1 << 20

// NewServeCommand creates the serve command: migrate the local database and
// run the console API until interrupted.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the console API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

// runServe wires dependencies together and starts the server.
// No business logic belongs here.
func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// log/slog with a JSON handler: one machine-readable line per event.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Local SQLite database; created on first start, migrated on every start.
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrate(ctx, db); err != nil {
		return err
	}
	slog.Info("database ready", "path", cfg.DBPath)

	// Wiring: store → repos → services → handlers.
	st := store.New(db)
	m := metrics.New(prometheus.DefaultRegisterer)

	authSvc := service.NewAuthService(
		repo.NewUserRepo(st),
		repo.NewEmployeeRepo(st),
		repo.NewSessionRepo(st),
		cfg.PrivilegedSector,
	)
	requestSvc := service.NewRequestService(repo.NewRequestRepo(st), cfg.PrivilegedSector, m)
	vehicleSvc := service.NewVehicleService(repo.NewVehicleRepo(st))

	server := handler.NewServer(authSvc, requestSvc, vehicleSvc, st)

	// Middleware is applied in order: RequestID → RealIP → Logger →
	// Recoverer → CORS → body cap. Recoverer turns panics into HTTP 500
	// instead of crashing the console.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodyBytes))
	r.Mount("/", server.Routes())

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for an OS signal, then give in-flight
	// requests up to 15 seconds to complete.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}
