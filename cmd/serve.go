package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/andrewpaige1/lernkarten-api/auth"
	"github.com/andrewpaige1/lernkarten-api/config"
	"github.com/andrewpaige1/lernkarten-api/handlers"
	"github.com/andrewpaige1/lernkarten-api/middleware"
	"github.com/andrewpaige1/lernkarten-api/review"
	"github.com/andrewpaige1/lernkarten-api/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	log := config.NewLogger(cfg.Mode, os.Stderr)
	slog.SetDefault(log)

	db, err := config.OpenDatabase(cfg.DB, cfg.Mode)
	if err != nil {
		return err
	}
	if err := config.Migrate(db); err != nil {
		return err
	}

	handler, err := newHandler(cfg, db, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr, "mode", cfg.Mode, "db", cfg.DB.Driver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serve")
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return errors.Wrap(srv.Shutdown(shutdownCtx), "shutdown")
}

// newHandler assembles the middleware chain and routes.
func newHandler(cfg *config.Config, db *gorm.DB, log *slog.Logger) (http.Handler, error) {
	validator, err := auth.NewValidator(cfg.Auth)
	if err != nil {
		return nil, err
	}

	st := store.New(db)
	reviews := review.New(st, st, review.WithSessionSize(cfg.Review.SessionSize))
	h := handlers.NewDBHandler(db, reviews, log)

	userSync := &middleware.UserSync{DB: db, Log: log}
	limiter := middleware.NewRateLimiter(cfg.Review.GradesPerMinute, cfg.Review.GradeBurst)
	api := h.Routes(userSync.SyncUser, limiter.PerUser)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/healthz", h.Healthz)
	mux.Handle("/", middleware.EnsureValidToken(validator, log)(api))

	return cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(middleware.RequestLogger(log)(mux)), nil
}
