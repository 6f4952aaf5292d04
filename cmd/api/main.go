package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fastprodman/golfwager/internal/api"
	"github.com/fastprodman/golfwager/internal/domain"
	"github.com/fastprodman/golfwager/internal/events"
	"github.com/fastprodman/golfwager/internal/infra/logging"
	"github.com/fastprodman/golfwager/internal/infra/pgutils"
	"github.com/fastprodman/golfwager/internal/jobs"
	"github.com/fastprodman/golfwager/internal/services/accounts"
	"github.com/fastprodman/golfwager/internal/services/ledger"
	"github.com/fastprodman/golfwager/internal/services/matches"
	"github.com/fastprodman/golfwager/pkg/envconf"
	"github.com/fastprodman/golfwager/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v\n", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.Log.Level)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	db, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add("postgres", func(context.Context) error {
		return db.Close()
	})

	hub := events.NewHub()
	publishers := events.Multi{hub}

	if cfg.NATS.URL != "" {
		nc, err := events.ConnectNATS(cfg.NATS)
		if err != nil {
			return fmt.Errorf("init nats: %w", err)
		}

		shutdownqueue.Add("nats", func(context.Context) error {
			return nc.Drain()
		})

		publishers = append(publishers, events.NewNATSPublisher(nc))

		slog.Info("publishing match events to NATS", "url", cfg.NATS.URL)
	}

	// --- Services ---
	ledgerSrv := ledger.New(db)
	accountSrv := accounts.New(db, ledgerSrv, domain.Money(cfg.Matches.StartingBalance))
	matchSrv := matches.New(db, ledgerSrv,
		matches.WithTTL(cfg.Matches.MatchTTL),
		matches.WithPublisher(publishers),
	)

	// --- Background jobs ---
	sweeper, err := jobs.NewExpirySweeper(matchSrv, cfg.Matches.ExpirySweepInterval)
	if err != nil {
		return fmt.Errorf("init expiry sweeper: %w", err)
	}

	sweeper.Start()
	shutdownqueue.Add("expiry sweeper", sweeper.Stop)

	// --- HTTP server ---
	handler := api.NewRouter(api.Services{
		Accounts: accountSrv,
		Wallet:   ledgerSrv,
		Matches:  matchSrv,
		Live:     hub,
	}, api.RouterConfig{
		TokenAuth:          api.NewTokenAuth(cfg.Auth.JWTSecret),
		RateLimitPerMinute: cfg.HTTP.RateLimitPerMinute,
		AllowedOrigins:     cfg.HTTP.CORSAllowedOrigins,
	})

	srv := api.NewServer(cfg.HTTP.Port, handler)

	shutdownqueue.Add("http server", func(c context.Context) error {
		slog.Info("Shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.HTTP.Port)

	select {
	case <-ctx.Done():
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
