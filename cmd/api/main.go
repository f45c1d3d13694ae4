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
	"time"

	"github.com/MrJamesThe3rd/moneybook/internal/config"
	"github.com/MrJamesThe3rd/moneybook/internal/database"
	moneybookHttp "github.com/MrJamesThe3rd/moneybook/internal/http"
	authHandler "github.com/MrJamesThe3rd/moneybook/internal/http/auth"
	ledgerHandler "github.com/MrJamesThe3rd/moneybook/internal/http/ledger"
	"github.com/MrJamesThe3rd/moneybook/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/moneybook/internal/ledger/store"
	"github.com/MrJamesThe3rd/moneybook/internal/user"
	userStore "github.com/MrJamesThe3rd/moneybook/internal/user/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), cfg.DB.ConnectTimeout)
	db, err := database.New(connectCtx, cfg.ConnectionString(), database.Pool{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	cancelConnect()

	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.DB.Migrate {
		version, err := database.Migrate(db)
		if err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		slog.Info("database migrated", "version", version)
	}

	var (
		userService   = user.NewService(userStore.New(db))
		ledgerService = ledger.NewService(ledgerStore.New(db))
	)

	var (
		authH    = authHandler.NewHandler(userService, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		entriesH = ledgerHandler.NewHandler(ledgerService)
	)

	router := moneybookHttp.New(moneybookHttp.Options{
		JWTSecret:      cfg.Auth.JWTSecret,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, authH, entriesH)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "addr", server.Addr)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}
