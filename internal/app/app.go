// Package app assembles the store and its collaborators from configuration.
// Both the HTTP server and the admin CLI start from here.
package app

import (
	"context"
	"fmt"

	"citizenvoice/backend/internal/auth"
	"citizenvoice/backend/internal/config"
	"citizenvoice/backend/internal/eventhub"
	"citizenvoice/backend/internal/fixtures"
	"citizenvoice/backend/internal/localization"
	"citizenvoice/backend/internal/media"
	"citizenvoice/backend/internal/remote"
	"citizenvoice/backend/internal/storage"
	"citizenvoice/backend/internal/store"
	"citizenvoice/backend/internal/telegram"

	"go.uber.org/zap"
)

// App holds the wired dependencies. Close releases the storage backend.
type App struct {
	Config  *config.Config
	Store   *store.Store
	Tokens  *auth.TokenIssuer
	Hub     *eventhub.Hub
	Backend storage.Backend
	Logger  *zap.Logger
}

// New opens storage and builds the store. Optional integrations (remote API,
// Telegram) are attached only when configured.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	backend, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	library, err := media.NewLibrary(cfg.MediaDir)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	demo := fixtures.MustLoad()
	authn, err := auth.NewFixtureAuthenticator(demo.Accounts)
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	locales, err := localization.New()
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("failed to load locales: %w", err)
	}

	hub := eventhub.NewHub(logger)

	opts := []store.Option{
		store.WithLogger(logger),
		store.WithDemo(demo),
		store.WithAuth(authn, tokens),
		store.WithLocalizer(locales),
		store.WithPublisher(hub),
	}
	if cfg.RemoteURL != "" {
		opts = append(opts, store.WithRemote(remote.NewClient(cfg.RemoteURL, cfg.RemoteTimeout, logger)))
		logger.Info("remote API enabled", zap.String("url", cfg.RemoteURL))
	}
	if cfg.TelegramEnabled() {
		notifier, err := telegram.NewNotifier(cfg.TelegramBotToken, cfg.TelegramChatID, logger)
		if err != nil {
			logger.Error("telegram relay disabled", zap.Error(err))
		} else {
			opts = append(opts, store.WithNotifier(notifier))
		}
	}

	s := store.New(storage.NewService(backend, logger), library, opts...)

	return &App{
		Config:  cfg,
		Store:   s,
		Tokens:  tokens,
		Hub:     hub,
		Backend: backend,
		Logger:  logger,
	}, nil
}

// Restore reloads the persisted session and the collections it scopes.
func (a *App) Restore(ctx context.Context) {
	user, err := a.Store.RestoreSession(ctx)
	if err != nil {
		a.Logger.Warn("failed to restore session", zap.Error(err))
	}
	if user != nil {
		a.Logger.Info("session restored", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	}
	a.Store.FetchComplaints(ctx)
	a.Store.FetchNotifications(ctx)
}

func (a *App) Close() error {
	return a.Backend.Close()
}
