// Package backend opens the remote task store selected by the settings.
package backend

import (
	"context"
	"errors"
	"fmt"

	"taskchain/internal/backend/googletasks"
	"taskchain/internal/backend/httpstore"
	"taskchain/internal/config"
	"taskchain/internal/service"
)

// ErrAuth marks failures caused by missing or invalid credentials.
var ErrAuth = errors.New("auth error")

// Open returns the backend named by cfg.Settings.
func Open(ctx context.Context, cfg *config.Config) (service.Backend, error) {
	s := cfg.Settings
	log := cfg.Logger()

	switch s.BackendName() {
	case config.BackendHTTP:
		return httpstore.New(s.StoreURL,
			httpstore.WithTimeout(s.Timeout),
			httpstore.WithLogger(log),
		)
	case config.BackendGoogle:
		if !cfg.HasOAuthClient() {
			return nil, fmt.Errorf("%w: oauth_client.json not found in %s", ErrAuth, cfg.Dir)
		}
		if !cfg.HasToken() {
			return nil, fmt.Errorf("%w: not logged in (run: taskchain login)", ErrAuth)
		}
		client, err := googletasks.New(ctx, cfg,
			googletasks.WithListID(s.TaskList),
			googletasks.WithTimeout(s.Timeout),
			googletasks.WithLogger(log),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAuth, err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", s.Backend)
	}
}

// OpenStore opens the configured backend behind a service.Client.
func OpenStore(ctx context.Context, cfg *config.Config) (service.Store, error) {
	b, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return service.NewClient(b, cfg.Logger()), nil
}
