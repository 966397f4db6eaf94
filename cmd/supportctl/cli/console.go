// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/supportdesk/supportdesk/lib/apiclient"
	"github.com/supportdesk/supportdesk/lib/config"
	"github.com/supportdesk/supportdesk/lib/sealed"
	"github.com/supportdesk/supportdesk/lib/sessiongate"
	"github.com/supportdesk/supportdesk/lib/ticketstore"
	"github.com/supportdesk/supportdesk/lib/version"
)

// ConsoleFlags are the connection flags shared by every command that
// talks to the backend.
type ConsoleFlags struct {
	ConfigPath string `flag:"config" desc:"configuration file (default $SUPPORTDESK_CONFIG)"`
	Server     string `flag:"server" desc:"backend base URL, overriding the configuration"`
}

// Console is an opened configuration, API client and session gate.
type Console struct {
	Config *config.Config
	Client *apiclient.Client
	Gate   *sessiongate.Gate
	Logger *slog.Logger
}

// Open loads the configuration, builds the client and restores the
// persisted session without contacting the server.
func (f *ConsoleFlags) Open(ctx context.Context, logger *slog.Logger) (*Console, error) {
	return f.OpenWith(ctx, logger, sessiongate.RestoreOptions{})
}

// OpenWith is Open with explicit restore options. A saved token the
// server rejects during verification is cleared and the Console opens
// anonymous; the returned error is then sessiongate.ErrSessionExpired
// alongside a usable Console.
func (f *ConsoleFlags) OpenWith(ctx context.Context, logger *slog.Logger, options sessiongate.RestoreOptions) (*Console, error) {
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return nil, Validation("%v", err)
	}
	if f.Server != "" {
		cfg.API.BaseURL = f.Server
	}
	if err := cfg.Validate(); err != nil {
		return nil, Validation("invalid configuration: %v", err)
	}

	client, err := apiclient.NewClient(apiclient.ClientConfig{
		BaseURL:    cfg.API.BaseURL,
		HTTPClient: &http.Client{Timeout: cfg.RequestTimeout()},
		Logger:     logger,
		UserAgent:  version.UserAgent(),
	})
	if err != nil {
		return nil, Validation("%v", err)
	}

	gate, err := sessiongate.New(sessiongate.Config{
		Store:   sessiongate.NewFileStore(cfg.Paths.SessionFile),
		Backend: client,
		Logger:  logger,
	})
	if err != nil {
		return nil, Internal("%v", err)
	}

	console := &Console{Config: cfg, Client: client, Gate: gate, Logger: logger}
	if _, err := gate.Restore(ctx, options); err != nil {
		if errors.Is(err, sessiongate.ErrSessionExpired) {
			return console, err
		}
		return nil, Internal("%v", err)
	}
	logger.Debug("console opened",
		"server", client.BaseURL(),
		"environment", cfg.Environment,
		"state", gate.State().String(),
	)
	return console, nil
}

// Session opens an authenticated session for a surface at the given
// access level. A missing session or a non-admin reaching an admin
// surface is a forbidden error naming the fix.
func (c *Console) Session(access sessiongate.Access) (*apiclient.Session, error) {
	decision := c.Gate.Authorize(access)
	if !decision.Allowed {
		switch decision.Redirect {
		case sessiongate.RedirectLanding:
			return nil, Forbidden("this command requires an admin account")
		default:
			return nil, Forbidden("not logged in (run 'supportctl auth login')")
		}
	}
	session, err := c.Gate.OpenSession(c.Client)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// OpenCache opens the offline ticket cache, or returns nil when the
// configuration disables it.
func (c *Console) OpenCache(ctx context.Context) (*ticketstore.Store, error) {
	if c.Config.Cache.Disabled {
		return nil, nil
	}
	compression, err := ticketstore.ParseCompression(c.Config.Cache.Compression)
	if err != nil {
		return nil, Validation("%v", err)
	}

	var key *sealed.Key
	if c.Config.Cache.Encrypt {
		var created bool
		key, created, err = sealed.LoadOrCreateKey(c.Config.Paths.CacheKey)
		if err != nil {
			return nil, fmt.Errorf("loading cache key: %w", err)
		}
		if created {
			c.Logger.Info("generated cache encryption key", "path", c.Config.Paths.CacheKey)
		}
	}

	store, err := ticketstore.Open(ctx, ticketstore.Config{
		Path:        c.Config.Paths.CacheFile,
		Compression: compression,
		Key:         key,
		Logger:      c.Logger,
	})
	if err != nil {
		if key != nil {
			key.Close()
		}
		return nil, fmt.Errorf("opening ticket cache: %w", err)
	}
	return store, nil
}

func (c *Console) Close() {
	c.Client.CloseIdleConnections()
}
