// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package sessiongate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/supportdesk/supportdesk/lib/apiclient"
	"github.com/supportdesk/supportdesk/lib/schema"
	"github.com/supportdesk/supportdesk/lib/secret"
)

// State is the Gate's authentication state.
type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Backend is the part of the API the Gate needs. *apiclient.Client
// satisfies it.
type Backend interface {
	Login(ctx context.Context, username string, password *secret.Buffer) (*apiclient.LoginResponse, error)
	WhoAmI(ctx context.Context, token string) (schema.User, error)
}

// Session is a snapshot of an authenticated identity.
type Session struct {
	Token string
	User  schema.User
}

// Config configures a Gate.
type Config struct {
	// Store persists the session. Required.
	Store Store
	// Backend performs login and token verification. Required.
	Backend Backend
	// Logger receives state transitions. If nil, logging is discarded.
	Logger *slog.Logger
}

// Gate owns the console's session. All methods are safe for concurrent
// use.
type Gate struct {
	store   Store
	backend Backend
	logger  *slog.Logger

	mu    sync.Mutex
	state State
	token string
	user  *schema.User

	// attempt increments on every Login and Logout. A login whose
	// attempt is no longer current discards its response.
	attempt  uint64
	verified bool
}

// New creates an anonymous Gate. Call Restore to pick up a persisted
// session.
func New(config Config) (*Gate, error) {
	if config.Store == nil {
		return nil, fmt.Errorf("sessiongate: Store is required")
	}
	if config.Backend == nil {
		return nil, fmt.Errorf("sessiongate: Backend is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Gate{
		store:   config.Store,
		backend: config.Backend,
		logger:  logger,
		state:   Anonymous,
	}, nil
}

// State returns the current state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// IsAuthenticated reports whether both a token and a user are held.
func (g *Gate) IsAuthenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.authenticatedLocked()
}

func (g *Gate) authenticatedLocked() bool {
	return g.token != "" && g.user != nil
}

// Current returns the active session, or false when anonymous.
func (g *Gate) Current() (Session, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.authenticatedLocked() {
		return Session{}, false
	}
	return Session{Token: g.token, User: *g.user}, true
}

// Login authenticates against the backend. On success the token and
// user are persisted and the Gate becomes Authenticated. On failure the
// Gate returns to Anonymous and the error is one of
// [ErrInvalidCredentials], [*InactiveError], or a wrapped
// [ErrLoginFailed]. The password Buffer is not closed.
func (g *Gate) Login(ctx context.Context, username string, password *secret.Buffer) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == nil || password.Len() == 0 {
		return Session{}, fmt.Errorf("%w: username and password are required", ErrInvalidCredentials)
	}

	g.mu.Lock()
	switch g.state {
	case Authenticating:
		g.mu.Unlock()
		return Session{}, ErrLoginInProgress
	case Authenticated:
		g.mu.Unlock()
		return Session{}, ErrAlreadyAuthenticated
	}
	g.state = Authenticating
	g.attempt++
	attempt := g.attempt
	g.mu.Unlock()

	response, err := g.backend.Login(ctx, username, password)
	if err != nil {
		g.fail(attempt)
		classified := classifyLoginError(err)
		g.logger.Info("login rejected", "username", username, "error", classified)
		return Session{}, classified
	}
	if response.AccessToken == "" {
		g.fail(attempt)
		return Session{}, fmt.Errorf("%w: server returned no token", ErrLoginFailed)
	}

	user := response.User
	g.mu.Lock()
	if g.attempt != attempt || g.state != Authenticating {
		g.mu.Unlock()
		g.logger.Info("discarding login response after logout", "username", username)
		return Session{}, fmt.Errorf("%w: cancelled by logout", ErrLoginFailed)
	}
	if err := g.store.Save(Record{Token: response.AccessToken, User: &user}); err != nil {
		g.state = Anonymous
		g.mu.Unlock()
		return Session{}, fmt.Errorf("%w: persisting session: %w", ErrLoginFailed, err)
	}
	g.token = response.AccessToken
	g.user = &user
	g.state = Authenticated
	g.verified = true
	g.mu.Unlock()

	g.logger.Info("logged in", "username", user.Username, "role", user.Role)
	return Session{Token: response.AccessToken, User: user}, nil
}

// fail returns an in-flight login to Anonymous unless a later Login or
// Logout has taken over.
func (g *Gate) fail(attempt uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.attempt != attempt {
		return
	}
	g.state = Anonymous
	g.token = ""
	g.user = nil
}

// Logout clears the persisted and in-memory session together. The Gate
// is Anonymous afterwards even when clearing storage fails; the storage
// error is returned so the caller can report it. A Login still waiting
// on the server when Logout runs fails with ErrLoginFailed and leaves
// nothing behind.
func (g *Gate) Logout() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	username := ""
	if g.user != nil {
		username = g.user.Username
	}
	g.token = ""
	g.user = nil
	g.state = Anonymous
	g.verified = false
	g.attempt++

	if err := g.store.Clear(); err != nil {
		return fmt.Errorf("sessiongate: clearing session: %w", err)
	}
	g.logger.Info("logged out", "username", username)
	return nil
}

// RestoreOptions controls Restore.
type RestoreOptions struct {
	// Verify confirms the persisted token with the server before
	// trusting it. A token the server rejects is cleared and Restore
	// returns ErrSessionExpired. When the server cannot be reached the
	// persisted session is kept.
	Verify bool
}

// Restore loads a persisted session. It only acts on an Anonymous Gate;
// otherwise it returns the current state unchanged. Incomplete records
// (a token without a user, or the legacy boolean flag) are deleted and
// leave the Gate Anonymous.
func (g *Gate) Restore(ctx context.Context, options RestoreOptions) (State, error) {
	g.mu.Lock()
	if g.state != Anonymous {
		state := g.state
		g.mu.Unlock()
		return state, nil
	}
	g.mu.Unlock()

	record, err := g.store.Load()
	if err != nil {
		return Anonymous, fmt.Errorf("sessiongate: loading session: %w", err)
	}
	if !record.Complete() {
		if !record.empty() {
			g.logger.Info("discarding incomplete saved session",
				"legacy_flag", record.LegacyAuthenticated,
			)
			if err := g.store.Clear(); err != nil {
				return Anonymous, fmt.Errorf("sessiongate: clearing incomplete session: %w", err)
			}
		}
		return Anonymous, nil
	}

	user := *record.User
	confirmed := false
	if options.Verify {
		verified, err := g.backend.WhoAmI(ctx, record.Token)
		switch {
		case err == nil:
			confirmed = true
			if verified != user {
				user = verified
				if err := g.store.Save(Record{Token: record.Token, User: &user}); err != nil {
					return Anonymous, fmt.Errorf("sessiongate: updating saved user: %w", err)
				}
			}
		case isRejection(err):
			g.logger.Info("saved session rejected by server", "username", user.Username)
			if clearErr := g.store.Clear(); clearErr != nil {
				return Anonymous, fmt.Errorf("sessiongate: clearing rejected session: %w", clearErr)
			}
			return Anonymous, ErrSessionExpired
		default:
			g.logger.Warn("could not verify saved session, keeping it",
				"username", user.Username,
				"error", err,
			)
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != Anonymous {
		return g.state, nil
	}
	g.token = record.Token
	g.user = &user
	g.state = Authenticated
	g.verified = confirmed
	g.logger.Debug("session restored", "username", user.Username, "verified", confirmed)
	return Authenticated, nil
}

// Verified reports whether the server confirmed the current session:
// it came from Login, or from a Restore whose verification succeeded.
// A session kept because the server was unreachable is not verified.
func (g *Gate) Verified() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.verified && g.authenticatedLocked()
}

// OpenSession binds the current session to client for authenticated
// calls. The caller must Close the returned Session.
func (g *Gate) OpenSession(client *apiclient.Client) (*apiclient.Session, error) {
	session, ok := g.Current()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	return client.NewSession(session.Token, session.User)
}
