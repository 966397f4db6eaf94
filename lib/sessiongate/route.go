// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package sessiongate

// Access is the level a surface requires.
type Access int

const (
	// AccessPublic surfaces are reachable without a session (login,
	// registration, ticket submission).
	AccessPublic Access = iota
	// AccessStaff surfaces need any authenticated account.
	AccessStaff
	// AccessAdmin surfaces need an authenticated admin.
	AccessAdmin
)

// Redirect names the fallback shown instead of a denied surface.
type Redirect int

const (
	RedirectNone Redirect = iota
	// RedirectLogin sends an anonymous caller to the login surface.
	RedirectLogin
	// RedirectLanding sends a non-admin to the ordinary staff landing
	// surface.
	RedirectLanding
)

func (r Redirect) String() string {
	switch r {
	case RedirectLogin:
		return "login"
	case RedirectLanding:
		return "landing"
	default:
		return "none"
	}
}

// Decision is the outcome of a route check.
type Decision struct {
	Allowed  bool
	Redirect Redirect
}

// Decide applies the gating rules to an optional session.
func Decide(access Access, session *Session) Decision {
	switch access {
	case AccessPublic:
		return Decision{Allowed: true}
	case AccessStaff:
		if session == nil {
			return Decision{Redirect: RedirectLogin}
		}
		return Decision{Allowed: true}
	default:
		if session == nil {
			return Decision{Redirect: RedirectLogin}
		}
		if !session.User.IsAdmin() {
			return Decision{Redirect: RedirectLanding}
		}
		return Decision{Allowed: true}
	}
}

// Authorize decides whether the Gate's current session may reach a
// surface with the given access level.
func (g *Gate) Authorize(access Access) Decision {
	session, ok := g.Current()
	if !ok {
		return Decide(access, nil)
	}
	return Decide(access, &session)
}
