// Package policy decides which operations need an authenticated actor and
// which need the admin role.
package policy

import (
	"nativore/internal/models"
)

// Tier is the minimum privilege an operation requires.
type Tier int

const (
	// Anonymous operations are open to everyone.
	Anonymous Tier = iota
	// Authenticated operations need a valid, active account.
	Authenticated
	// Admin operations need an active account holding the admin role.
	Admin
)

func (t Tier) String() string {
	switch t {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	case Admin:
		return "admin"
	default:
		return "unknown"
	}
}

// Actor is the identity a request acts as.
type Actor struct {
	ID     uint
	Role   models.Role
	Active bool
}

// ActorFromUser builds an Actor from a loaded account. A nil user yields nil.
func ActorFromUser(u *models.User) *Actor {
	if u == nil {
		return nil
	}
	return &Actor{ID: u.ID, Role: u.Role, Active: u.IsActive}
}

// IsAdmin reports whether the actor holds the admin role.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == models.RoleAdmin
}

// Authorize returns nil when actor may perform an operation of tier.
// A missing or inactive actor is UNAUTHORIZED; a valid actor without the
// required role is FORBIDDEN.
func Authorize(tier Tier, actor *Actor) error {
	if tier == Anonymous {
		return nil
	}
	if actor == nil || actor.ID == 0 {
		return models.NewUnauthorizedError("Authentication required")
	}
	if !actor.Active {
		return models.NewUnauthorizedError("Account is disabled")
	}
	if tier == Admin && !actor.IsAdmin() {
		return models.NewForbiddenError("Admin role required")
	}
	return nil
}
