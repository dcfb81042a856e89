// Package service holds the business rules between HTTP handlers and repositories.
package service

import (
	"inkwell/internal/models"
	"inkwell/internal/observability"
)

// Actor is the authenticated identity a request acts as.
type Actor struct {
	ID   uint
	Role models.Role
}

// ActorOf builds an Actor from a loaded user. A nil user is anonymous.
func ActorOf(u *models.User) Actor {
	if u == nil {
		return Actor{}
	}
	return Actor{ID: u.ID, Role: u.Role}
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// Anonymous reports whether no user is behind the request.
func (a Actor) Anonymous() bool {
	return a.ID == 0
}

// Guard applies the ownership and role policies. Callers check that the
// target resource exists before asking the guard.
type Guard struct{}

func deny(policy, message string) error {
	observability.AccessDenials.WithLabelValues(policy).Inc()
	return models.NewForbiddenError(message)
}

// Authorize allows admins and any actor whose id is ownerID or one of extraOwnerIDs.
func (Guard) Authorize(actor Actor, ownerID uint, extraOwnerIDs ...uint) error {
	if actor.Anonymous() {
		return models.NewUnauthorizedError("Authentication required")
	}
	if actor.IsAdmin() || actor.ID == ownerID {
		return nil
	}
	for _, id := range extraOwnerIDs {
		if actor.ID == id {
			return nil
		}
	}
	return deny("owner", "Not authorized to modify this resource")
}

func (Guard) RequireAdmin(actor Actor) error {
	if actor.Anonymous() {
		return models.NewUnauthorizedError("Authentication required")
	}
	if !actor.IsAdmin() {
		return deny("admin", "Admin access required")
	}
	return nil
}

// RequireRole allows actors holding any of roles.
func (Guard) RequireRole(actor Actor, roles ...models.Role) error {
	if actor.Anonymous() {
		return models.NewUnauthorizedError("Authentication required")
	}
	for _, r := range roles {
		if actor.Role == r {
			return nil
		}
	}
	return deny("role", "Insufficient role")
}
