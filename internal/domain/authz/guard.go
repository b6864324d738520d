// Package authz holds the ownership and role predicates every payment read
// and write is checked against. A nil actor is never authorized.
package authz

import (
	"github.com/google/uuid"
	"github.com/uniedit/payrecon/internal/model"
)

// IsOwner reports whether actor owns a resource belonging to resourceUserID.
func IsOwner(actor *model.Actor, resourceUserID uuid.UUID) bool {
	if actor == nil || actor.UserID == uuid.Nil {
		return false
	}
	return actor.UserID == resourceUserID
}

// IsAdmin reports whether actor has the admin role.
func IsAdmin(actor *model.Actor) bool {
	return actor != nil && actor.Role == model.RoleAdmin
}

// IsOwnerOrAdmin reports whether actor owns the resource or is an admin.
func IsOwnerOrAdmin(actor *model.Actor, resourceUserID uuid.UUID) bool {
	return IsOwner(actor, resourceUserID) || IsAdmin(actor)
}
