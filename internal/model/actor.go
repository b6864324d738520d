package model

import "github.com/google/uuid"

// Roles carried by an authenticated actor.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Actor identifies the caller of a payment operation.
type Actor struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

// NewActor returns an actor, defaulting an empty role to RoleUser.
func NewActor(userID uuid.UUID, role string) *Actor {
	if role == "" {
		role = RoleUser
	}
	return &Actor{UserID: userID, Role: role}
}
