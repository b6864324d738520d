package outbound

import "github.com/uniedit/payrecon/internal/model"

// TokenVerifierPort validates bearer tokens issued by the identity service.
type TokenVerifierPort interface {
	// ValidateToken returns the actor a token was issued to.
	ValidateToken(token string) (*model.Actor, error)
}
