package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/uniedit/payrecon/internal/model"
)

func TestGuard(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	tests := []struct {
		name           string
		actor          *model.Actor
		isOwner        bool
		isAdmin        bool
		isOwnerOrAdmin bool
	}{
		{"owner", &model.Actor{UserID: owner, Role: model.RoleUser}, true, false, true},
		{"other user", &model.Actor{UserID: other, Role: model.RoleUser}, false, false, false},
		{"admin", &model.Actor{UserID: other, Role: model.RoleAdmin}, false, true, true},
		{"admin owner", &model.Actor{UserID: owner, Role: model.RoleAdmin}, true, true, true},
		{"nil actor", nil, false, false, false},
		{"anonymous", &model.Actor{Role: model.RoleUser}, false, false, false},
		{"unknown role", &model.Actor{UserID: other, Role: "superuser"}, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isOwner, IsOwner(tt.actor, owner))
			assert.Equal(t, tt.isAdmin, IsAdmin(tt.actor))
			assert.Equal(t, tt.isOwnerOrAdmin, IsOwnerOrAdmin(tt.actor, owner))
		})
	}

	t.Run("nil resource owner never matches anonymous actor", func(t *testing.T) {
		assert.False(t, IsOwner(&model.Actor{}, uuid.Nil))
	})
}
