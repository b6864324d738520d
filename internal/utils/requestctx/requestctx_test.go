package requestctx

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/uniedit/payrecon/internal/model"
)

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Empty(t, RequestID(context.Background()))
}

func TestActor(t *testing.T) {
	actor := model.NewActor(uuid.New(), model.RoleAdmin)
	ctx := WithActor(context.Background(), actor)

	assert.Same(t, actor, Actor(ctx))
	assert.Nil(t, Actor(context.Background()))
}

func TestLogFields(t *testing.T) {
	assert.Empty(t, LogFields(context.Background()))

	actor := model.NewActor(uuid.New(), "")
	ctx := WithActor(WithRequestID(context.Background(), "req-2"), actor)

	fields := LogFields(ctx)
	assert.Len(t, fields, 3)
	assert.Equal(t, "request_id", fields[0].Key)
	assert.Equal(t, "req-2", fields[0].String)
	assert.Equal(t, actor.UserID.String(), fields[1].String)
	assert.Equal(t, model.RoleUser, fields[2].String)
}
