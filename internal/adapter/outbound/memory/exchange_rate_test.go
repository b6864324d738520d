package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniedit/payrecon/internal/utils/errors"
)

func TestExchangeRate(t *testing.T) {
	ctx := context.Background()
	r := NewExchangeRate(decimal.RequireFromString("0.012"))

	t.Run("returns initial rate", func(t *testing.T) {
		rate, err := r.INRToUSD(ctx)
		require.NoError(t, err)
		assert.True(t, rate.Equal(decimal.RequireFromString("0.012")))
	})

	t.Run("override", func(t *testing.T) {
		require.NoError(t, r.SetINRToUSD(ctx, decimal.RequireFromString("0.0125")))
		rate, err := r.INRToUSD(ctx)
		require.NoError(t, err)
		assert.Equal(t, "0.0125", rate.String())
	})

	t.Run("rejects non-positive", func(t *testing.T) {
		err := r.SetINRToUSD(ctx, decimal.Zero)
		assert.True(t, errors.IsValidation(err))
	})
}
