package tender

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altamira/pos-checkout/internal/models"
)

var (
	cash = models.PaymentMethod{ID: "pm-cash", Name: "Cash", Category: models.TenderCash}
	card = models.PaymentMethod{ID: "pm-card", Name: "Debit Card", Category: models.TenderNonCash}
)

func TestSelectMethod(t *testing.T) {
	t.Run("replaces the active method", func(t *testing.T) {
		r := NewResolver()
		r.SelectMethod(cash)
		r.SelectMethod(card)

		m, ok := r.Method()
		require.True(t, ok)
		assert.Equal(t, "pm-card", m.ID)
	})

	t.Run("switching away from cash clears the amount", func(t *testing.T) {
		r := NewResolver()
		r.SelectMethod(cash)
		r.SetAmountTendered(decimal.NewFromInt(20000))

		r.SelectMethod(card)
		assert.True(t, r.AmountTendered().Equal(decimal.Zero))
	})

	t.Run("cash to cash keeps the amount", func(t *testing.T) {
		r := NewResolver()
		r.SelectMethod(cash)
		r.SetAmountTendered(decimal.NewFromInt(20000))

		r.SelectMethod(cash)
		assert.True(t, r.AmountTendered().Equal(decimal.NewFromInt(20000)))
	})
}

func TestSetAmountTendered(t *testing.T) {
	t.Run("negative input clamps to zero", func(t *testing.T) {
		r := NewResolver()
		r.SelectMethod(cash)
		r.SetAmountTendered(decimal.NewFromInt(-500))

		assert.True(t, r.AmountTendered().Equal(decimal.Zero))
	})

	t.Run("ignored for non-cash methods", func(t *testing.T) {
		r := NewResolver()
		r.SelectMethod(card)
		r.SetAmountTendered(decimal.NewFromInt(20000))

		assert.True(t, r.AmountTendered().Equal(decimal.Zero))
	})

	t.Run("ignored when no method is selected", func(t *testing.T) {
		r := NewResolver()
		r.SetAmountTendered(decimal.NewFromInt(20000))

		assert.True(t, r.AmountTendered().Equal(decimal.Zero))
	})
}

func TestIsReady(t *testing.T) {
	total := decimal.NewFromInt(15000)

	t.Run("no method selected", func(t *testing.T) {
		r := NewResolver()
		assert.False(t, r.IsReady(total))
	})

	t.Run("cash covering the total", func(t *testing.T) {
		r := NewResolver()
		r.SelectMethod(cash)
		r.SetAmountTendered(decimal.NewFromInt(20000))

		assert.True(t, r.IsReady(total))
		assert.True(t, r.ChangeDue(total).Equal(decimal.NewFromInt(5000)))
	})

	t.Run("cash short of the total", func(t *testing.T) {
		r := NewResolver()
		r.SelectMethod(cash)
		r.SetAmountTendered(decimal.NewFromInt(10000))

		assert.False(t, r.IsReady(total))
	})

	t.Run("cash exactly equal to the total", func(t *testing.T) {
		r := NewResolver()
		r.SelectMethod(cash)
		r.SetAmountTendered(decimal.NewFromInt(15000))

		assert.True(t, r.IsReady(total))
		assert.True(t, r.ChangeDue(total).Equal(decimal.Zero))
	})

	t.Run("comparison is exact on decimals", func(t *testing.T) {
		r := NewResolver()
		r.SelectMethod(cash)
		r.SetAmountTendered(decimal.RequireFromString("14999.99"))

		assert.False(t, r.IsReady(total))
	})

	t.Run("non-cash is ready with no amount", func(t *testing.T) {
		r := NewResolver()
		r.SelectMethod(card)

		assert.True(t, r.IsReady(total))
	})
}

func TestChangeDue(t *testing.T) {
	total := decimal.NewFromInt(15000)

	t.Run("never negative for cash", func(t *testing.T) {
		r := NewResolver()
		r.SelectMethod(cash)
		r.SetAmountTendered(decimal.NewFromInt(10000))

		assert.True(t, r.ChangeDue(total).Equal(decimal.Zero))
	})

	t.Run("zero for non-cash immediately after switching", func(t *testing.T) {
		r := NewResolver()
		r.SelectMethod(cash)
		r.SetAmountTendered(decimal.NewFromInt(20000))

		r.SelectMethod(card)
		assert.True(t, r.ChangeDue(total).Equal(decimal.Zero))
	})

	t.Run("zero with no method", func(t *testing.T) {
		r := NewResolver()
		assert.True(t, r.ChangeDue(total).Equal(decimal.Zero))
	})
}

func TestSnapshotRestore(t *testing.T) {
	r := NewResolver()
	r.SelectMethod(cash)
	r.SetAmountTendered(decimal.NewFromInt(20000))

	before := r.Snapshot()

	r.SelectMethod(card)
	r.Restore(before)

	m, ok := r.Method()
	require.True(t, ok)
	assert.Equal(t, "pm-cash", m.ID)
	assert.True(t, r.AmountTendered().Equal(decimal.NewFromInt(20000)))
}

func TestReset(t *testing.T) {
	r := NewResolver()
	r.SelectMethod(cash)
	r.SetAmountTendered(decimal.NewFromInt(20000))

	r.Reset()

	_, ok := r.Method()
	assert.False(t, ok)
	assert.True(t, r.AmountTendered().Equal(decimal.Zero))
	assert.False(t, r.IsReady(decimal.Zero))
}
