package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLineTotal(t *testing.T) {
	assert.True(t, LineTotal(3, d("19.99")).Equal(d("59.97")))
	assert.True(t, LineTotal(1, d("0")).IsZero())
}

func TestComputeTotalsSameState(t *testing.T) {
	lines := []LineInput{{Quantity: 2, UnitPrice: d("25")}, {Quantity: 1, UnitPrice: d("50")}}

	got := ComputeTotals(lines, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero,
		"Delhi", "Delhi", d("9"), d("9"), d("18"), d("50"))

	assert.True(t, got.Subtotal.Equal(d("100.00")), "subtotal = %s", got.Subtotal)
	assert.True(t, got.TaxAmount.Equal(d("18.00")), "tax = %s", got.TaxAmount)
	assert.True(t, got.Total.Equal(d("118.00")), "total = %s", got.Total)
	assert.True(t, got.AdvanceAmount.Equal(d("59.00")), "advance = %s", got.AdvanceAmount)
}

func TestComputeTotalsIdempotent(t *testing.T) {
	lines := []LineInput{{Quantity: 3, UnitPrice: d("123.45")}}

	first := ComputeTotals(lines, d("10"), d("20"), d("5"), decimal.Zero,
		"Goa", "Delhi", d("9"), d("9"), d("18"), d("25"))
	second := ComputeTotals(lines, d("10"), d("20"), d("5"), decimal.Zero,
		"Goa", "Delhi", d("9"), d("9"), d("18"), d("25"))

	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.TaxAmount.Equal(second.TaxAmount))
	assert.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.AdvanceAmount.Equal(second.AdvanceAmount))
}

func TestComputeTotalsFeesEnterTaxAndTotal(t *testing.T) {
	lines := []LineInput{{Quantity: 1, UnitPrice: d("100")}}

	got := ComputeTotals(lines, decimal.Zero, d("50"), decimal.Zero, decimal.Zero,
		"Delhi", "Delhi", d("9"), d("9"), d("18"), decimal.Zero)

	// taxable = 100 + 50 late fee; tax 18% of 150 = 27; total = 100 + 27 + 50
	assert.True(t, got.TaxAmount.Equal(d("27.00")), "tax = %s", got.TaxAmount)
	assert.True(t, got.Total.Equal(d("177.00")), "total = %s", got.Total)
}
