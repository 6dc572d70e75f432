package pricing

import "github.com/shopspring/decimal"

// LineInput is the minimal view of a document line needed for totals.
type LineInput struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// LineTotal computes quantity × unit_price in decimal arithmetic.
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).RoundBank(2)
}

// Totals is the recomputed money summary of a quotation or order.
// Recomputation is idempotent: the same lines always yield the same totals.
type Totals struct {
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	Total         decimal.Decimal
	AdvanceAmount decimal.Decimal
}

// ComputeTotals derives subtotal, tax, total, and the advance amount.
// subtotal = Σ line totals; tax is computed on (subtotal − discount) plus
// any fees via ComputeGST; total = subtotal − discount + tax + fees;
// advance = total × advancePercentage / 100.
func ComputeTotals(lines []LineInput, discount, lateFee, damageCharges, otherCharges decimal.Decimal,
	originState, destinationState string, cgstRate, sgstRate, igstRate decimal.Decimal,
	advancePercentage decimal.Decimal) Totals {

	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(LineTotal(l.Quantity, l.UnitPrice))
	}

	taxable := TaxableBase(subtotal, discount, lateFee, damageCharges, otherCharges)
	gst := ComputeGST(taxable, originState, destinationState, cgstRate, sgstRate, igstRate)

	total := subtotal.Sub(discount).Add(gst.TotalTax).Add(lateFee).Add(damageCharges).Add(otherCharges)
	advance := total.Mul(advancePercentage).Div(hundred).RoundBank(2)

	return Totals{
		Subtotal:      subtotal.RoundBank(2),
		TaxAmount:     gst.TotalTax,
		Total:         total.RoundBank(2),
		AdvanceAmount: advance,
	}
}
