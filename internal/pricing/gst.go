// Package pricing holds the pure calculation engines: GST splitting,
// late-fee evaluation, and document totals. Nothing here touches the
// database; callers resolve rates/policies and pass them in.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// GSTBreakdown is the result of splitting GST for one taxable amount.
// All amounts are rounded to 2 decimals with banker's rounding.
type GSTBreakdown struct {
	IsIntrastate bool
	CGST         decimal.Decimal
	SGST         decimal.Decimal
	IGST         decimal.Decimal
	TotalTax     decimal.Decimal
}

// ComputeGST splits tax by origin/destination state.
// Exact state-string match means intra-state supply (CGST + SGST);
// anything else is inter-state (IGST only). Rates are percentages.
func ComputeGST(taxable decimal.Decimal, originState, destinationState string, cgstRate, sgstRate, igstRate decimal.Decimal) GSTBreakdown {
	if originState == destinationState {
		cgst := taxable.Mul(cgstRate).Div(hundred).RoundBank(2)
		sgst := taxable.Mul(sgstRate).Div(hundred).RoundBank(2)
		return GSTBreakdown{
			IsIntrastate: true,
			CGST:         cgst,
			SGST:         sgst,
			IGST:         decimal.Zero,
			TotalTax:     cgst.Add(sgst),
		}
	}

	igst := taxable.Mul(igstRate).Div(hundred).RoundBank(2)
	return GSTBreakdown{
		IsIntrastate: false,
		CGST:         decimal.Zero,
		SGST:         decimal.Zero,
		IGST:         igst,
		TotalTax:     igst,
	}
}

// TaxableBase returns the amount GST applies to. Late fees, damage and
// other charges are taxed the same as the rental itself.
func TaxableBase(subtotal, discount, lateFee, damageCharges, otherCharges decimal.Decimal) decimal.Decimal {
	return subtotal.Sub(discount).Add(lateFee).Add(damageCharges).Add(otherCharges)
}
