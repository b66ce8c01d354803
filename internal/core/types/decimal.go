// Package types provides common numeric types and rounding rules for the ledger.
//
// All quantities, unit costs and monetary amounts are decimal.Decimal.
// Rounding scales are fixed platform-wide and applied at every write, so
// stored values never drift:
//
//	quantities      3 decimal places
//	unit costs      4 decimal places
//	monetary totals 2 decimal places
package types

import (
	"github.com/shopspring/decimal"
)

// Rounding scales.
const (
	QuantityScale = 3
	CostScale     = 4
	MoneyScale    = 2
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// Zero returns the zero decimal value.
func Zero() decimal.Decimal {
	return decimal.Zero
}

// MustDecimal parses a decimal from string, panics on error.
// Use only for constants and tests.
func MustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// RoundQuantity rounds a stock quantity to the platform quantity scale.
func RoundQuantity(d decimal.Decimal) decimal.Decimal {
	return d.Round(QuantityScale)
}

// RoundCost rounds a per-unit cost to the platform cost scale.
func RoundCost(d decimal.Decimal) decimal.Decimal {
	return d.Round(CostScale)
}

// RoundMoney rounds a monetary total to the platform money scale.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// WeightedAverageCost blends an incoming receipt into an existing stock level.
//
// Given the existing level (q0 units at cost c0) and the incoming lot
// (q1 units at cost c1), the new per-unit cost is
//
//	(q0*c0 + q1*c1) / (q0 + q1)
//
// rounded to the cost scale. When the combined quantity is zero the incoming
// cost is kept as-is so a later receipt has a sane cost basis.
func WeightedAverageCost(q0, c0, q1, c1 decimal.Decimal) decimal.Decimal {
	total := q0.Add(q1)
	if total.IsZero() {
		return RoundCost(c1)
	}
	blended := q0.Mul(c0).Add(q1.Mul(c1)).Div(total)
	return RoundCost(blended)
}

// LineTotal computes quantity * unitCost rounded to the money scale.
func LineTotal(quantity, unitCost decimal.Decimal) decimal.Decimal {
	return RoundMoney(quantity.Mul(unitCost))
}
