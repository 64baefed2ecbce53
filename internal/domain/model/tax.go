//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
)

// TaxBracket is one row of the piecewise tax scale. Max is nil on the open
// top bracket.
type TaxBracket struct {
	ID  string `json:"id"            db:"id"`
	Min int64  `json:"min"           db:"min"`
	Max *int64 `json:"max,omitempty" db:"max"`
	// Rate is the marginal rate applied to the slice of profit inside
	// [Min, Max), expressed as a fraction (0.09 = 9%).
	Rate float64 `json:"rate" db:"rate"`
}

// ValidateBrackets checks that a scale is usable: ascending, non-overlapping,
// rates within [0,1], and at most one open top bracket, which must be last.
func ValidateBrackets(brackets []TaxBracket) error {
	if len(brackets) == 0 {
		return errors.New("at least one bracket is required")
	}
	for i, b := range brackets {
		if b.Rate < 0 || b.Rate > 1 {
			return errors.New("bracket rate must be within [0,1]")
		}
		if b.Max != nil && *b.Max <= b.Min {
			return errors.New("bracket max must exceed min")
		}
		if b.Max == nil && i != len(brackets)-1 {
			return errors.New("open bracket must be last")
		}
		if i > 0 {
			prev := brackets[i-1]
			if prev.Max == nil || b.Min != *prev.Max {
				return errors.New("brackets must be contiguous and ascending")
			}
		}
	}
	if brackets[0].Min != 0 {
		return errors.New("first bracket must start at 0")
	}
	return nil
}

// BracketShare is one bracket's contribution to a simulation result.
type BracketShare struct {
	Bracket TaxBracket `json:"bracket"`
	Taxable int64      `json:"taxable"`
	Tax     int64      `json:"tax"`
}

// TaxSimulation is the outcome of running a profit through the scale.
type TaxSimulation struct {
	Profit        int64          `json:"profit"`
	Tax           int64          `json:"tax"`
	Net           int64          `json:"net"`
	EffectiveRate float64        `json:"effective_rate"`
	PerBracket    []BracketShare `json:"per_bracket"`
}
