package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/flashbackfa/entreprise-api/internal/domain/model"
)

// TaxBracketRepository provides the tax scale.
type TaxBracketRepository interface {
	List(ctx context.Context) ([]model.TaxBracket, error)
	Replace(ctx context.Context, brackets []model.TaxBracket) ([]model.TaxBracket, error)
}

// ImpotsService runs profit figures through the piecewise tax scale.
type ImpotsService struct {
	brackets TaxBracketRepository
}

// NewImpotsService constructs a new ImpotsService.
func NewImpotsService(brackets TaxBracketRepository) *ImpotsService {
	return &ImpotsService{brackets: brackets}
}

// Simulate computes the tax owed on a profit figure. Zero or negative profit
// owes nothing. Each bracket taxes only the slice of profit inside its
// bounds; amounts are truncated to whole currency units per bracket.
func Simulate(brackets []model.TaxBracket, profit int64) (*model.TaxSimulation, error) {
	if err := model.ValidateBrackets(brackets); err != nil {
		return nil, err
	}

	sim := &model.TaxSimulation{Profit: profit}
	if profit <= 0 {
		sim.Net = profit
		return sim, nil
	}

	for _, b := range brackets {
		if profit <= b.Min {
			break
		}
		upper := profit
		if b.Max != nil && *b.Max < upper {
			upper = *b.Max
		}
		taxable := upper - b.Min
		tax := int64(math.Floor(float64(taxable) * b.Rate))
		sim.Tax += tax
		sim.PerBracket = append(sim.PerBracket, model.BracketShare{
			Bracket: b,
			Taxable: taxable,
			Tax:     tax,
		})
	}

	sim.Net = profit - sim.Tax
	sim.EffectiveRate = float64(sim.Tax) / float64(profit)
	return sim, nil
}

// Simulate loads the stored scale and runs the profit through it.
func (s *ImpotsService) Simulate(ctx context.Context, profit int64) (*model.TaxSimulation, error) {
	brackets, err := s.brackets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tax brackets: %w", err)
	}
	return Simulate(brackets, profit)
}

// ListBrackets returns the stored scale.
func (s *ImpotsService) ListBrackets(ctx context.Context) ([]model.TaxBracket, error) {
	return s.brackets.List(ctx)
}

// ReplaceBrackets swaps the whole scale atomically after validation.
func (s *ImpotsService) ReplaceBrackets(
	ctx context.Context,
	brackets []model.TaxBracket,
) ([]model.TaxBracket, error) {
	if len(brackets) == 0 {
		return nil, errors.New("at least one bracket is required")
	}
	if err := model.ValidateBrackets(brackets); err != nil {
		return nil, err
	}
	return s.brackets.Replace(ctx, brackets)
}
