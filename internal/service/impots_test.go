package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashbackfa/entreprise-api/internal/domain/model"
)

func int64Ptr(v int64) *int64 { return &v }

// testScale is a three-step scale: 0% under 10k, 10% to 50k, 25% above.
func testScale() []model.TaxBracket {
	return []model.TaxBracket{
		{Min: 0, Max: int64Ptr(10_000), Rate: 0},
		{Min: 10_000, Max: int64Ptr(50_000), Rate: 0.10},
		{Min: 50_000, Max: nil, Rate: 0.25},
	}
}

func TestSimulate_ZeroAndNegativeProfit(t *testing.T) {
	t.Parallel()

	for _, profit := range []int64{0, -5_000} {
		sim, err := Simulate(testScale(), profit)
		require.NoError(t, err)
		assert.Equal(t, int64(0), sim.Tax)
		assert.Equal(t, profit, sim.Net)
		assert.Empty(t, sim.PerBracket)
		assert.Zero(t, sim.EffectiveRate)
	}
}

func TestSimulate_WithinFirstBracket(t *testing.T) {
	t.Parallel()

	sim, err := Simulate(testScale(), 8_000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), sim.Tax)
	assert.Equal(t, int64(8_000), sim.Net)
	require.Len(t, sim.PerBracket, 1)
	assert.Equal(t, int64(8_000), sim.PerBracket[0].Taxable)
}

func TestSimulate_SpansAllBrackets(t *testing.T) {
	t.Parallel()

	// 100k profit: 0% on 10k, 10% on 40k (4k), 25% on 50k (12.5k).
	sim, err := Simulate(testScale(), 100_000)
	require.NoError(t, err)
	assert.Equal(t, int64(16_500), sim.Tax)
	assert.Equal(t, int64(83_500), sim.Net)
	require.Len(t, sim.PerBracket, 3)
	assert.Equal(t, int64(4_000), sim.PerBracket[1].Tax)
	assert.Equal(t, int64(12_500), sim.PerBracket[2].Tax)
	assert.InDelta(t, 0.165, sim.EffectiveRate, 1e-9)
}

func TestSimulate_TruncatesPerBracket(t *testing.T) {
	t.Parallel()

	// 10,005 profit: 10% on 5 = 0.5, truncated to 0.
	sim, err := Simulate(testScale(), 10_005)
	require.NoError(t, err)
	assert.Equal(t, int64(0), sim.Tax)
}

func TestSimulate_RejectsBrokenScale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		brackets []model.TaxBracket
	}{
		{"empty", nil},
		{"gap", []model.TaxBracket{
			{Min: 0, Max: int64Ptr(10_000), Rate: 0},
			{Min: 20_000, Max: nil, Rate: 0.1},
		}},
		{"first not at zero", []model.TaxBracket{
			{Min: 5_000, Max: nil, Rate: 0.1},
		}},
		{"rate out of range", []model.TaxBracket{
			{Min: 0, Max: nil, Rate: 1.5},
		}},
		{"open bracket not last", []model.TaxBracket{
			{Min: 0, Max: nil, Rate: 0.1},
			{Min: 0, Max: int64Ptr(10_000), Rate: 0.2},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Simulate(tt.brackets, 1_000)
			require.Error(t, err)
		})
	}
}

type fakeBracketRepo struct {
	brackets []model.TaxBracket
	fail     error
	replaced []model.TaxBracket
}

func (f *fakeBracketRepo) List(_ context.Context) ([]model.TaxBracket, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return f.brackets, nil
}

func (f *fakeBracketRepo) Replace(_ context.Context, brackets []model.TaxBracket) ([]model.TaxBracket, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.replaced = brackets
	return brackets, nil
}

func TestImpotsService_Simulate_UsesStoredScale(t *testing.T) {
	t.Parallel()

	svc := NewImpotsService(&fakeBracketRepo{brackets: testScale()})
	sim, err := svc.Simulate(context.Background(), 100_000)
	require.NoError(t, err)
	assert.Equal(t, int64(16_500), sim.Tax)
}

func TestImpotsService_Simulate_RepoError(t *testing.T) {
	t.Parallel()

	svc := NewImpotsService(&fakeBracketRepo{fail: errors.New("down")})
	_, err := svc.Simulate(context.Background(), 100_000)
	require.Error(t, err)
}

func TestImpotsService_ReplaceBrackets_ValidatesFirst(t *testing.T) {
	t.Parallel()

	repo := &fakeBracketRepo{}
	svc := NewImpotsService(repo)

	_, err := svc.ReplaceBrackets(context.Background(), nil)
	require.Error(t, err)
	assert.Nil(t, repo.replaced)

	out, err := svc.ReplaceBrackets(context.Background(), testScale())
	require.NoError(t, err)
	assert.Len(t, out, 3)
	assert.Len(t, repo.replaced, 3)
}
