package rates

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipping-optimizer/internal/common/logger"
)

// routeFakeExecutor answers per origin/destination pair.
type routeFakeExecutor struct {
	legs map[string][]Rate
}

func (f *routeFakeExecutor) Execute(_ context.Context, in QuoteInput, v DimensionVariant) []Rate {
	return f.legs[in.OriginCEP+">"+in.DestinationCEP]
}

func legRate(price float64, days int) Rate {
	return Rate{ID: "r", Price: float64Ptr(price), DeliveryDays: intPtr(days)}
}

func TestCompareRoutesCheaperViaCandidate(t *testing.T) {
	executor := &routeFakeExecutor{legs: map[string][]Rate{
		"01310100>69900100": {legRate(40.00, 5)},
		"01310100>30140071": {legRate(15.00, 3), legRate(22.00, 2)},
		"30140071>69900100": {legRate(20.00, 2)},
	}}
	engine := NewRouteComparisonEngine(executor, logger.NewTestLogger(t))

	result, err := engine.CompareRoutes(
		context.Background(),
		"01310100", "69900100",
		DimensionSet{Length: 20, Width: 15, Height: 10},
		1, 50,
		[]string{"30140071"},
		0,
	)
	require.NoError(t, err)

	require.NotNil(t, result.Direct.CheapestPrice)
	assert.Equal(t, 40.00, *result.Direct.CheapestPrice)
	assert.Equal(t, 5, *result.Direct.DeliveryDays)

	require.Len(t, result.Comparisons, 1)
	cmp := result.Comparisons[0]
	assert.Equal(t, "30140071", cmp.CandidateCEP)
	assert.Equal(t, 15.00, *cmp.Leg1.CheapestPrice)
	assert.Equal(t, 3, *cmp.Leg1.DeliveryDays)
	assert.Equal(t, 20.00, *cmp.Leg2.CheapestPrice)
	require.NotNil(t, cmp.TotalPrice)
	assert.Equal(t, 35.00, *cmp.TotalPrice)
	require.NotNil(t, cmp.TotalDeliveryDays)
	assert.Equal(t, 5, *cmp.TotalDeliveryDays)
	assert.True(t, cmp.IsBetterThanDirect)
}

func TestCompareRoutesMissingLegPropagatesNulls(t *testing.T) {
	executor := &routeFakeExecutor{legs: map[string][]Rate{
		"01310100>69900100": {legRate(40.00, 5)},
		"01310100>30140071": {legRate(15.00, 3)},
		// Second leg has no available rate at all.
		"30140071>69900100": {{ID: "err", ErrorMessage: "no coverage"}},
	}}
	engine := NewRouteComparisonEngine(executor, logger.NewTestLogger(t))

	result, err := engine.CompareRoutes(
		context.Background(),
		"01310100", "69900100",
		DimensionSet{Length: 20, Width: 15, Height: 10},
		1, 50,
		[]string{"30140071"},
		0,
	)
	require.NoError(t, err)
	require.Len(t, result.Comparisons, 1)

	cmp := result.Comparisons[0]
	assert.NotNil(t, cmp.Leg1.CheapestPrice)
	assert.Nil(t, cmp.Leg2.CheapestPrice)
	assert.Nil(t, cmp.TotalPrice)
	assert.Nil(t, cmp.TotalDeliveryDays)
	assert.False(t, cmp.IsBetterThanDirect)
}

func TestCompareRoutesTotalNotBetterThanDirect(t *testing.T) {
	executor := &routeFakeExecutor{legs: map[string][]Rate{
		"01310100>69900100": {legRate(30.00, 5)},
		"01310100>30140071": {legRate(15.00, 3)},
		"30140071>69900100": {legRate(20.00, 2)},
	}}
	engine := NewRouteComparisonEngine(executor, logger.NewTestLogger(t))

	result, err := engine.CompareRoutes(
		context.Background(),
		"01310100", "69900100",
		DimensionSet{Length: 20, Width: 15, Height: 10},
		1, 50,
		[]string{"30140071"},
		0,
	)
	require.NoError(t, err)

	cmp := result.Comparisons[0]
	assert.Equal(t, 35.00, *cmp.TotalPrice)
	assert.False(t, cmp.IsBetterThanDirect)
}

func TestCompareRoutesNoDirectRateStillCompares(t *testing.T) {
	executor := &routeFakeExecutor{legs: map[string][]Rate{
		"01310100>30140071": {legRate(15.00, 3)},
		"30140071>69900100": {legRate(20.00, 2)},
	}}
	engine := NewRouteComparisonEngine(executor, logger.NewTestLogger(t))

	result, err := engine.CompareRoutes(
		context.Background(),
		"01310100", "69900100",
		DimensionSet{Length: 20, Width: 15, Height: 10},
		1, 50,
		[]string{"30140071"},
		0,
	)
	require.NoError(t, err)

	assert.Nil(t, result.Direct.CheapestPrice)
	cmp := result.Comparisons[0]
	assert.Equal(t, 35.00, *cmp.TotalPrice)
	// No direct baseline means no claim of improvement.
	assert.False(t, cmp.IsBetterThanDirect)
}

func TestCompareRoutesPreservesCandidateOrder(t *testing.T) {
	executor := &routeFakeExecutor{legs: map[string][]Rate{
		"01310100>69900100": {legRate(40.00, 5)},
		"01310100>30140071": {legRate(15.00, 3)},
		"30140071>69900100": {legRate(20.00, 2)},
		"01310100>80010000": {legRate(11.00, 2)},
		"80010000>69900100": {legRate(12.00, 4)},
	}}
	engine := NewRouteComparisonEngine(executor, logger.NewTestLogger(t))

	result, err := engine.CompareRoutes(
		context.Background(),
		"01310100", "69900100",
		DimensionSet{Length: 20, Width: 15, Height: 10},
		1, 50,
		[]string{"80010000", "30140071"},
		0,
	)
	require.NoError(t, err)
	require.Len(t, result.Comparisons, 2)
	assert.Equal(t, "80010000", result.Comparisons[0].CandidateCEP)
	assert.Equal(t, "30140071", result.Comparisons[1].CandidateCEP)
}
