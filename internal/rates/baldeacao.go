package rates

import (
	"context"

	"shipping-optimizer/internal/common/logger"
)

// RouteComparisonEngine compares the direct route against two-leg routes
// through candidate transshipment (baldeação) CEPs. It reuses the
// executor's single-query primitive, so every leg benefits from the same
// retry/backoff behavior and counts against the same quota.
type RouteComparisonEngine struct {
	executor VariantExecutor
	logger   logger.Logger
}

func NewRouteComparisonEngine(executor VariantExecutor, log logger.Logger) *RouteComparisonEngine {
	return &RouteComparisonEngine{
		executor: executor,
		logger:   log.WithFields(map[string]interface{}{"component": "baldeacao"}),
	}
}

// CompareRoutes prices the direct route and, for each candidate CEP, the
// origin→candidate and candidate→destination legs. Totals propagate nulls:
// a leg without a price means the route has no total, never a zero that
// could be mistaken for free shipping. Output preserves candidate order.
func (e *RouteComparisonEngine) CompareRoutes(
	ctx context.Context,
	origin, destination string,
	dims DimensionSet,
	weight, insurance float64,
	candidateCeps []string,
	protectionCm float64,
) (RouteComparisonResult, error) {
	direct := e.cheapestSingle(ctx, origin, destination, dims, weight, insurance, protectionCm)

	comparisons := make([]RouteComparison, 0, len(candidateCeps))
	for _, cep := range candidateCeps {
		leg1 := e.cheapestSingle(ctx, origin, cep, dims, weight, insurance, protectionCm)
		leg2 := e.cheapestSingle(ctx, cep, destination, dims, weight, insurance, protectionCm)

		cmp := RouteComparison{
			CandidateCEP: cep,
			Leg1:         leg1,
			Leg2:         leg2,
		}

		if leg1.CheapestPrice != nil && leg2.CheapestPrice != nil {
			totalPrice := *leg1.CheapestPrice + *leg2.CheapestPrice
			cmp.TotalPrice = &totalPrice
			cmp.IsBetterThanDirect = direct.CheapestPrice != nil && totalPrice < *direct.CheapestPrice
		}
		if leg1.DeliveryDays != nil && leg2.DeliveryDays != nil {
			totalDays := *leg1.DeliveryDays + *leg2.DeliveryDays
			cmp.TotalDeliveryDays = &totalDays
		}

		comparisons = append(comparisons, cmp)

		if ctx.Err() != nil {
			return RouteComparisonResult{Direct: direct, Comparisons: comparisons}, ctx.Err()
		}
	}

	return RouteComparisonResult{Direct: direct, Comparisons: comparisons}, nil
}

// cheapestSingle issues one non-grid query and extracts the minimum-price
// available rate. No available rate means a leg with null price and days.
func (e *RouteComparisonEngine) cheapestSingle(
	ctx context.Context,
	origin, destination string,
	dims DimensionSet,
	weight, insurance float64,
	protectionCm float64,
) RouteLeg {
	variant := DimensionVariant{
		Dimensions: DimensionSet{
			Length: clampAxis(dims.Length + protectionCm),
			Width:  clampAxis(dims.Width + protectionCm),
			Height: clampAxis(dims.Height + protectionCm),
		},
	}

	in := QuoteInput{
		OriginCEP:      origin,
		DestinationCEP: destination,
		Dimensions:     dims,
		Weight:         weight,
		InsuranceValue: insurance,
	}

	var leg RouteLeg
	for _, r := range e.executor.Execute(ctx, in, variant) {
		if !r.Available() {
			continue
		}
		if leg.CheapestPrice == nil || *r.Price < *leg.CheapestPrice {
			price := *r.Price
			leg.CheapestPrice = &price
			leg.DeliveryDays = r.DeliveryDays
		}
	}

	if leg.CheapestPrice == nil {
		e.logger.Debug("no available rate for leg", map[string]interface{}{
			"origin":      origin,
			"destination": destination,
		})
	}
	return leg
}
