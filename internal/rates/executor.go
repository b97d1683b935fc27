package rates

import (
	"context"

	"github.com/google/uuid"

	"shipping-optimizer/internal/common/logger"
	"shipping-optimizer/internal/melhorenvio"
)

// QuoteClient is the upstream primitive the executor drives. Satisfied by
// *melhorenvio.Client.
type QuoteClient interface {
	Calculate(ctx context.Context, q melhorenvio.QuoteQuery) ([]melhorenvio.QuoteItem, error)
}

// Executor prices a single dimension variant and maps the upstream items
// into Rates carrying the variant's deviation metadata.
type Executor struct {
	client  QuoteClient
	limiter *SlidingWindowLimiter
	logger  logger.Logger
}

func NewExecutor(client QuoteClient, limiter *SlidingWindowLimiter, log logger.Logger) *Executor {
	return &Executor{
		client:  client,
		limiter: limiter,
		logger:  log.WithFields(map[string]interface{}{"component": "executor"}),
	}
}

// Execute runs one upstream query for the variant. A failed query never
// propagates an error: it yields a single unavailable Rate so the caller
// keeps a complete picture of the grid. The rate limiter is recorded exactly
// once per variant regardless of internal retries.
func (e *Executor) Execute(ctx context.Context, in QuoteInput, v DimensionVariant) []Rate {
	defer e.limiter.Record()

	items, err := e.client.Calculate(ctx, melhorenvio.QuoteQuery{
		OriginCEP:      in.OriginCEP,
		DestinationCEP: in.DestinationCEP,
		Length:         v.Dimensions.Length,
		Width:          v.Dimensions.Width,
		Height:         v.Dimensions.Height,
		Weight:         in.Weight,
		InsuranceValue: in.InsuranceValue,
	})
	if err != nil {
		e.logger.Warn("variant query failed", map[string]interface{}{
			"deviation": v.Deviation,
			"error":     err.Error(),
		})
		return []Rate{{
			ID:             uuid.NewString(),
			ServiceName:    "Serviço",
			Carrier:        Carrier{Name: "Transportadora"},
			ErrorMessage:   err.Error(),
			Deviation:      v.Deviation,
			TotalSize:      v.Dimensions.Sum(),
			BaseDimensions: in.Dimensions,
		}}
	}

	rates := make([]Rate, 0, len(items))
	for _, item := range items {
		rates = append(rates, mapQuoteItem(item, in.Dimensions, v))
	}
	return rates
}

func mapQuoteItem(item melhorenvio.QuoteItem, base DimensionSet, v DimensionVariant) Rate {
	return Rate{
		ID:          item.ID,
		ServiceName: item.ServiceName,
		Carrier: Carrier{
			Name:    item.CarrierName,
			LogoURL: item.CarrierLogo,
		},
		Price:             item.Price,
		ErrorMessage:      item.ErrorMessage,
		Deviation:         v.Deviation,
		TotalSize:         v.Dimensions.Sum(),
		BaseDimensions:    base,
		DeliveryDays:      item.DeliveryDays,
		VolumeGainPercent: volumeGainPercent(base, v.Deviation),
	}
}

// volumeGainPercent is the percentage change in volume versus the
// unperturbed base box. Protection padding is excluded on purpose: it is
// applied to every variant equally and says nothing about the deviation.
func volumeGainPercent(base DimensionSet, d Deviation) float64 {
	baseVolume := base.Volume()
	if baseVolume <= 0 {
		return 0
	}
	newVolume := (base.Length + float64(d.Length)) *
		(base.Width + float64(d.Width)) *
		(base.Height + float64(d.Height))
	return (newVolume - baseVolume) / baseVolume * 100
}
