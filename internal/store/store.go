// Package store persists the carrier operational-cost table and the query
// history in Redis. Both are key-value blobs from the engine's point of
// view: the cost table is a hash read once per search, the history is a
// push-append list of completed search parameters.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shipping-optimizer/internal/common/logger"
	"shipping-optimizer/internal/rates"
)

const (
	costsKey   = "operational_costs"
	historyKey = "query_history"
)

// Prober issues the single exploratory quote used to bootstrap an empty
// cost table. Satisfied by *rates.Executor.
type Prober interface {
	Execute(ctx context.Context, in rates.QuoteInput, v rates.DimensionVariant) []rates.Rate
}

type Store struct {
	rdb    *redis.Client
	logger logger.Logger
}

func New(rdb *redis.Client, log logger.Logger) *Store {
	return &Store{
		rdb:    rdb,
		logger: log.WithFields(map[string]interface{}{"component": "store"}),
	}
}

// CostTable loads the carrier surcharge mapping. Hash values may be JSON
// entry objects or bare numeric strings left by older writers; both parse.
func (s *Store) CostTable(ctx context.Context) (rates.CostTable, error) {
	values, err := s.rdb.HGetAll(ctx, costsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("load cost table: %w", err)
	}

	raw := make(map[string]interface{}, len(values))
	for carrier, value := range values {
		var decoded interface{}
		if err := json.Unmarshal([]byte(value), &decoded); err != nil {
			// Not JSON: keep the raw string, the parser tolerates it.
			raw[carrier] = value
			continue
		}
		raw[carrier] = decoded
	}
	return rates.ParseCostTable(raw), nil
}

// SaveCostTable writes the full mapping, one hash field per carrier.
func (s *Store) SaveCostTable(ctx context.Context, table rates.CostTable) error {
	if len(table) == 0 {
		return nil
	}
	fields := make(map[string]interface{}, len(table))
	for carrier, entry := range table {
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal cost entry for %s: %w", carrier, err)
		}
		fields[carrier] = string(data)
	}
	if err := s.rdb.HSet(ctx, costsKey, fields).Err(); err != nil {
		return fmt.Errorf("save cost table: %w", err)
	}
	return nil
}

// Ensure returns the cost table, bootstrapping it when empty: one
// exploratory quote against a reference box seeds a zero-cost entry per
// responding carrier, keeping the observed price as samplePrice.
func (s *Store) Ensure(ctx context.Context, prober Prober, origin, destination string) (rates.CostTable, error) {
	table, err := s.CostTable(ctx)
	if err != nil {
		return nil, err
	}
	if len(table) > 0 {
		return table, nil
	}

	s.logger.Info("cost table empty, bootstrapping from exploratory quote", map[string]interface{}{
		"origin":      origin,
		"destination": destination,
	})

	probe := rates.QuoteInput{
		OriginCEP:      origin,
		DestinationCEP: destination,
		Dimensions:     rates.DimensionSet{Length: 20, Width: 20, Height: 20},
		Weight:         1,
		InsuranceValue: 50,
	}
	variant := rates.DimensionVariant{Dimensions: probe.Dimensions}

	table = make(rates.CostTable)
	for _, r := range prober.Execute(ctx, probe, variant) {
		if _, seen := table[r.Carrier.Name]; seen {
			continue
		}
		entry := rates.CostEntry{}
		if r.Price != nil {
			price := *r.Price
			entry.SamplePrice = &price
		}
		table[r.Carrier.Name] = entry
	}

	if len(table) == 0 {
		return table, nil
	}
	if err := s.SaveCostTable(ctx, table); err != nil {
		// Bootstrap data is still usable for this search.
		s.logger.Warn("failed to persist bootstrapped cost table", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return table, nil
}

// QueryRecord is one completed search, appended to the history list.
type QueryRecord struct {
	OriginCEP      string               `json:"originCep"`
	DestinationCEP string               `json:"destinationCep"`
	Dimensions     rates.DimensionSet   `json:"dimensions"`
	Weight         float64              `json:"weight"`
	InsuranceValue float64              `json:"insuranceValue"`
	DeviationRange rates.DeviationRange `json:"deviationRange"`
	CostTolerance  float64              `json:"costTolerance"`
	Note           string               `json:"note,omitempty"`
	Timestamp      time.Time            `json:"timestamp"`
}

// AppendQuery pushes one record onto the history list.
func (s *Store) AppendQuery(ctx context.Context, record QueryRecord) error {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal query record: %w", err)
	}
	if err := s.rdb.RPush(ctx, historyKey, data).Err(); err != nil {
		return fmt.Errorf("append query record: %w", err)
	}
	return nil
}

// RecentQueries returns up to n most recent records, newest first.
func (s *Store) RecentQueries(ctx context.Context, n int) ([]QueryRecord, error) {
	if n <= 0 {
		return nil, nil
	}
	values, err := s.rdb.LRange(ctx, historyKey, int64(-n), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load query history: %w", err)
	}

	records := make([]QueryRecord, 0, len(values))
	for i := len(values) - 1; i >= 0; i-- {
		var rec QueryRecord
		if err := json.Unmarshal([]byte(values[i]), &rec); err != nil {
			s.logger.Warn("skipping malformed history record", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
