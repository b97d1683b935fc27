package rates

import (
	"math"

	"shipping-optimizer/internal/melhorenvio"
)

// CostEntry is one carrier's operational surcharge. SamplePrice is a
// bootstrap-only observed price, never applied to rates.
type CostEntry struct {
	OperationalCost float64  `json:"operationalCost"`
	SamplePrice     *float64 `json:"samplePrice,omitempty"`
}

// CostTable maps carrier name to its surcharge entry.
type CostTable map[string]CostEntry

// ParseCostTable normalizes a loosely-typed cost mapping. Values may be raw
// numbers, numeric strings with comma decimals, or objects carrying an
// operationalCost field; anything unparseable defaults to zero.
func ParseCostTable(raw map[string]interface{}) CostTable {
	table := make(CostTable, len(raw))
	for carrier, value := range raw {
		table[carrier] = parseCostEntry(value)
	}
	return table
}

func parseCostEntry(value interface{}) CostEntry {
	switch v := value.(type) {
	case float64:
		return CostEntry{OperationalCost: v}
	case int:
		return CostEntry{OperationalCost: float64(v)}
	case string:
		if parsed, err := melhorenvio.ParseMoney(v); err == nil {
			return CostEntry{OperationalCost: parsed}
		}
		return CostEntry{}
	case map[string]interface{}:
		entry := parseCostEntry(v["operationalCost"])
		if sample, ok := v["samplePrice"]; ok {
			sampleEntry := parseCostEntry(sample)
			entry.SamplePrice = &sampleEntry.OperationalCost
		}
		return entry
	default:
		return CostEntry{}
	}
}

// ApplyOperationalCost adds the carrier's flat surcharge to the rate's price
// and rounds to two decimals. Unavailable rates are left untouched. The
// adjustment is single-application: calling it twice on the same rate
// double-charges.
func ApplyOperationalCost(r *Rate, table CostTable) {
	if r.Price == nil || len(table) == 0 {
		return
	}
	entry, ok := table[r.Carrier.Name]
	if !ok {
		return
	}
	adjusted := math.Round((*r.Price+entry.OperationalCost)*100) / 100
	r.Price = &adjusted
}
