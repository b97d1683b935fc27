package rates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float64Ptr(v float64) *float64 { return &v }
func intPtr(v int) *int             { return &v }

func TestParseCostTable(t *testing.T) {
	raw := map[string]interface{}{
		"Jadlog":   12.5,
		"Correios": "7,30",
		"Azul": map[string]interface{}{
			"operationalCost": 3.0,
			"samplePrice":     25.9,
		},
		"Loggi":   "garbage",
		"Latam":   nil,
		"Buslog":  "1.234,56",
		"Kangu":   "10.50",
		"Sequoia": 4,
	}

	table := ParseCostTable(raw)
	require.Len(t, table, 8)

	assert.Equal(t, 12.5, table["Jadlog"].OperationalCost)
	assert.Equal(t, 7.3, table["Correios"].OperationalCost)
	assert.Equal(t, 3.0, table["Azul"].OperationalCost)
	require.NotNil(t, table["Azul"].SamplePrice)
	assert.Equal(t, 25.9, *table["Azul"].SamplePrice)
	assert.Equal(t, 0.0, table["Loggi"].OperationalCost)
	assert.Equal(t, 0.0, table["Latam"].OperationalCost)
	assert.Equal(t, 1234.56, table["Buslog"].OperationalCost)
	assert.Equal(t, 10.5, table["Kangu"].OperationalCost)
}

func TestApplyOperationalCost(t *testing.T) {
	table := CostTable{
		"Jadlog": {OperationalCost: 5.55},
	}

	t.Run("adds surcharge and rounds to cents", func(t *testing.T) {
		r := Rate{Carrier: Carrier{Name: "Jadlog"}, Price: float64Ptr(10.004)}
		ApplyOperationalCost(&r, table)
		require.NotNil(t, r.Price)
		assert.Equal(t, 15.55, *r.Price)
	})

	t.Run("unknown carrier is untouched", func(t *testing.T) {
		r := Rate{Carrier: Carrier{Name: "Correios"}, Price: float64Ptr(10)}
		ApplyOperationalCost(&r, table)
		assert.Equal(t, 10.0, *r.Price)
	})

	t.Run("unavailable rate is untouched", func(t *testing.T) {
		r := Rate{Carrier: Carrier{Name: "Jadlog"}, ErrorMessage: "no service"}
		ApplyOperationalCost(&r, table)
		assert.Nil(t, r.Price)
	})

	t.Run("empty table is a no-op", func(t *testing.T) {
		r := Rate{Carrier: Carrier{Name: "Jadlog"}, Price: float64Ptr(10)}
		ApplyOperationalCost(&r, CostTable{})
		assert.Equal(t, 10.0, *r.Price)
	})

	t.Run("second application double charges", func(t *testing.T) {
		r := Rate{Carrier: Carrier{Name: "Jadlog"}, Price: float64Ptr(10)}
		ApplyOperationalCost(&r, table)
		ApplyOperationalCost(&r, table)
		assert.Equal(t, 21.1, *r.Price)
	})
}
