package restaurante_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dadosloja/restaurante"
)

func TestExportMetrics(t *testing.T) {
	story, err := restaurante.Compute(loadFixture(t))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "story.prom")

	require.NoError(t, restaurante.ExportMetrics(path, story))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(f)
	require.NoError(t, err)

	tests := map[string]struct {
		value  float64
		labels map[string]string
	}{
		"restaurante_best_seller_units":          {value: 6, labels: map[string]string{"product": "Refrigerante"}},
		"restaurante_gourmet_ticket_brl":         {value: 120, labels: map[string]string{"product": "Vinho Tinto"}},
		"restaurante_loyal_customer_orders":      {value: 3, labels: map[string]string{"customer_id": "1", "customer": "Ana Souza"}},
		"restaurante_one_time_customers":         {value: 2},
		"restaurante_customers_with_orders":      {value: 4},
		"restaurante_one_time_customers_percent": {value: 50},
		"restaurante_sale_records":               {value: 15},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			mf, ok := mfs[name]
			require.True(t, ok, "metric %s not exported", name)
			require.Len(t, mf.GetMetric(), 1)

			m := mf.GetMetric()[0]
			assert.InDelta(t, tc.value, m.GetGauge().GetValue(), 1e-9)

			got := map[string]string{}
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			if tc.labels == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tc.labels, got)
			}
		})
	}
}
