package archecs

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
)

type mtPosition struct{ X int }

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	m := &dto.Metric{}
	assert.NoError(t, g.Write(m))
	return m.GetGauge().GetValue()
}

func TestMetricsTrackEntitiesAndArchetypes(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	w := NewWorldWithOptions(WorldOptions{Metrics: metrics})

	e := w.Spawn()
	assert.Equal(t, 1.0, gaugeValue(t, metrics.EntityCount))

	assert.NoError(t, Set(w, e, mtPosition{X: 1}))
	assert.Greater(t, gaugeValue(t, metrics.ArchetypeCount), 0.0)
	assert.Greater(t, gaugeValue(t, metrics.ArchetypeGeneration), 0.0)

	assert.NoError(t, w.Despawn(e))
	assert.Equal(t, 0.0, gaugeValue(t, metrics.EntityCount))
}
