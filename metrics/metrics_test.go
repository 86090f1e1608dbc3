package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/systour/systour/internal/assert"
)

func TestObserveSample(t *testing.T) {
	before := testutil.ToFloat64(monitorSamples)
	ObserveSample(1000, 250, 75, 12.5, 3600)

	assert.Equal(t, 1000.0, testutil.ToFloat64(memoryTotal))
	assert.Equal(t, 250.0, testutil.ToFloat64(memoryFree))
	assert.Equal(t, 75.0, testutil.ToFloat64(memoryUsedPercent))
	assert.Equal(t, 12.5, testutil.ToFloat64(processCPUPercent))
	assert.Equal(t, 3600.0, testutil.ToFloat64(systemUptime))
	assert.Equal(t, before+1, testutil.ToFloat64(monitorSamples))
}

func TestCountPaletteAction(t *testing.T) {
	before := testutil.ToFloat64(paletteActions.WithLabelValues("color"))
	CountPaletteAction("color")
	CountPaletteAction("color")
	assert.Equal(t, before+2, testutil.ToFloat64(paletteActions.WithLabelValues("color")))
}

func TestObserveActivity(t *testing.T) {
	ObserveActivity("hexdump", ActivityOk, 15*time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(activitySummary))
}
