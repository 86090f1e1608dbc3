package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type activityStatus string

const (
	ActivityOk     activityStatus = "ok"
	ActivityFailed activityStatus = "failed"
)

var (
	memoryTotal       prometheus.Gauge
	memoryFree        prometheus.Gauge
	memoryUsedPercent prometheus.Gauge
	processCPUPercent prometheus.Gauge
	systemUptime      prometheus.Gauge
	monitorSamples    prometheus.Counter

	activitySummary *prometheus.SummaryVec
	paletteActions  *prometheus.CounterVec
)

func init() {
	// resource monitor samples
	memoryTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "systour_memory_total_bytes",
		Help: "Total memory visible to the process",
	})
	memoryFree = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "systour_memory_free_bytes",
		Help: "Available memory visible to the process",
	})
	memoryUsedPercent = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "systour_memory_used_percent",
		Help: "Used memory percentage, (total-free)/total*100",
	})
	processCPUPercent = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "systour_process_cpu_percent",
		Help: "Process CPU usage normalized across cores",
	})
	systemUptime = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "systour_system_uptime_seconds",
		Help: "Host uptime",
	})
	monitorSamples = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "systour_monitor_samples_total",
		Help: "Samples taken by the resource monitor",
	})

	// file activities
	// status="(ok|failed)"
	activitySummary = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "systour_activity_duration_seconds",
			Help:       "File activity run time",
			MaxAge:     time.Minute,
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"activity", "status"},
	)

	paletteActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "systour_palette_actions_total",
			Help: "Palette page interactions",
		},
		[]string{"action"},
	)

	prometheus.MustRegister(memoryTotal)
	prometheus.MustRegister(memoryFree)
	prometheus.MustRegister(memoryUsedPercent)
	prometheus.MustRegister(processCPUPercent)
	prometheus.MustRegister(systemUptime)
	prometheus.MustRegister(monitorSamples)
	prometheus.MustRegister(activitySummary)
	prometheus.MustRegister(paletteActions)
}

func ObserveSample(total, free uint64, usedPercent, cpuPercent float64, uptime uint64) {
	memoryTotal.Set(float64(total))
	memoryFree.Set(float64(free))
	memoryUsedPercent.Set(usedPercent)
	processCPUPercent.Set(cpuPercent)
	systemUptime.Set(float64(uptime))
	monitorSamples.Inc()
}

func ObserveActivity(activity string, status activityStatus, t time.Duration) {
	activitySummary.WithLabelValues(activity, string(status)).Observe(float64(t) / float64(time.Second))
}

func CountPaletteAction(action string) {
	paletteActions.WithLabelValues(action).Inc()
}
