// Package monitor polls host memory, uptime and process CPU on a fixed
// interval and emits each reading as a stream element.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v4/host"

	"github.com/systour/systour"
	"github.com/systour/systour/flow"
	"github.com/systour/systour/internal/sysmonitor"
	"github.com/systour/systour/metrics"
)

// Sample is a single monitor reading.
type Sample struct {
	Seq         int       `json:"seq"`
	Timestamp   time.Time `json:"timestamp"`
	Hostname    string    `json:"hostname"`
	Uptime      uint64    `json:"uptime"`
	Total       uint64    `json:"total"`
	Free        uint64    `json:"free"`
	UsedPercent float64   `json:"usedPercent"`
	CPUPercent  float64   `json:"cpuPercent"`
	Goroutines  int       `json:"goroutines"`
}

// Config bounds a monitor run.
type Config struct {
	// Interval between samples. Must be positive.
	Interval time.Duration
	// MaxSamples stops the monitor after that many samples. Zero means unbounded.
	MaxSamples int
	// Duration stops the monitor once it has elapsed; the output closes at
	// the deadline, not at the last tick before it. A tick falling exactly
	// on the deadline is still sampled. Zero means unbounded.
	Duration time.Duration
}

// limit returns the number of samples the run may emit, 0 when unbounded,
// and whether the run then waits for Duration to elapse before closing.
func (c Config) limit() (n int, untilDeadline bool) {
	n = c.MaxSamples
	if c.Duration > 0 {
		byDuration := int(c.Duration / c.Interval)
		if n == 0 || byDuration <= n {
			return byDuration, true
		}
	}
	return n, false
}

// Opt configures a Monitor.
type Opt func(*Monitor)

// WithContext stops the monitor when ctx is done.
func WithContext(ctx context.Context) Opt {
	return func(m *Monitor) {
		m.ctx = ctx
	}
}

// WithLogger sets the logger used for read failures.
func WithLogger(logger *slog.Logger) Opt {
	return func(m *Monitor) {
		m.logger = logger
	}
}

// WithMemoryReader replaces the system memory reader.
func WithMemoryReader(reader sysmonitor.MemoryReader) Opt {
	return func(m *Monitor) {
		m.readMemory = reader
	}
}

// WithUptime replaces the host uptime reader.
func WithUptime(uptime func(context.Context) (uint64, error)) Opt {
	return func(m *Monitor) {
		m.readUptime = uptime
	}
}

// WithHostname replaces the hostname reader.
func WithHostname(hostname func() (string, error)) Opt {
	return func(m *Monitor) {
		m.readHostname = hostname
	}
}

// WithSampler replaces the process CPU sampler.
func WithSampler(sampler sysmonitor.ProcessCPUSampler) Opt {
	return func(m *Monitor) {
		m.sampler = sampler
	}
}

// Monitor is a Source of *Sample elements. The output channel closes when
// the sample limit is reached, the duration elapses, the context is
// cancelled, or Close is called.
type Monitor struct {
	cfg    Config
	ctx    context.Context
	logger *slog.Logger

	readMemory   sysmonitor.MemoryReader
	readUptime   func(context.Context) (uint64, error)
	readHostname func() (string, error)
	sampler      sysmonitor.ProcessCPUSampler

	last atomic.Pointer[Sample]
	out  chan any

	mu   sync.Mutex
	done chan struct{}
}

var _ systour.Source = (*Monitor)(nil)

// New starts a monitor. It panics if cfg.Interval is not positive or a
// limit is negative.
func New(cfg Config, opts ...Opt) *Monitor {
	if cfg.Interval <= 0 {
		panic(fmt.Sprintf("invalid monitor interval: %v", cfg.Interval))
	}
	if cfg.MaxSamples < 0 {
		panic(fmt.Sprintf("invalid monitor sample limit: %d", cfg.MaxSamples))
	}
	if cfg.Duration < 0 {
		panic(fmt.Sprintf("invalid monitor duration: %v", cfg.Duration))
	}

	m := &Monitor{
		cfg:          cfg,
		ctx:          context.Background(),
		logger:       slog.Default(),
		readMemory:   sysmonitor.GetSystemMemory,
		readUptime:   host.UptimeWithContext,
		readHostname: os.Hostname,
		out:          make(chan any),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.sampler == nil {
		m.sampler = sysmonitor.NewSampler()
	}
	m.sampler.Sample(cfg.Interval)

	go m.run()

	return m
}

// Out returns the output channel of the monitor.
func (m *Monitor) Out() <-chan any {
	return m.out
}

// Via asynchronously streams samples to the given Flow and returns it.
func (m *Monitor) Via(operator systour.Flow) systour.Flow {
	flow.DoStream(m, operator)
	return operator
}

// Last returns the most recent sample, or nil before the first tick.
func (m *Monitor) Last() *Sample {
	return m.last.Load()
}

// Close stops the monitor. It is safe to call more than once.
func (m *Monitor) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.done:
	default:
		close(m.done)
	}
}

func (m *Monitor) run() {
	defer close(m.out)

	deadline := time.Now().Add(m.cfg.Duration)
	limit, untilDeadline := m.cfg.limit()
	if untilDeadline && limit == 0 {
		// the duration ends before the first tick
		m.sleep(time.Until(deadline))
		return
	}

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for seq := 1; ; seq++ {
		select {
		case <-ticker.C:
		case <-m.done:
			return
		case <-m.ctx.Done():
			return
		}

		sample := m.collect(seq)
		m.last.Store(sample)
		metrics.ObserveSample(sample.Total, sample.Free, sample.UsedPercent,
			sample.CPUPercent, sample.Uptime)

		select {
		case m.out <- sample:
		case <-m.done:
			return
		case <-m.ctx.Done():
			return
		}

		if limit > 0 && seq >= limit {
			if untilDeadline {
				m.sleep(time.Until(deadline))
			}
			return
		}
	}
}

// sleep blocks for d or until the monitor is stopped.
func (m *Monitor) sleep(d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-m.done:
	case <-m.ctx.Done():
	}
}

func (m *Monitor) collect(seq int) *Sample {
	sample := &Sample{
		Seq:        seq,
		Timestamp:  time.Now(),
		CPUPercent: sysmonitor.ClampPercent(m.sampler.Sample(m.cfg.Interval)),
		Goroutines: runtime.NumGoroutine(),
	}

	if hostname, err := m.readHostname(); err != nil {
		m.logger.Warn("Failed to read hostname", slog.Any("error", err))
	} else {
		sample.Hostname = hostname
	}

	if uptime, err := m.readUptime(m.ctx); err != nil {
		m.logger.Warn("Failed to read uptime", slog.Any("error", err))
	} else {
		sample.Uptime = uptime
	}

	if mem, err := m.readMemory(); err != nil {
		m.logger.Warn("Failed to read system memory", slog.Any("error", err))
	} else {
		sample.Total = mem.Total
		sample.Free = min(mem.Available, mem.Total)
		sample.UsedPercent = sysmonitor.ClampPercent(mem.UsedPercent())
	}

	return sample
}
