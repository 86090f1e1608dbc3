package monitor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/systour/systour/flow"
	"github.com/systour/systour/internal/assert"
	"github.com/systour/systour/internal/sysmonitor"
)

type fixedSampler struct {
	percent float64
}

func (s *fixedSampler) Sample(time.Duration) float64 { return s.percent }
func (s *fixedSampler) Reset()                       {}
func (s *fixedSampler) IsInitialized() bool          { return true }

func testOpts(opts ...Opt) []Opt {
	return append([]Opt{
		WithMemoryReader(func() (sysmonitor.SystemMemory, error) {
			return sysmonitor.SystemMemory{Total: 4 << 30, Available: 1 << 30}, nil
		}),
		WithUptime(func(context.Context) (uint64, error) { return 99, nil }),
		WithHostname(func() (string, error) { return "box", nil }),
		WithSampler(&fixedSampler{percent: 12.5}),
	}, opts...)
}

func collect(m *Monitor) []*Sample {
	var samples []*Sample
	for e := range m.Out() {
		samples = append(samples, e.(*Sample))
	}
	return samples
}

func TestMonitor_MaxSamples(t *testing.T) {
	m := New(Config{Interval: 10 * time.Millisecond, MaxSamples: 3}, testOpts()...)
	defer m.Close()

	samples := collect(m)
	assert.Equal(t, 3, len(samples))
	for i, s := range samples {
		assert.Equal(t, i+1, s.Seq)
		assert.Equal(t, "box", s.Hostname)
		assert.Equal(t, uint64(99), s.Uptime)
		assert.Equal(t, uint64(1<<30), s.Free)
		assert.Equal(t, 75.0, s.UsedPercent)
		assert.Equal(t, 12.5, s.CPUPercent)
	}
	assert.Equal(t, 3, m.Last().Seq)
}

func TestMonitor_Duration(t *testing.T) {
	m := New(Config{Interval: 10 * time.Millisecond, Duration: 45 * time.Millisecond}, testOpts()...)
	assert.Equal(t, 4, len(collect(m)))

	m = New(Config{Interval: 10 * time.Millisecond, Duration: 45 * time.Millisecond, MaxSamples: 2},
		testOpts()...)
	assert.Equal(t, 2, len(collect(m)))
}

func TestMonitor_DurationNotMultipleOfInterval(t *testing.T) {
	start := time.Now()
	m := New(Config{Interval: 40 * time.Millisecond, Duration: 100 * time.Millisecond}, testOpts()...)

	assert.Equal(t, 2, len(collect(m)))
	elapsed := time.Since(start)
	assert.True(t, elapsed >= 100*time.Millisecond, "closed at the deadline, took "+elapsed.String())
}

func TestMonitor_SampleLimitBeforeDeadline(t *testing.T) {
	start := time.Now()
	m := New(Config{Interval: 5 * time.Millisecond, Duration: time.Minute, MaxSamples: 2}, testOpts()...)

	assert.Equal(t, 2, len(collect(m)))
	assert.True(t, time.Since(start) < time.Minute, "closed once the sample limit was reached")
}

func TestMonitor_DurationShorterThanInterval(t *testing.T) {
	start := time.Now()
	m := New(Config{Interval: time.Second, Duration: 20 * time.Millisecond}, testOpts()...)
	assert.Equal(t, 0, len(collect(m)))
	elapsed := time.Since(start)
	assert.True(t, elapsed < time.Second, "closed before the first tick")
	assert.True(t, elapsed >= 20*time.Millisecond, "closed at the deadline")
	assert.True(t, m.Last() == nil, "no sample taken")
}

func TestMonitor_Close(t *testing.T) {
	m := New(Config{Interval: 5 * time.Millisecond}, testOpts()...)
	<-m.Out()
	m.Close()
	m.Close()

	for range m.Out() {
	}
}

func TestMonitor_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := New(Config{Interval: 5 * time.Millisecond}, testOpts(WithContext(ctx))...)
	defer m.Close()

	<-m.Out()
	cancel()
	for range m.Out() {
	}
}

func TestMonitor_ReadFailures(t *testing.T) {
	m := New(Config{Interval: 5 * time.Millisecond, MaxSamples: 1}, testOpts(
		WithMemoryReader(func() (sysmonitor.SystemMemory, error) {
			return sysmonitor.SystemMemory{}, errors.New("no memory")
		}),
		WithSampler(&fixedSampler{percent: 400}),
	)...)

	samples := collect(m)
	assert.Equal(t, 1, len(samples))
	assert.Equal(t, uint64(0), samples[0].Total)
	assert.Equal(t, 0.0, samples[0].UsedPercent)
	assert.Equal(t, 100.0, samples[0].CPUPercent)
}

func TestMonitor_Via(t *testing.T) {
	m := New(Config{Interval: 5 * time.Millisecond, MaxSamples: 2}, testOpts()...)
	lines := m.Via(flow.NewMap(func(s *Sample) string {
		return FormatLine(s)
	}, 1))

	var got []string
	for e := range lines.Out() {
		got = append(got, e.(string))
	}
	assert.Equal(t, 2, len(got))
	assert.True(t, strings.HasSuffix(got[0], "Uptime: 99s | Free Memory: 1024.00MB | Used: 75.00%"), got[0])
}

func TestNew_InvalidConfig(t *testing.T) {
	assert.Panics(t, func() { New(Config{}) })
	assert.Panics(t, func() { New(Config{Interval: time.Second, MaxSamples: -1}) })
	assert.Panics(t, func() { New(Config{Interval: time.Second, Duration: -time.Second}) })
}
