package sysmonitor

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcessCPUSampler samples CPU usage of the current process. Values are
// normalized to 0-100% across all available cores.
type ProcessCPUSampler interface {
	// Sample returns CPU usage percentage since the last sample.
	// On first call, initializes state and returns 0.0. If elapsed time since
	// last sample is less than half of deltaTime, returns last known value.
	Sample(deltaTime time.Duration) float64

	// Reset clears sampler state. The next Sample call behaves as the first.
	Reset()

	// IsInitialized returns true if at least one sample has been taken.
	IsInitialized() bool
}

// ProcessSampler reads process CPU times through gopsutil.
type ProcessSampler struct {
	proc        *process.Process
	lastCPU     float64
	lastSample  time.Time
	lastPercent float64
}

var _ ProcessCPUSampler = (*ProcessSampler)(nil)

// NewProcessSampler creates a CPU sampler for the current process.
func NewProcessSampler() (*ProcessSampler, error) {
	pid := os.Getpid()
	if pid < 0 || pid > math.MaxInt32 {
		return nil, fmt.Errorf("invalid PID: %d", pid)
	}
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return nil, fmt.Errorf("failed to open process %d: %w", pid, err)
	}
	return &ProcessSampler{proc: proc}, nil
}

// Sample returns the CPU usage percentage since the last sample.
func (s *ProcessSampler) Sample(deltaTime time.Duration) float64 {
	times, err := s.proc.Times()
	if err != nil {
		return s.lastPercent
	}
	cpuSeconds := times.User + times.System

	now := time.Now()
	if s.lastSample.IsZero() {
		s.lastCPU = cpuSeconds
		s.lastSample = now
		s.lastPercent = 0
		return 0
	}

	elapsed := now.Sub(s.lastSample)
	if elapsed < deltaTime/2 || elapsed <= 0 {
		return s.lastPercent
	}

	numcpu := runtime.NumCPU()
	if numcpu <= 0 {
		numcpu = 1
	}
	percent := (cpuSeconds - s.lastCPU) / elapsed.Seconds() * 100 / float64(numcpu)

	s.lastCPU = cpuSeconds
	s.lastSample = now
	s.lastPercent = ClampPercent(percent)

	return s.lastPercent
}

// Reset clears sampler state for a new session.
func (s *ProcessSampler) Reset() {
	s.lastCPU = 0
	s.lastSample = time.Time{}
	s.lastPercent = 0
}

// IsInitialized returns true if at least one sample has been taken.
func (s *ProcessSampler) IsInitialized() bool {
	return !s.lastSample.IsZero()
}

const (
	heuristicBaselineCPU         = 10.0
	heuristicLinearScaleFactor   = 1.0
	heuristicLogScaleFactor      = 8.0
	heuristicMaxLinearGoroutines = 10
	heuristicMaxCPU              = 95.0
)

// GoroutineHeuristicSampler uses goroutine count as a CPU usage proxy.
// It is used where process CPU times cannot be read.
type GoroutineHeuristicSampler struct{}

var _ ProcessCPUSampler = (*GoroutineHeuristicSampler)(nil)

// NewGoroutineHeuristicSampler creates a new heuristic CPU sampler.
func NewGoroutineHeuristicSampler() ProcessCPUSampler {
	return &GoroutineHeuristicSampler{}
}

// Sample estimates CPU usage: linear up to ten goroutines, logarithmic
// above, capped at 95%.
func (s *GoroutineHeuristicSampler) Sample(_ time.Duration) float64 {
	n := float64(runtime.NumGoroutine())
	if n <= heuristicMaxLinearGoroutines {
		return heuristicBaselineCPU + n*heuristicLinearScaleFactor
	}
	return math.Min(heuristicBaselineCPU+math.Log(n)*heuristicLogScaleFactor, heuristicMaxCPU)
}

// Reset is a no-op; the heuristic keeps no state.
func (s *GoroutineHeuristicSampler) Reset() {}

// IsInitialized always returns true.
func (s *GoroutineHeuristicSampler) IsInitialized() bool {
	return true
}

// NewSampler returns the gopsutil process sampler, or the heuristic one if
// the process cannot be opened.
func NewSampler() ProcessCPUSampler {
	if sampler, err := NewProcessSampler(); err == nil {
		return sampler
	}
	return NewGoroutineHeuristicSampler()
}

// ClampPercent limits p to [0, 100], mapping NaN and infinities to 0.
func ClampPercent(p float64) float64 {
	switch {
	case math.IsNaN(p) || math.IsInf(p, 0) || p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
