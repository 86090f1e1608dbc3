package sysinfo

import (
	"context"
	"fmt"
	"math"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/process"
)

// MemoryUsage describes the memory held by the current process, in bytes.
type MemoryUsage struct {
	RSS       uint64 `json:"rss"`
	HeapTotal uint64 `json:"heapTotal"`
	HeapUsed  uint64 `json:"heapUsed"`
	Stack     uint64 `json:"stack"`
}

func (m MemoryUsage) String() string {
	return fmt.Sprintf("{\n  rss: %d,\n  heapTotal: %d,\n  heapUsed: %d,\n  stack: %d\n}",
		m.RSS, m.HeapTotal, m.HeapUsed, m.Stack)
}

// ProcessInfo describes the current process.
type ProcessInfo struct {
	Platform  string      `json:"platform"`
	Cwd       string      `json:"cwd"`
	PID       int         `json:"pid"`
	GoVersion string      `json:"goVersion"`
	Memory    MemoryUsage `json:"memory"`
}

// ReadProcess returns information about the current process. RSS is left
// at zero when the process table cannot be read.
func ReadProcess(ctx context.Context) (*ProcessInfo, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("working directory: %w", err)
	}
	pi := &ProcessInfo{
		Platform:  runtime.GOOS,
		Cwd:       cwd,
		PID:       os.Getpid(),
		GoVersion: runtime.Version(),
	}
	pi.Memory, err = ReadMemoryUsage(ctx)
	return pi, err
}

// ReadMemoryUsage reads resident set size through gopsutil and heap figures
// from the Go runtime.
func ReadMemoryUsage(ctx context.Context) (MemoryUsage, error) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	mu := MemoryUsage{
		HeapTotal: ms.HeapSys,
		HeapUsed:  ms.HeapAlloc,
		Stack:     ms.StackSys,
	}

	pid := os.Getpid()
	if pid < 0 || pid > math.MaxInt32 {
		return mu, fmt.Errorf("invalid PID: %d", pid)
	}
	proc, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return mu, fmt.Errorf("failed to open process %d: %w", pid, err)
	}
	mi, err := proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return mu, fmt.Errorf("memory info: %w", err)
	}
	mu.RSS = mi.RSS
	return mu, nil
}

// IsWindows reports whether platform names Windows.
func IsWindows(platform string) bool {
	return platform == "windows"
}

// CheckOS returns the OS check message for platform.
func CheckOS(platform string) string {
	if IsWindows(platform) {
		return "Running on Windows!"
	}
	return "Running on another OS!"
}

// SetEnv sets key in the process environment and returns the value read back.
func SetEnv(key, value string) (string, error) {
	if err := os.Setenv(key, value); err != nil {
		return "", fmt.Errorf("setenv %s: %w", key, err)
	}
	return os.Getenv(key), nil
}
