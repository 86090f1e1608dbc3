// Package sysinfo collects host, process and path facts about the running
// program and prints them the way the tour's scripts do.
package sysinfo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"

	"github.com/systour/systour/internal/sysmonitor"
)

// Info is a snapshot of the system as seen by the current process.
type Info struct {
	CurrentWorkingDirectory string `json:"currentWorkingDirectory"`
	TotalMemory             uint64 `json:"totalMemory"`
	FreeMemory              uint64 `json:"freeMemory"`
	OSType                  string `json:"osType"`
	OSRelease               string `json:"osRelease"`
	Platform                string `json:"platform"`
	CurrentFilePath         string `json:"currentFilePath"`
	Hostname                string `json:"hostname"`
	HomeDirectory           string `json:"homeDirectory"`
	TempDirectory           string `json:"tempDirectory"`
	CPUCores                int    `json:"cpuCores"`
	SystemUptime            uint64 `json:"systemUptime"`
	GoVersion               string `json:"goVersion"`
	PID                     int    `json:"pid"`
}

// TotalMemoryMB returns total memory in mebibytes.
func (i *Info) TotalMemoryMB() float64 {
	return toMB(i.TotalMemory)
}

// FreeMemoryMB returns free memory in mebibytes.
func (i *Info) FreeMemoryMB() float64 {
	return toMB(i.FreeMemory)
}

// UsedMemory returns total minus free, never underflowing.
func (i *Info) UsedMemory() uint64 {
	return sysmonitor.SystemMemory{Total: i.TotalMemory, Available: i.FreeMemory}.Used()
}

// UsedMemoryPercent returns (total-free)/total*100, or 0 when total is unknown.
func (i *Info) UsedMemoryPercent() float64 {
	return sysmonitor.SystemMemory{Total: i.TotalMemory, Available: i.FreeMemory}.UsedPercent()
}

func toMB(bytes uint64) float64 {
	return float64(bytes) / 1024 / 1024
}

// FormatMB renders bytes as mebibytes with two decimals.
func FormatMB(bytes uint64) string {
	return fmt.Sprintf("%.2f", toMB(bytes))
}

// FormatPercent renders a percentage with two decimals.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.2f", p)
}

// PercentFromMB computes the used percentage from MB figures rounded to
// two decimals, as they appear in printed output.
func PercentFromMB(totalMB, freeMB float64) float64 {
	totalMB = math.Round(totalMB*100) / 100
	freeMB = math.Round(freeMB*100) / 100
	if totalMB == 0 {
		return 0
	}
	return (totalMB - freeMB) / totalMB * 100
}

// Collector gathers an Info. Every provider can be replaced, which is how
// tests pin the output.
type Collector struct {
	HostInfo   func(ctx context.Context) (*host.InfoStat, error)
	Memory     sysmonitor.MemoryReader
	CPUCount   func(ctx context.Context) (int, error)
	Executable func() (string, error)
	Getwd      func() (string, error)
	HomeDir    func() (string, error)
	TempDir    func() string
}

// NewCollector returns a Collector wired to the live system.
func NewCollector() *Collector {
	return &Collector{
		HostInfo: host.InfoWithContext,
		Memory:   sysmonitor.GetSystemMemory,
		CPUCount: func(ctx context.Context) (int, error) {
			return cpu.CountsWithContext(ctx, true)
		},
		Executable: os.Executable,
		Getwd:      os.Getwd,
		HomeDir:    os.UserHomeDir,
		TempDir:    os.TempDir,
	}
}

// Collect returns a best-effort Info. Facts that cannot be read are left
// at fallback values and reported in the joined error.
func (c *Collector) Collect(ctx context.Context) (*Info, error) {
	var errs []error
	info := &Info{
		Platform:      runtime.GOOS,
		OSType:        OSType(runtime.GOOS),
		GoVersion:     runtime.Version(),
		PID:           os.Getpid(),
		TempDirectory: c.TempDir(),
	}

	if hi, err := c.HostInfo(ctx); err != nil {
		errs = append(errs, fmt.Errorf("host info: %w", err))
		info.Hostname, _ = os.Hostname()
	} else {
		info.Hostname = hi.Hostname
		info.SystemUptime = hi.Uptime
		info.OSRelease = hi.KernelVersion
	}

	if m, err := c.Memory(); err != nil {
		errs = append(errs, fmt.Errorf("memory: %w", err))
	} else {
		info.TotalMemory = m.Total
		info.FreeMemory = m.Available
	}

	if n, err := c.CPUCount(ctx); err != nil || n <= 0 {
		if err != nil {
			errs = append(errs, fmt.Errorf("cpu count: %w", err))
		}
		info.CPUCores = runtime.NumCPU()
	} else {
		info.CPUCores = n
	}

	if exe, err := c.Executable(); err != nil {
		errs = append(errs, fmt.Errorf("executable: %w", err))
	} else {
		info.CurrentFilePath = exe
	}

	if wd, err := c.Getwd(); err != nil {
		errs = append(errs, fmt.Errorf("working directory: %w", err))
	} else {
		info.CurrentWorkingDirectory = wd
	}

	if home, err := c.HomeDir(); err != nil {
		errs = append(errs, fmt.Errorf("home directory: %w", err))
	} else {
		info.HomeDirectory = home
	}

	return info, errors.Join(errs...)
}

// OSType returns the kernel name for a GOOS value: Linux, Darwin,
// Windows_NT, and so on.
func OSType(goos string) string {
	switch goos {
	case "linux":
		return "Linux"
	case "darwin", "ios":
		return "Darwin"
	case "windows":
		return "Windows_NT"
	case "freebsd":
		return "FreeBSD"
	case "openbsd":
		return "OpenBSD"
	case "netbsd":
		return "NetBSD"
	case "aix":
		return "AIX"
	case "solaris", "illumos":
		return "SunOS"
	case "":
		return ""
	}
	return strings.ToUpper(goos[:1]) + goos[1:]
}
