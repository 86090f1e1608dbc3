// Package demo prints the path, process, import and complete walkthroughs
// of the tour.
package demo

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/systour/systour"
	"github.com/systour/systour/monitor"
	"github.com/systour/systour/sysinfo"
)

// EnvModeKey is the environment variable set by the process walkthrough.
const EnvModeKey = "MY_APP_MODE"

// EnvMode sets MY_APP_MODE to "development" and returns the value read back.
func EnvMode() (string, error) {
	return sysinfo.SetEnv(EnvModeKey, "development")
}

// Path prints the path walkthrough for file.
func Path(w io.Writer, file string) {
	fmt.Fprint(w, "=== Path Module Demo ===\n\n")
	fmt.Fprintln(w, "Current file name:", sysinfo.Base(file))
	fmt.Fprintln(w, "Parent folder:", sysinfo.Dir(file))
	fmt.Fprintln(w, "File extension:", sysinfo.Ext(file))
	fmt.Fprintln(w, "Parsed object:", sysinfo.Parse(file))
	fmt.Fprintln(w, "Joined path:", sysinfo.Join("/users", "student", "docs", "notes.txt"))

	fmt.Fprintln(w, "\n=== Challenge: File name without extension ===")
	fmt.Fprintln(w, "File name without extension:", sysinfo.Stem(file))
	fmt.Fprintln(w, "Test with .js file:", sysinfo.Stem("script.js"))
	fmt.Fprintln(w, "Test with .txt file:", sysinfo.Stem("document.txt"))
	fmt.Fprintln(w, "Test with no extension:", sysinfo.Stem("README"))
}

// Process prints the process walkthrough and sets MY_APP_MODE.
func Process(w io.Writer, proc *sysinfo.ProcessInfo) error {
	fmt.Fprint(w, "=== Process Module Demo ===\n\n")
	fmt.Fprintln(w, "Platform:", proc.Platform)
	fmt.Fprintln(w, "Current working directory:", proc.Cwd)
	fmt.Fprintln(w, "Memory usage:", proc.Memory)

	mode, err := EnvMode()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "New environment variable:", mode)

	fmt.Fprintln(w, "\n=== Challenge: OS Check ===")
	fmt.Fprintln(w, sysinfo.CheckOS(proc.Platform))
	return nil
}

// Import prints the system information block followed by a few fields
// picked from the collected Info.
func Import(w io.Writer, info *sysinfo.Info) {
	fmt.Fprint(w, "=== Import Demo ===\n\n")
	sysinfo.Print(w, info)

	fmt.Fprintln(w, "\n=== Using getSystemInfo function ===")
	fmt.Fprintln(w, "Just the hostname:", info.Hostname)
	fmt.Fprintln(w, "Just the CPU cores:", info.CPUCores)
	fmt.Fprintln(w, "Memory usage percentage:",
		sysinfo.FormatPercent(sysinfo.PercentFromMB(info.TotalMemoryMB(), info.FreeMemoryMB()))+"%")
}

// ExitAfter announces the exit, waits d and prints "Exiting...". It returns
// ctx.Err() if ctx is done first.
func ExitAfter(ctx context.Context, w io.Writer, d time.Duration) error {
	fmt.Fprintf(w, "\nProcess will exit in %g seconds...\n", d.Seconds())

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		fmt.Fprintln(w, "Exiting...")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// roundMB rounds a mebibyte figure to two decimals.
func roundMB(mb float64) float64 {
	return math.Round(mb*100) / 100
}

// Complete prints every walkthrough section, then one line per monitor
// sample until samples closes, then the completion banner.
func Complete(ctx context.Context, w io.Writer, info *sysinfo.Info, proc *sysinfo.ProcessInfo,
	samples systour.Outlet) error {
	file := info.CurrentFilePath

	fmt.Fprint(w, "🚀 === COMPLETE GO CORE PACKAGES DEMO === 🚀\n\n")

	fmt.Fprintln(w, "📁 === PATH ===")
	fmt.Fprintln(w, "Current file name:", sysinfo.Base(file))
	fmt.Fprintln(w, "Parent folder:", sysinfo.Dir(file))
	fmt.Fprintln(w, "File extension:", sysinfo.Ext(file))
	fmt.Fprintln(w, "Parsed object:", sysinfo.Parse(file))
	fmt.Fprintln(w, "Joined path example:", sysinfo.Join("/users", "student", "docs", "notes.txt"))
	fmt.Fprintln(w, "File name without extension:", sysinfo.Stem(file))

	fmt.Fprintln(w, "\n⚙️ === PROCESS ===")
	fmt.Fprintln(w, "Platform:", proc.Platform)
	fmt.Fprintln(w, "Current working directory:", proc.Cwd)
	fmt.Fprintln(w, "Memory usage:", proc.Memory)
	mode, err := EnvMode()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "New environment variable:", mode)
	fmt.Fprintln(w, "OS Check:", sysinfo.CheckOS(proc.Platform))

	fmt.Fprintln(w, "\n💻 === OS ===")
	fmt.Fprintln(w, "Hostname:", info.Hostname)
	fmt.Fprintln(w, "Home directory:", info.HomeDirectory)
	fmt.Fprintln(w, "Temp directory:", info.TempDirectory)
	fmt.Fprintln(w, "System uptime:", info.SystemUptime, "seconds")
	fmt.Fprintln(w, "CPU cores:", info.CPUCores)

	totalMB := roundMB(info.TotalMemoryMB())
	freeMB := roundMB(info.FreeMemoryMB())
	usedPercent := sysinfo.FormatPercent(info.UsedMemoryPercent())
	fmt.Fprintf(w, "Total memory: %.2f MB\n", totalMB)
	fmt.Fprintf(w, "Free memory: %.2f MB\n", freeMB)
	fmt.Fprintf(w, "Used memory: %.2f MB\n", totalMB-freeMB)
	fmt.Fprintln(w, "Used memory percentage:", usedPercent+"%")

	fmt.Fprintln(w, "\n📊 === COMPLETE SYSTEM INFORMATION ===")
	fmt.Fprintln(w, "📁 File Information:")
	fmt.Fprintln(w, "  Current file:", file)
	fmt.Fprintln(w, "  File name:", sysinfo.Base(file))
	fmt.Fprintln(w, "  File extension:", sysinfo.Ext(file))
	fmt.Fprintln(w, "  Current directory:", sysinfo.Dir(file))

	fmt.Fprintln(w, "\n⚙️ Process Information:")
	fmt.Fprintln(w, "  Platform:", proc.Platform)
	fmt.Fprintln(w, "  Go version:", proc.GoVersion)
	fmt.Fprintln(w, "  Working directory:", proc.Cwd)
	fmt.Fprintln(w, "  Process memory (RSS):", sysinfo.FormatMB(proc.Memory.RSS), "MB")

	fmt.Fprintln(w, "\n💻 System Information:")
	fmt.Fprintln(w, "  Hostname:", info.Hostname)
	fmt.Fprintln(w, "  OS Type:", info.OSType)
	fmt.Fprintln(w, "  OS Release:", info.OSRelease)
	fmt.Fprintln(w, "  Home directory:", info.HomeDirectory)
	fmt.Fprintln(w, "  Temp directory:", info.TempDirectory)
	fmt.Fprintln(w, "  System uptime:", info.SystemUptime, "seconds")
	fmt.Fprintln(w, "  CPU cores:", info.CPUCores)

	fmt.Fprintln(w, "\n🧠 Memory Information:")
	fmt.Fprintln(w, "  Total memory:", sysinfo.FormatMB(info.TotalMemory), "MB")
	fmt.Fprintln(w, "  Free memory:", sysinfo.FormatMB(info.FreeMemory), "MB")
	fmt.Fprintln(w, "  Used memory:", sysinfo.FormatMB(info.UsedMemory()), "MB")
	fmt.Fprintln(w, "  Memory usage:", usedPercent+"%")

	fmt.Fprintln(w, "\n📈 === LIVE SYSTEM MONITORING ===")
	fmt.Fprint(w, "Monitoring system stats...\n\n")

	for {
		select {
		case e, ok := <-samples.Out():
			if !ok {
				fmt.Fprintln(w, "\n✅ === DEMO COMPLETE ===")
				fmt.Fprintln(w, "All core packages (path, process, os) have been demonstrated!")
				fmt.Fprintln(w, "🎉 Thanks for exploring the Go core packages!")
				return nil
			}
			if s, ok := e.(*monitor.Sample); ok {
				fmt.Fprintln(w, monitor.FormatLine(s))
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
