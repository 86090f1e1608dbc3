package sysinfo

import (
	"fmt"
	"io"
)

// Print writes the system information block.
func Print(w io.Writer, info *Info) {
	fmt.Fprint(w, "=== System Information ===\n\n")
	fmt.Fprintln(w, "Current working directory:", info.CurrentWorkingDirectory)
	fmt.Fprintln(w, "Total memory:", FormatMB(info.TotalMemory), "MB")
	fmt.Fprintln(w, "Free memory:", FormatMB(info.FreeMemory), "MB")
	fmt.Fprintln(w, "OS type:", info.OSType)
	fmt.Fprintln(w, "Platform:", info.Platform)
	fmt.Fprintln(w, "Current file path:", info.CurrentFilePath)
	fmt.Fprintln(w, "Hostname:", info.Hostname)
	fmt.Fprintln(w, "Home directory:", info.HomeDirectory)
	fmt.Fprintln(w, "Temp directory:", info.TempDirectory)
	fmt.Fprintln(w, "CPU cores:", info.CPUCores)
	fmt.Fprintln(w, "System uptime:", info.SystemUptime, "seconds")
}
