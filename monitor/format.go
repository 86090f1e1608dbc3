package monitor

import (
	"fmt"
	"strings"

	"github.com/systour/systour/sysinfo"
)

// FormatLine renders a sample as a single live-monitoring line.
func FormatLine(s *Sample) string {
	return fmt.Sprintf("[%s] Uptime: %ds | Free Memory: %sMB | Used: %s%%",
		s.Timestamp.Format("15:04:05"), s.Uptime,
		sysinfo.FormatMB(s.Free), sysinfo.FormatPercent(s.UsedPercent))
}

// FormatBlock renders a sample as a block closed by a "---" separator.
func FormatBlock(s *Sample) string {
	var sb strings.Builder
	fmt.Fprintln(&sb, "Hostname:", s.Hostname)
	fmt.Fprintln(&sb, "Free memory:", sysinfo.FormatMB(s.Free), "MB")
	fmt.Fprintln(&sb, "Total memory:", sysinfo.FormatMB(s.Total), "MB")
	fmt.Fprintln(&sb, "Used memory:", sysinfo.FormatPercent(s.UsedPercent)+"%")
	fmt.Fprintln(&sb, "System uptime:", s.Uptime, "seconds")
	sb.WriteString("---\n")
	return sb.String()
}

// Formatter returns the sample formatter for a config format name:
// "line" or "block".
func Formatter(format string) (func(*Sample) string, error) {
	switch format {
	case "line":
		return func(s *Sample) string { return FormatLine(s) + "\n" }, nil
	case "block":
		return FormatBlock, nil
	}
	return nil, fmt.Errorf("unknown monitor format: %q", format)
}
