package demo

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/systour/systour/extension"
	"github.com/systour/systour/internal/assert"
	"github.com/systour/systour/monitor"
	"github.com/systour/systour/sysinfo"
)

func testInfo() *sysinfo.Info {
	return &sysinfo.Info{
		CurrentWorkingDirectory: "/work",
		TotalMemory:             8 << 30,
		FreeMemory:              2 << 30,
		OSType:                  "Linux",
		OSRelease:               "6.1.0",
		Platform:                "linux",
		CurrentFilePath:         "/opt/systour/bin/systour.exe",
		Hostname:                "box",
		HomeDirectory:           "/home/student",
		TempDirectory:           "/tmp",
		CPUCores:                4,
		SystemUptime:            321,
		GoVersion:               "go1.24.0",
		PID:                     42,
	}
}

func testProcess() *sysinfo.ProcessInfo {
	return &sysinfo.ProcessInfo{
		Platform:  "linux",
		Cwd:       "/work",
		PID:       42,
		GoVersion: "go1.24.0",
		Memory:    sysinfo.MemoryUsage{RSS: 3 << 20, HeapTotal: 4096, HeapUsed: 2048, Stack: 512},
	}
}

func TestPath(t *testing.T) {
	var buf bytes.Buffer
	Path(&buf, "/opt/systour/bin/systour.exe")
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "=== Path Module Demo ===\n\n"), out)
	assert.Contains(t, out, "Current file name: systour.exe\n")
	assert.Contains(t, out, "Parent folder: /opt/systour/bin\n")
	assert.Contains(t, out, "File extension: .exe\n")
	assert.Contains(t, out, "Parsed object: { root: '/', dir: '/opt/systour/bin', base: 'systour.exe', ext: '.exe', name: 'systour' }\n")
	assert.Contains(t, out, "Joined path: /users/student/docs/notes.txt\n")
	assert.Contains(t, out, "File name without extension: systour\n")
	assert.Contains(t, out, "Test with .js file: script\n")
	assert.Contains(t, out, "Test with .txt file: document\n")
	assert.Contains(t, out, "Test with no extension: README\n")
}

func TestProcess(t *testing.T) {
	t.Setenv(EnvModeKey, "")

	var buf bytes.Buffer
	assert.NoError(t, Process(&buf, testProcess()))
	out := buf.String()

	assert.Contains(t, out, "Platform: linux\n")
	assert.Contains(t, out, "Memory usage: {\n  rss: 3145728,")
	assert.Contains(t, out, "New environment variable: development\n")
	assert.Contains(t, out, "=== Challenge: OS Check ===\nRunning on another OS!\n")
	assert.Equal(t, "development", os.Getenv(EnvModeKey))
}

func TestImport(t *testing.T) {
	var buf bytes.Buffer
	Import(&buf, testInfo())
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "=== Import Demo ===\n\n=== System Information ===\n"), out)
	assert.Contains(t, out, "Just the hostname: box\n")
	assert.Contains(t, out, "Just the CPU cores: 4\n")
	assert.Contains(t, out, "Memory usage percentage: 75.00%\n")
}

func TestExitAfter(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, ExitAfter(context.Background(), &buf, 10*time.Millisecond))
	assert.Equal(t, "\nProcess will exit in 0.01 seconds...\nExiting...\n", buf.String())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	buf.Reset()
	err := ExitAfter(ctx, &buf, time.Hour)
	assert.Equal(t, context.Canceled, err)
	assert.NotContains(t, buf.String(), "Exiting...")
}

func TestComplete(t *testing.T) {
	t.Setenv(EnvModeKey, "")

	samples := make(chan any, 2)
	ts := time.Date(2024, 10, 9, 9, 0, 1, 0, time.UTC)
	samples <- &monitor.Sample{Seq: 1, Timestamp: ts, Uptime: 10, Free: 1 << 20, UsedPercent: 50}
	samples <- &monitor.Sample{Seq: 2, Timestamp: ts.Add(time.Second), Uptime: 11, Free: 1 << 20, UsedPercent: 50}
	close(samples)

	var buf bytes.Buffer
	err := Complete(context.Background(), &buf, testInfo(), testProcess(), extension.NewChanSource(samples))
	assert.NoError(t, err)
	out := buf.String()

	assert.Contains(t, out, "OS Check: Running on another OS!\n")
	assert.Contains(t, out, "Total memory: 8192.00 MB\n")
	assert.Contains(t, out, "Used memory: 6144.00 MB\n")
	assert.Contains(t, out, "Used memory percentage: 75.00%\n")
	assert.Contains(t, out, "  Process memory (RSS): 3.00 MB\n")
	assert.Contains(t, out, "  Current directory: /opt/systour/bin\n")
	assert.Contains(t, out, "[09:00:01] Uptime: 10s | Free Memory: 1.00MB | Used: 50.00%\n")
	assert.Contains(t, out, "[09:00:02] Uptime: 11s | Free Memory: 1.00MB | Used: 50.00%\n")
	assert.Contains(t, out, "✅ === DEMO COMPLETE ===")
}

func TestComplete_Cancelled(t *testing.T) {
	t.Setenv(EnvModeKey, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	err := Complete(ctx, &buf, testInfo(), testProcess(), extension.NewChanSource(make(chan any)))
	assert.Equal(t, context.Canceled, err)
	assert.NotContains(t, buf.String(), "DEMO COMPLETE")
}
