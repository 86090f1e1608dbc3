package sysinfo

import (
	"context"
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/systour/systour/internal/assert"
)

func TestReadProcess(t *testing.T) {
	pi, err := ReadProcess(context.Background())
	if err != nil && pi == nil {
		t.Fatalf("ReadProcess failed: %v", err)
	}
	assert.Equal(t, runtime.GOOS, pi.Platform)
	assert.Equal(t, os.Getpid(), pi.PID)
	assert.True(t, pi.Memory.HeapTotal >= pi.Memory.HeapUsed, "heap total covers heap used")
	assert.True(t, pi.Memory.HeapUsed > 0, "heap in use")
}

func TestMemoryUsage_String(t *testing.T) {
	s := MemoryUsage{RSS: 1, HeapTotal: 2, HeapUsed: 3, Stack: 4}.String()
	assert.True(t, strings.HasPrefix(s, "{\n  rss: 1,"), s)
	assert.Contains(t, s, "heapUsed: 3,")
	assert.True(t, strings.HasSuffix(s, "stack: 4\n}"), s)
}

func TestCheckOS(t *testing.T) {
	assert.Equal(t, "Running on Windows!", CheckOS("windows"))
	assert.Equal(t, "Running on another OS!", CheckOS("linux"))
	assert.True(t, !IsWindows("darwin"), "darwin is not windows")
}

func TestSetEnv(t *testing.T) {
	t.Setenv("SYSTOUR_TEST_MODE", "")
	v, err := SetEnv("SYSTOUR_TEST_MODE", "development")
	assert.NoError(t, err)
	assert.Equal(t, "development", v)
}
