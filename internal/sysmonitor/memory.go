package sysmonitor

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/pbnjay/memory"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/spf13/afero"
)

// SystemMemory represents system memory information in bytes.
type SystemMemory struct {
	Total     uint64
	Available uint64
}

// Used returns the number of bytes in use.
func (m SystemMemory) Used() uint64 {
	if m.Available > m.Total {
		return 0
	}
	return m.Total - m.Available
}

// UsedPercent returns (total-available)/total*100, or 0 for an empty total.
func (m SystemMemory) UsedPercent() float64 {
	if m.Total == 0 {
		return 0
	}
	return float64(m.Used()) / float64(m.Total) * 100
}

// MemoryReader is a function that reads system memory information.
type MemoryReader func() (SystemMemory, error)

var (
	memoryReader MemoryReader
	fileSystem   afero.Fs = afero.NewOsFs()
	// memoryReaderMu protects concurrent access to memoryReader and fileSystem
	memoryReaderMu sync.RWMutex
)

// GetSystemMemory returns the current system memory statistics.
// The environment (cgroup v2, v1, host) is detected on the first call and
// the matching reader is reused afterwards.
func GetSystemMemory() (SystemMemory, error) {
	memoryReaderMu.RLock()
	reader := memoryReader
	memoryReaderMu.RUnlock()

	if reader == nil {
		reader = readSystemMemoryAuto
	}
	return reader()
}

// readSystemMemoryAuto detects the environment once and "upgrades" the reader.
func readSystemMemoryAuto() (SystemMemory, error) {
	candidates := []MemoryReader{
		readCgroupV2Memory,
		readCgroupV1Memory,
		readHostMemory,
		readRuntimeMemory,
	}

	var errs []error
	for _, reader := range candidates {
		m, err := reader()
		if err == nil {
			memoryReaderMu.Lock()
			if memoryReader == nil {
				memoryReader = reader
			}
			memoryReaderMu.Unlock()
			return m, nil
		}
		errs = append(errs, err)
	}

	return SystemMemory{}, fmt.Errorf("failed to read system memory from all sources: %w",
		errors.Join(errs...))
}

func loadFileSystem() afero.Fs {
	memoryReaderMu.RLock()
	defer memoryReaderMu.RUnlock()
	return fileSystem
}

func readCgroupV2Memory() (SystemMemory, error) {
	return readCgroupV2MemoryWithFS(loadFileSystem())
}

func readCgroupV2MemoryWithFS(fs afero.Fs) (SystemMemory, error) {
	usage, err := readCgroupValueWithFS(fs, "/sys/fs/cgroup/memory.current")
	if err != nil {
		return SystemMemory{}, fmt.Errorf("failed to read cgroup v2 memory usage: %w", err)
	}

	limit, err := readCgroupValueWithFS(fs, "/sys/fs/cgroup/memory.max")
	if err != nil {
		return SystemMemory{}, fmt.Errorf("failed to read cgroup v2 memory limit: %w", err)
	}

	// reclaimable page cache counts as available
	inactiveFile, err := readCgroupStatWithFS(fs, "/sys/fs/cgroup/memory.stat", "inactive_file")
	if err != nil {
		inactiveFile = 0
	}

	return cgroupMemory(usage, limit, inactiveFile), nil
}

func readCgroupV1Memory() (SystemMemory, error) {
	return readCgroupV1MemoryWithFS(loadFileSystem())
}

func readCgroupV1MemoryWithFS(fs afero.Fs) (SystemMemory, error) {
	usage, err := readCgroupValueWithFS(fs, "/sys/fs/cgroup/memory/memory.usage_in_bytes")
	if err != nil {
		return SystemMemory{}, fmt.Errorf("failed to read cgroup v1 memory usage: %w", err)
	}

	limit, err := readCgroupValueWithFS(fs, "/sys/fs/cgroup/memory/memory.limit_in_bytes")
	if err != nil {
		return SystemMemory{}, fmt.Errorf("failed to read cgroup v1 memory limit: %w", err)
	}

	// v1 reports "unlimited" as a huge page-aligned number
	if limit > (1 << 60) {
		return SystemMemory{}, os.ErrNotExist
	}

	inactiveFile, _ := readCgroupStatWithFS(fs, "/sys/fs/cgroup/memory/memory.stat", "total_inactive_file")

	return cgroupMemory(usage, limit, inactiveFile), nil
}

// cgroupMemory computes Available = (limit - usage) + reclaimable, capped at limit.
func cgroupMemory(usage, limit, inactiveFile uint64) SystemMemory {
	var available uint64
	if usage > limit {
		available = inactiveFile
	} else {
		available = (limit - usage) + inactiveFile
	}

	if available > limit {
		available = limit
	}

	return SystemMemory{
		Total:     limit,
		Available: available,
	}
}

func readCgroupValueWithFS(fs afero.Fs, path string) (uint64, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return 0, err
	}
	str := strings.TrimSpace(string(data))
	if str == "max" {
		return 0, os.ErrNotExist
	}
	val, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse value %q from %s: %w", str, path, err)
	}
	return val, nil
}

func readCgroupStatWithFS(fs afero.Fs, path string, key string) (uint64, error) {
	f, err := fs.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := bytes.Fields(scanner.Bytes())
		if len(fields) >= 2 && string(fields[0]) == key {
			val, err := strconv.ParseUint(string(fields[1]), 10, 64)
			if err != nil {
				return 0, fmt.Errorf("failed to parse value for key %q in %s: %w", key, path, err)
			}
			return val, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("error reading %s: %w", path, err)
	}
	return 0, fmt.Errorf("key %q not found in %s", key, path)
}

// readHostMemory reads host-wide memory via gopsutil.
func readHostMemory() (SystemMemory, error) {
	v, err := mem.VirtualMemory()
	if err != nil {
		return SystemMemory{}, fmt.Errorf("failed to read host memory: %w", err)
	}
	return SystemMemory{
		Total:     v.Total,
		Available: v.Available,
	}, nil
}

// readRuntimeMemory is the last resort for platforms gopsutil cannot read.
func readRuntimeMemory() (SystemMemory, error) {
	total := memory.TotalMemory()
	if total == 0 {
		return SystemMemory{}, errors.New("memory monitoring not supported on this platform")
	}
	free := memory.FreeMemory()
	if free > total {
		free = total
	}
	return SystemMemory{
		Total:     total,
		Available: free,
	}, nil
}

// SetMemoryReader replaces the current memory reader (for testing).
// It returns a cleanup function to restore the previous reader.
func SetMemoryReader(reader MemoryReader) func() {
	memoryReaderMu.Lock()
	prev := memoryReader
	memoryReader = reader
	memoryReaderMu.Unlock()

	return func() {
		memoryReaderMu.Lock()
		memoryReader = prev
		memoryReaderMu.Unlock()
	}
}

// SetFileSystem replaces the filesystem cgroup files are read from (for
// testing). It returns a cleanup function to restore the previous one.
func SetFileSystem(fs afero.Fs) func() {
	memoryReaderMu.Lock()
	prev := fileSystem
	fileSystem = fs
	memoryReaderMu.Unlock()

	return func() {
		memoryReaderMu.Lock()
		fileSystem = prev
		memoryReaderMu.Unlock()
	}
}
