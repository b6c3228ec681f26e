package sysinfo

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/prometheus/procfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeSource struct {
	mem     procfs.Meminfo
	memErr  error
	cpus    []procfs.CPUInfo
	cpuErr  error
	load    *procfs.LoadAvg
	loadErr error
}

func (f fakeSource) Meminfo() (procfs.Meminfo, error)   { return f.mem, f.memErr }
func (f fakeSource) CPUInfo() ([]procfs.CPUInfo, error) { return f.cpus, f.cpuErr }
func (f fakeSource) LoadAvg() (*procfs.LoadAvg, error)  { return f.load, f.loadErr }

func u64(v uint64) *uint64 { return &v }

func TestHost(t *testing.T) {
	c := NewCollectorWithSource(fakeSource{
		mem: procfs.Meminfo{
			MemTotal:     u64(8 * 1024 * 1024), // 8 GiB in kB
			MemAvailable: u64(2 * 1024 * 1024),
		},
		cpus: []procfs.CPUInfo{{ModelName: "Intel(R) Xeon(R) Platinum 8259CL CPU @ 2.50GHz", CPUMHz: 2499.998}},
		load: &procfs.LoadAvg{Load1: 0.5, Load5: 0.25, Load15: 0.125},
	}, discard)

	host := c.Host()
	assert.Equal(t, runtime.GOOS, host.Platform)
	assert.Equal(t, runtime.GOARCH, host.Arch)
	assert.Equal(t, "8.00 GB", host.Memory.Total)
	assert.Equal(t, "2.00 GB", host.Memory.Free)
	assert.Equal(t, "6.00 GB", host.Memory.Used)
	assert.Equal(t, "75.00%", host.Memory.UsagePercent)
	assert.Equal(t, runtime.NumCPU(), host.CPU.Cores)
	assert.Equal(t, "Intel(R) Xeon(R) Platinum 8259CL CPU @ 2.50GHz", host.CPU.Model)
	assert.Equal(t, "2500 MHz", host.CPU.Speed)
	assert.Equal(t, LoadAverage{One: "0.50", Five: "0.25", Fifteen: "0.12"}, host.LoadAverage)
}

func TestHost_FallsBackToUnknown(t *testing.T) {
	boom := errors.New("no such file")

	for name, c := range map[string]*Collector{
		"no source":     NewCollectorWithSource(nil, discard),
		"source errors": NewCollectorWithSource(fakeSource{memErr: boom, cpuErr: boom, loadErr: boom}, discard),
	} {
		t.Run(name, func(t *testing.T) {
			host := c.Host()
			assert.Equal(t, Unknown, host.Memory.Total)
			assert.Equal(t, Unknown, host.Memory.UsagePercent)
			assert.Equal(t, Unknown, host.CPU.Model)
			assert.Equal(t, Unknown, host.CPU.Speed)
			assert.Equal(t, runtime.NumCPU(), host.CPU.Cores)
			assert.Equal(t, Unknown, host.LoadAverage.One)
		})
	}
}

func TestHost_FromProcFixture(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meminfo"), []byte(
		"MemTotal:        4194304 kB\nMemFree:         1048576 kB\nMemAvailable:    2097152 kB\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "loadavg"), []byte("1.50 0.75 0.10 2/345 6789\n"), 0644))

	fs, err := procfs.NewFS(dir)
	require.NoError(t, err)

	c := NewCollectorWithSource(fs, discard)
	host := c.Host()
	assert.Equal(t, "4.00 GB", host.Memory.Total)
	assert.Equal(t, "50.00%", host.Memory.UsagePercent)
	assert.Equal(t, "1.50", host.LoadAverage.One)
	assert.Equal(t, "0.10", host.LoadAverage.Fifteen)
}

func TestProcess(t *testing.T) {
	p := NewCollectorWithSource(nil, discard).Process()
	assert.Equal(t, os.Getpid(), p.PID)
	assert.Positive(t, p.Goroutines)
	assert.NotEmpty(t, p.Memory.HeapAlloc)
	assert.NotEmpty(t, p.Memory.Sys)
}
