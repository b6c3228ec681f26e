// File: internal/sysinfo/sysinfo.go

// Package sysinfo gathers the host and process figures shown on the health card.
package sysinfo

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/procfs"
)

const Unknown = "Unknown"

// Source is the subset of procfs.FS the collector reads
type Source interface {
	Meminfo() (procfs.Meminfo, error)
	CPUInfo() ([]procfs.CPUInfo, error)
	LoadAvg() (*procfs.LoadAvg, error)
}

type Memory struct {
	Total        string `json:"total"`
	Free         string `json:"free"`
	Used         string `json:"used"`
	UsagePercent string `json:"usagePercent"`
}

type CPU struct {
	Cores int    `json:"cores"`
	Model string `json:"model"`
	Speed string `json:"speed"`
}

type LoadAverage struct {
	One     string `json:"1min"`
	Five    string `json:"5min"`
	Fifteen string `json:"15min"`
}

type Host struct {
	Platform    string      `json:"platform"`
	Arch        string      `json:"arch"`
	GoVersion   string      `json:"goVersion"`
	Hostname    string      `json:"hostname"`
	Memory      Memory      `json:"memory"`
	CPU         CPU         `json:"cpu"`
	LoadAverage LoadAverage `json:"loadAverage"`
}

type ProcessMemory struct {
	Sys       string `json:"sys"`
	HeapAlloc string `json:"heapAlloc"`
	HeapSys   string `json:"heapSys"`
}

type Process struct {
	PID        int           `json:"pid"`
	Goroutines int           `json:"goroutines"`
	Memory     ProcessMemory `json:"memoryUsage"`
}

type Collector struct {
	source Source
	logger *slog.Logger
}

// Uses /proc when it is available. On other platforms the host figures are reported as Unknown
func NewCollector(logger *slog.Logger) *Collector {
	var source Source
	if fs, err := procfs.NewDefaultFS(); err == nil {
		source = fs
	} else {
		logger.Debug("procfs unavailable, host metrics will be reported as unknown", "error", err)
	}
	return NewCollectorWithSource(source, logger)
}

func NewCollectorWithSource(source Source, logger *slog.Logger) *Collector {
	return &Collector{
		source: source,
		logger: logger.With("component", "sysinfo"),
	}
}

func (c *Collector) Host() Host {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = Unknown
	}

	return Host{
		Platform:    runtime.GOOS,
		Arch:        runtime.GOARCH,
		GoVersion:   runtime.Version(),
		Hostname:    hostname,
		Memory:      c.memory(),
		CPU:         c.cpu(),
		LoadAverage: c.loadAverage(),
	}
}

func (c *Collector) Process() Process {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return Process{
		PID:        os.Getpid(),
		Goroutines: runtime.NumGoroutine(),
		Memory: ProcessMemory{
			Sys:       humanize.IBytes(m.Sys),
			HeapAlloc: humanize.IBytes(m.HeapAlloc),
			HeapSys:   humanize.IBytes(m.HeapSys),
		},
	}
}

func (c *Collector) memory() Memory {
	unknown := Memory{Total: Unknown, Free: Unknown, Used: Unknown, UsagePercent: Unknown}
	if c.source == nil {
		return unknown
	}

	info, err := c.source.Meminfo()
	if err != nil || info.MemTotal == nil || *info.MemTotal == 0 {
		c.logger.Debug("Could not read meminfo", "error", err)
		return unknown
	}

	// meminfo reports kB. MemAvailable is preferred since MemFree ignores reclaimable cache
	total := *info.MemTotal * 1024
	var free uint64
	switch {
	case info.MemAvailable != nil:
		free = *info.MemAvailable * 1024
	case info.MemFree != nil:
		free = *info.MemFree * 1024
	}
	if free > total {
		free = total
	}
	used := total - free

	return Memory{
		Total:        formatGB(total),
		Free:         formatGB(free),
		Used:         formatGB(used),
		UsagePercent: fmt.Sprintf("%.2f%%", float64(used)/float64(total)*100),
	}
}

func (c *Collector) cpu() CPU {
	cpu := CPU{Cores: runtime.NumCPU(), Model: Unknown, Speed: Unknown}
	if c.source == nil {
		return cpu
	}

	infos, err := c.source.CPUInfo()
	if err != nil || len(infos) == 0 {
		c.logger.Debug("Could not read cpuinfo", "error", err)
		return cpu
	}

	if infos[0].ModelName != "" {
		cpu.Model = infos[0].ModelName
	}
	if infos[0].CPUMHz > 0 {
		cpu.Speed = fmt.Sprintf("%.0f MHz", infos[0].CPUMHz)
	}
	return cpu
}

func (c *Collector) loadAverage() LoadAverage {
	unknown := LoadAverage{One: Unknown, Five: Unknown, Fifteen: Unknown}
	if c.source == nil {
		return unknown
	}

	load, err := c.source.LoadAvg()
	if err != nil || load == nil {
		c.logger.Debug("Could not read loadavg", "error", err)
		return unknown
	}

	return LoadAverage{
		One:     fmt.Sprintf("%.2f", load.Load1),
		Five:    fmt.Sprintf("%.2f", load.Load5),
		Fifteen: fmt.Sprintf("%.2f", load.Load15),
	}
}

func formatGB(bytes uint64) string {
	return fmt.Sprintf("%.2f GB", float64(bytes)/(1024*1024*1024))
}
