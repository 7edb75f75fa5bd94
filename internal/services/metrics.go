package services

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

type HostMetrics struct {
	CapturedAt        time.Time `json:"captured_at"`
	ProcessRSSBytes   int64     `json:"process_rss_bytes"`
	ProcessCPUPercent float64   `json:"process_cpu_percent"`
	Goroutines        int       `json:"goroutines"`
	MemoryTotalBytes  int64     `json:"memory_total_bytes"`
	MemoryUsedBytes   int64     `json:"memory_used_bytes"`
	DiskPath          string    `json:"disk_path"`
	DiskTotalBytes    int64     `json:"disk_total_bytes"`
	DiskUsedBytes     int64     `json:"disk_used_bytes"`
	SystemCPUPercent  float64   `json:"system_cpu_percent"`
}

// CaptureMetrics samples the current process and host. Probes that fail leave their
// fields zero; only a missing memory reading is an error.
func CaptureMetrics(ctx context.Context, diskPath string) (HostMetrics, error) {
	memStat, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return HostMetrics{}, WrapError(err, "read memory")
	}
	sample := HostMetrics{
		CapturedAt:       time.Now().UTC(),
		Goroutines:       runtime.NumGoroutine(),
		MemoryTotalBytes: int64(memStat.Total),
		MemoryUsedBytes:  int64(memStat.Total - memStat.Available),
		DiskPath:         diskPath,
	}
	diskStat, err := disk.UsageWithContext(ctx, diskPath)
	if err != nil {
		sample.DiskPath = "/"
		diskStat, err = disk.UsageWithContext(ctx, "/")
	}
	if err == nil {
		sample.DiskTotalBytes = int64(diskStat.Total)
		sample.DiskUsedBytes = int64(diskStat.Used)
	}
	if proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid())); err == nil {
		if rss, err := proc.MemoryInfoWithContext(ctx); err == nil && rss != nil {
			sample.ProcessRSSBytes = int64(rss.RSS)
		}
		if perc, err := proc.CPUPercentWithContext(ctx); err == nil {
			sample.ProcessCPUPercent = perc
		}
	}
	if sysCPU, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(sysCPU) > 0 {
		sample.SystemCPUPercent = sysCPU[0]
	}
	return sample, nil
}
