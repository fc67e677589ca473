package preflight

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"

	"trainctl/pkg/logger"
)

// HostSnapshot describes the machine a training run is about to use.
type HostSnapshot struct {
	CPUs              int
	TotalMemoryMB     uint64
	AvailableMemoryMB uint64
}

// Inspect gathers the host snapshot. Memory detection failures degrade to
// zeros; preflight is advisory and must not block a run.
func Inspect() HostSnapshot {
	snap := HostSnapshot{CPUs: runtime.NumCPU()}
	v, err := mem.VirtualMemory()
	if err != nil {
		logger.Warn("failed to detect memory", zap.Error(err))
		return snap
	}
	snap.TotalMemoryMB = v.Total / 1024 / 1024
	snap.AvailableMemoryMB = v.Available / 1024 / 1024
	return snap
}

// Check logs the host snapshot and warns when available memory is below
// the configured floor. Never fails: training frameworks have their own
// OOM behaviour, the launcher only surfaces the risk up front.
func Check(minFreeMemoryMB uint64) HostSnapshot {
	snap := Inspect()
	logger.Info("host preflight",
		zap.Int("cpus", snap.CPUs),
		zap.Uint64("total_mem_mb", snap.TotalMemoryMB),
		zap.Uint64("available_mem_mb", snap.AvailableMemoryMB),
	)
	if minFreeMemoryMB > 0 && snap.AvailableMemoryMB < minFreeMemoryMB {
		logger.Warn("available memory below configured floor",
			zap.Uint64("available_mem_mb", snap.AvailableMemoryMB),
			zap.Uint64("floor_mb", minFreeMemoryMB),
		)
	}
	return snap
}
