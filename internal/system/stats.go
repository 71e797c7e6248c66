package system

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Stats is a snapshot of host and process resources for the run report.
type Stats struct {
	LogicalCPUs int
	MemTotal    uint64
	MemUsed     uint64
	ProcessRSS  uint64
}

// CollectStats queries the host and the current process.
func CollectStats() (Stats, error) {
	var s Stats

	cpus, err := cpu.Counts(true)
	if err != nil {
		return s, fmt.Errorf("cpu counts: %w", err)
	}
	s.LogicalCPUs = cpus

	vm, err := mem.VirtualMemory()
	if err != nil {
		return s, fmt.Errorf("virtual memory: %w", err)
	}
	s.MemTotal = vm.Total
	s.MemUsed = vm.Used

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return s, fmt.Errorf("process: %w", err)
	}
	info, err := proc.MemoryInfo()
	if err != nil {
		return s, fmt.Errorf("process memory: %w", err)
	}
	s.ProcessRSS = info.RSS

	return s, nil
}

func (s Stats) String() string {
	const mb = 1 << 20
	return fmt.Sprintf("CPUs: %d | RAM: %d/%d MB | RSS: %d MB",
		s.LogicalCPUs, s.MemUsed/mb, s.MemTotal/mb, s.ProcessRSS/mb)
}
