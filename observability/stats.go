// Package observability collects process-level stats for the heartbeat
// worker and the stats endpoint.
package observability

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Stats is one snapshot of the process, OS view and Go runtime view combined.
type Stats struct {
	PID            int     `json:"pid"`
	Status         string  `json:"status"`
	CPUPercent     float64 `json:"cpuPercent"`
	RSSBytes       uint64  `json:"rssBytes"`
	Goroutines     int     `json:"goroutines"`
	HeapAllocBytes uint64  `json:"heapAllocBytes"`
	HeapSysBytes   uint64  `json:"heapSysBytes"`
	NumGC          uint32  `json:"numGC"`
	UptimeSeconds  int64   `json:"uptimeSeconds"`
}

// Collector reads self stats through gopsutil plus the Go runtime.
type Collector struct {
	proc      *process.Process
	startedAt time.Time
}

func NewCollector() (*Collector, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &Collector{proc: p, startedAt: time.Now()}, nil
}

// Snapshot gathers a stats sample. OS-level reads that fail leave their
// fields zeroed rather than failing the whole snapshot.
func (c *Collector) Snapshot() Stats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	s := Stats{
		PID:            os.Getpid(),
		Goroutines:     runtime.NumGoroutine(),
		HeapAllocBytes: mem.HeapAlloc,
		HeapSysBytes:   mem.HeapSys,
		NumGC:          mem.NumGC,
		UptimeSeconds:  int64(time.Since(c.startedAt).Seconds()),
	}
	if memInfo, err := c.proc.MemoryInfo(); err == nil {
		s.RSSBytes = memInfo.RSS
	}
	if cpu, err := c.proc.CPUPercent(); err == nil {
		s.CPUPercent = cpu
	}
	if status, err := c.proc.Status(); err == nil {
		s.Status = status
	}
	return s
}
