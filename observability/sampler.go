package observability

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Sampler is a supervised worker that periodically collects process
// self-stats (RSS, CPU, OS status) into the Manager.
type Sampler struct {
	log      *slog.Logger
	manager  *Manager
	interval time.Duration
}

func NewSampler(log *slog.Logger, manager *Manager, interval time.Duration) *Sampler {
	return &Sampler{log: log, manager: manager, interval: interval}
}

func (s *Sampler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			stats, err := selfStats(p)
			if err != nil {
				s.log.Error("failed to collect self stats", "error", err)
				continue
			}
			s.manager.SetProcessStats(stats)
		}
	}
}

func selfStats(p *process.Process) (ProcessStats, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return ProcessStats{}, err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return ProcessStats{}, err
	}

	status, err := p.Status()
	if err != nil {
		return ProcessStats{}, err
	}

	return ProcessStats{
		PID:        int(p.Pid),
		RSSBytes:   memInfo.RSS,
		CPUPercent: cpuPercent,
		Status:     status,
	}, nil
}
