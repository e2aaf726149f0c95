package workers

import (
	"context"
	"log/slog"
	"time"

	"chat-relay/observability"
)

// HeartbeatWorker logs a process stats sample at a fixed interval, giving
// operators a pulse in the logs without scraping /statsz.
type HeartbeatWorker struct {
	log      *slog.Logger
	stats    *observability.Collector
	interval time.Duration
}

func NewHeartbeatWorker(log *slog.Logger, stats *observability.Collector, interval time.Duration) *HeartbeatWorker {
	return &HeartbeatWorker{log: log, stats: stats, interval: interval}
}

func (w *HeartbeatWorker) Run(ctx context.Context) error {
	w.log.Info("starting heartbeat worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s := w.stats.Snapshot()
			w.log.Info("heartbeat",
				"status", s.Status,
				"cpu_percent", s.CPUPercent,
				"rss_bytes", s.RSSBytes,
				"goroutines", s.Goroutines,
				"heap_alloc_bytes", s.HeapAllocBytes,
				"num_gc", s.NumGC,
				"uptime_s", s.UptimeSeconds,
			)
		}
	}
}
