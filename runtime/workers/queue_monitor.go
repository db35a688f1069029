package workers

import (
	"cinechat/observability"
	"context"
	"log/slog"
	"time"
)

// DepthReader is the part of the queue repository the monitor needs.
type DepthReader interface {
	Depth() (int, error)
}

// QueueMonitor samples the match queue depth into the prometheus gauge.
type QueueMonitor struct {
	log      *slog.Logger
	queue    DepthReader
	interval time.Duration
}

func NewQueueMonitor(log *slog.Logger, queue DepthReader, interval time.Duration) *QueueMonitor {
	return &QueueMonitor{log: log, queue: queue, interval: interval}
}

func (m *QueueMonitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Sample()
		}
	}
}

func (m *QueueMonitor) Sample() {
	depth, err := m.queue.Depth()
	if err != nil {
		m.log.Warn("Unable to read queue depth", "error", err)
		return
	}
	observability.QueueDepth.Set(float64(depth))
}
