// Package runtime wires delivery: the subscription registry, the fanout
// worker and the background monitors, all under one supervisor.
// It contains no business rule.
package runtime

import (
	"cinechat/contract"
	"cinechat/runtime/workers"
	"cinechat/sink"
	"context"
	"log/slog"
	"sync"
	"time"
)

type Orchestrator struct {
	mu             sync.Mutex
	log            *slog.Logger
	supervisor     contract.ISupervisor
	registry       contract.IRegistry
	feed           contract.ChangeFeed
	queue          workers.DepthReader
	sinkTimeout    time.Duration
	metricInterval time.Duration
	started        bool
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor, registry contract.IRegistry,
	feed contract.ChangeFeed, queue workers.DepthReader, sinkTimeout, metricInterval time.Duration) *Orchestrator {
	return &Orchestrator{
		log:            log,
		supervisor:     supervisor,
		registry:       registry,
		feed:           feed,
		queue:          queue,
		sinkTimeout:    sinkTimeout,
		metricInterval: metricInterval,
	}
}

// Start registers the workers and blocks until the supervisor stops.
func (o *Orchestrator) Start(ctx context.Context) {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return
	}
	o.started = true
	o.supervisor.Add(
		workers.NewEventFanout(o.log, o.feed, o.registry, o.sinkTimeout, sink.NewAuditSink(o.log)),
		workers.NewQueueMonitor(o.log, o.queue, o.metricInterval),
	)
	o.mu.Unlock()

	o.log.Info("Starting orchestrator and all supervised workers")
	o.supervisor.Run(ctx)
}

// Stop cancels the supervised context.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}
