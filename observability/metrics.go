package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for MatchRequests.
const (
	OutcomeMatched   = "matched"
	OutcomeWaited    = "waited"
	OutcomeCancelled = "cancelled"
	OutcomeAbandoned = "abandoned"
	OutcomeFailed    = "failed"
)

var (
	MatchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinechat_match_requests_total",
		Help: "Match requests by outcome",
	}, []string{"outcome"})

	Pairings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinechat_pairings_total",
		Help: "Match rooms created by the queue",
	})

	// QueueDepth is sampled by the queue monitor worker.
	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cinechat_queue_depth",
		Help: "Users currently waiting in the match queue",
	})

	QueueConflictRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinechat_queue_conflict_retries_total",
		Help: "Queue transactions retried after a badger conflict",
	})

	MessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinechat_messages_sent_total",
		Help: "Messages committed, anonymous or named",
	}, []string{"visibility"})

	SendFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinechat_send_failures_total",
		Help: "Messages rejected by the store",
	})

	MessagesDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinechat_messages_delivered_total",
		Help: "Messages pushed to subscriptions",
	})

	ActiveSubscriptions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cinechat_active_subscriptions",
		Help: "Open room subscriptions",
	})

	SubscriptionOverflows = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinechat_subscription_overflows_total",
		Help: "Subscriptions closed because the consumer fell behind",
	})
)
