package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Broadcast sources.
const (
	SourceWs      = "ws"
	SourceTrigger = "trigger"
)

// Delivery results.
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)

var (
	// ConnectedChannels tracks currently registered websocket channels
	ConnectedChannels = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_connected_channels",
			Help: "Number of currently registered websocket channels",
		},
	)

	// BroadcastsTotal counts broadcast calls by what triggered them
	BroadcastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_broadcasts_total",
			Help: "Total broadcasts by source",
		},
		[]string{"source"},
	)

	// DeliveriesTotal counts per-channel send attempts by result
	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_deliveries_total",
			Help: "Total per-channel deliveries by result",
		},
		[]string{"result"},
	)

	// TriggerRejections counts trigger requests refused by the rate limiter
	TriggerRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_trigger_rate_limited_total",
			Help: "Total broadcast trigger requests rejected by the rate limiter",
		},
	)

	// DroppedMessages counts payloads refused before fan-out by source
	DroppedMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_dropped_messages_total",
			Help: "Total messages dropped before broadcast because they are not valid UTF-8",
		},
		[]string{"source"},
	)
)
