package ws

import (
	"fmt"

	"globorelay/internal/metrics"

	"go.uber.org/zap"
)

// Dispatcher fans one message out to every registered channel.
type Dispatcher struct {
	registry *Registry
}

func NewDispatcher(r *Registry) *Dispatcher { return &Dispatcher{registry: r} }

// Broadcast delivers msg to every channel registered at call time, at most once
// each. A channel whose send fails is deregistered and closed; the remaining
// channels are still attempted and the caller never sees the failure.
// A message that is not valid UTF-8 is dropped.
func (d *Dispatcher) Broadcast(source string, msg Message) {
	if !msg.Valid() {
		zap.L().Warn("ws.invalid_utf8_dropped", zap.String("source", source), zap.Int("bytes", len(msg)))
		metrics.DroppedMessages.WithLabelValues(source).Inc()
		return
	}
	metrics.BroadcastsTotal.WithLabelValues(source).Inc()

	// Do the I/O outside the registry lock
	conns := d.registry.Snapshot()

	var failed []Channel
	for _, c := range conns {
		if err := deliver(c, msg); err != nil {
			zap.L().Debug("ws.send_failed", zap.String("channel", c.ID()), zap.Error(err))
			metrics.DeliveriesTotal.WithLabelValues(metrics.ResultFailed).Inc()
			failed = append(failed, c)
			continue
		}
		metrics.DeliveriesTotal.WithLabelValues(metrics.ResultOK).Inc()
	}
	for _, c := range failed {
		d.registry.Deregister(c)
		_ = c.Close()
	}
}

// deliver turns a panicking Send into an ordinary failure.
func deliver(c Channel, msg Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("send panicked: %v", r)
		}
	}()
	return c.Send(msg)
}
