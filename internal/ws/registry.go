package ws

import (
	"sync"

	"globorelay/internal/metrics"
)

// Registry is the set of currently reachable channels.
type Registry struct {
	mu    sync.RWMutex
	conns map[Channel]struct{}
}

func NewRegistry() *Registry { return &Registry{conns: map[Channel]struct{}{}} }

// Register adds c. Registering a channel twice keeps a single entry.
func (r *Registry) Register(c Channel) {
	r.mu.Lock()
	r.conns[c] = struct{}{}
	metrics.ConnectedChannels.Set(float64(len(r.conns)))
	r.mu.Unlock()
}

// Deregister removes c. Unknown channels are ignored.
func (r *Registry) Deregister(c Channel) {
	r.mu.Lock()
	delete(r.conns, c)
	metrics.ConnectedChannels.Set(float64(len(r.conns)))
	r.mu.Unlock()
}

// Snapshot returns a copy of the current members; callers may iterate it while
// other goroutines register or deregister.
func (r *Registry) Snapshot() []Channel {
	r.mu.RLock()
	conns := make([]Channel, 0, len(r.conns))
	for c := range r.conns {
		conns = append(conns, c)
	}
	r.mu.RUnlock()
	return conns
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
