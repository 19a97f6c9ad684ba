package ws

import (
	"testing"

	"globorelay/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestDispatcher_DeliversToEveryChannelOnce(t *testing.T) {
	r := NewRegistry()
	d := NewDispatcher(r)

	chans := []*fakeChannel{newFakeChannel("a"), newFakeChannel("b"), newFakeChannel("c")}
	for _, c := range chans {
		r.Register(c)
	}

	d.Broadcast(metrics.SourceTrigger, "hello")

	for _, c := range chans {
		assert.Equal(t, []Message{"hello"}, c.messages(), c.id)
	}
	assert.Equal(t, 3, r.Len())
}

func TestDispatcher_FailedChannelIsRemovedOthersStillDelivered(t *testing.T) {
	r := NewRegistry()
	d := NewDispatcher(r)

	a := newFakeChannel("a")
	b := newFakeChannel("b")
	b.sendErr = errPeerGone
	c := newFakeChannel("c")
	r.Register(a)
	r.Register(b)
	r.Register(c)

	failedBefore := testutil.ToFloat64(metrics.DeliveriesTotal.WithLabelValues(metrics.ResultFailed))

	d.Broadcast(metrics.SourceTrigger, "red")

	assert.ElementsMatch(t, []Channel{a, c}, r.Snapshot())
	assert.Equal(t, []Message{"red"}, a.messages())
	assert.Equal(t, []Message{"red"}, c.messages())
	assert.Empty(t, b.messages())
	assert.True(t, b.isClosed())
	assert.False(t, a.isClosed())
	assert.False(t, c.isClosed())

	failedAfter := testutil.ToFloat64(metrics.DeliveriesTotal.WithLabelValues(metrics.ResultFailed))
	assert.Equal(t, 1.0, failedAfter-failedBefore)
}

func TestDispatcher_PanickingChannelIsIsolated(t *testing.T) {
	r := NewRegistry()
	d := NewDispatcher(r)

	bad := newFakeChannel("bad")
	bad.panics = true
	good := newFakeChannel("good")
	r.Register(bad)
	r.Register(good)

	assert.NotPanics(t, func() { d.Broadcast(metrics.SourceWs, "x") })

	assert.Equal(t, []Channel{good}, r.Snapshot())
	assert.Equal(t, []Message{"x"}, good.messages())
	assert.True(t, bad.isClosed())
}

func TestDispatcher_EmptyRegistry(t *testing.T) {
	r := NewRegistry()
	d := NewDispatcher(r)

	assert.NotPanics(t, func() { d.Broadcast(metrics.SourceTrigger, "x") })
	assert.Equal(t, 0, r.Len())
}

func TestDispatcher_DeregisteredChannelIsNeverTargeted(t *testing.T) {
	r := NewRegistry()
	d := NewDispatcher(r)

	a := newFakeChannel("a")
	b := newFakeChannel("b")
	r.Register(a)
	r.Register(b)

	d.Broadcast(metrics.SourceWs, "first")
	r.Deregister(b)
	d.Broadcast(metrics.SourceWs, "second")

	assert.Equal(t, []Message{"first", "second"}, a.messages())
	assert.Equal(t, []Message{"first"}, b.messages())
}

func TestDispatcher_RelaysPayloadVerbatim(t *testing.T) {
	r := NewRegistry()
	d := NewDispatcher(r)
	a := newFakeChannel("a")
	r.Register(a)

	payloads := []Message{`{"r":255,"g":0,"b":0}`, "42,200,0", "", "héllo wörld"}
	for _, p := range payloads {
		d.Broadcast(metrics.SourceWs, p)
	}

	assert.Equal(t, payloads, a.messages())
}

func TestDispatcher_CountsBroadcastsBySource(t *testing.T) {
	d := NewDispatcher(NewRegistry())
	before := testutil.ToFloat64(metrics.BroadcastsTotal.WithLabelValues(metrics.SourceTrigger))

	d.Broadcast(metrics.SourceTrigger, "x")
	d.Broadcast(metrics.SourceTrigger, "y")

	after := testutil.ToFloat64(metrics.BroadcastsTotal.WithLabelValues(metrics.SourceTrigger))
	assert.Equal(t, 2.0, after-before)
}

func TestDispatcher_DropsInvalidUTF8(t *testing.T) {
	r := NewRegistry()
	d := NewDispatcher(r)
	a := newFakeChannel("a")
	r.Register(a)
	droppedBefore := testutil.ToFloat64(metrics.DroppedMessages.WithLabelValues(metrics.SourceWs))

	d.Broadcast(metrics.SourceWs, Message([]byte{0xff, 0xfe, 0x00}))

	assert.Empty(t, a.messages())
	assert.Equal(t, 1, r.Len())
	droppedAfter := testutil.ToFloat64(metrics.DroppedMessages.WithLabelValues(metrics.SourceWs))
	assert.Equal(t, 1.0, droppedAfter-droppedBefore)
}

func TestMessage_Valid(t *testing.T) {
	assert.True(t, Message("").Valid())
	assert.True(t, Message("héllo").Valid())
	assert.True(t, Message([]byte{0x00}).Valid())
	assert.False(t, Message([]byte{0xff, 0xfe, 0x00}).Valid())
}
