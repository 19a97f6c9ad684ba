package ws

import (
	"errors"
	"sync"
)

var errPeerGone = errors.New("peer gone")

type fakeChannel struct {
	id      string
	sendErr error
	panics  bool

	mu       sync.Mutex
	received []Message
	closed   bool
}

func newFakeChannel(id string) *fakeChannel { return &fakeChannel{id: id} }

func (f *fakeChannel) ID() string { return f.id }

func (f *fakeChannel) Send(msg Message) error {
	if f.panics {
		panic("boom")
	}
	if f.sendErr != nil {
		return f.sendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.received = append(f.received, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeChannel) messages() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Message(nil), f.received...)
}

func (f *fakeChannel) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
