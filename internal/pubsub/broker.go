package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	defaultChannelBufferSize = 64
	slowSubscriberTimeout    = 2 * time.Second
)

// Broker fans events out to every subscriber. A subscription ends when its
// context is done or the broker shuts down; either way the channel is closed.
type Broker[T any] struct {
	subs     map[chan Event[T]]context.CancelFunc
	mu       sync.RWMutex
	isClosed bool
}

func NewBroker[T any]() *Broker[T] {
	return &Broker[T]{
		subs: make(map[chan Event[T]]context.CancelFunc),
	}
}

func (b *Broker[T]) Shutdown() {
	b.mu.Lock()
	if b.isClosed {
		b.mu.Unlock()
		return
	}
	b.isClosed = true

	for ch, cancel := range b.subs {
		cancel()
		close(ch)
		delete(b.subs, ch)
	}
	b.mu.Unlock()
	slog.Debug("broker shut down", "payload", fmt.Sprintf("%T", *new(T)))
}

func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.isClosed {
		closed := make(chan Event[T])
		close(closed)
		return closed
	}

	subCtx, cancel := context.WithCancel(ctx)
	ch := make(chan Event[T], defaultChannelBufferSize)
	b.subs[ch] = cancel

	go func() {
		<-subCtx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[ch]; ok {
			close(ch)
			delete(b.subs, ch)
		}
	}()

	return ch
}

// Publish never blocks on a full subscriber: the send is retried on its own
// goroutine and dropped after slowSubscriberTimeout.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.isClosed {
		slog.Warn("publish on closed broker", "type", eventType, "payload", fmt.Sprintf("%T", payload))
		return
	}

	event := Event[T]{Type: eventType, Payload: payload}
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
			go b.sendSlow(ch, event)
		}
	}
}

func (b *Broker[T]) sendSlow(ch chan Event[T], event Event[T]) {
	b.mu.RLock()
	_, alive := b.subs[ch]
	b.mu.RUnlock()
	if !alive {
		return
	}

	defer func() {
		// the subscription may close while we wait
		_ = recover()
	}()
	select {
	case ch <- event:
	case <-time.After(slowSubscriberTimeout):
		slog.Warn("dropped event for slow subscriber", "type", event.Type)
	}
}

func (b *Broker[T]) GetSubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
