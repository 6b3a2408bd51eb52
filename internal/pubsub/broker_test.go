package pubsub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Title    string
	Selected int
}

func TestBrokerSubscribe(t *testing.T) {
	t.Parallel()

	t.Run("cancelled context unsubscribes", func(t *testing.T) {
		t.Parallel()
		broker := NewBroker[snapshot]()
		ctx, cancel := context.WithCancel(context.Background())

		ch := broker.Subscribe(ctx)
		require.NotNil(t, ch)
		assert.Equal(t, 1, broker.GetSubscriberCount())

		cancel()
		assert.Eventually(t, func() bool { return broker.GetSubscriberCount() == 0 }, time.Second, 5*time.Millisecond)
		_, ok := <-ch
		assert.False(t, ok)
	})

	t.Run("subscribe after shutdown returns a closed channel", func(t *testing.T) {
		t.Parallel()
		broker := NewBroker[snapshot]()
		broker.Shutdown()

		_, ok := <-broker.Subscribe(context.Background())
		assert.False(t, ok)
		assert.Equal(t, 0, broker.GetSubscriberCount())
	})
}

func TestBrokerPublish(t *testing.T) {
	t.Parallel()
	broker := NewBroker[snapshot]()
	ch := broker.Subscribe(t.Context())

	broker.Publish(EventTypeUpdated, snapshot{Title: "Line chart", Selected: 2})

	select {
	case event := <-ch:
		assert.Equal(t, EventTypeUpdated, event.Type)
		assert.Equal(t, snapshot{Title: "Line chart", Selected: 2}, event.Payload)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestBrokerPublishKeepsOrderForFastSubscriber(t *testing.T) {
	t.Parallel()
	broker := NewBroker[int]()
	ch := broker.Subscribe(t.Context())

	for i := range 10 {
		broker.Publish(EventTypeUpdated, i)
	}
	for i := range 10 {
		assert.Equal(t, i, (<-ch).Payload)
	}
}

func TestBrokerShutdown(t *testing.T) {
	t.Parallel()
	broker := NewBroker[snapshot]()

	ch1 := broker.Subscribe(context.Background())
	ch2 := broker.Subscribe(context.Background())
	assert.Equal(t, 2, broker.GetSubscriberCount())

	broker.Shutdown()
	broker.Shutdown()

	_, ok1 := <-ch1
	_, ok2 := <-ch2
	assert.False(t, ok1)
	assert.False(t, ok2)
	assert.Equal(t, 0, broker.GetSubscriberCount())

	// publishing after shutdown is dropped
	broker.Publish(EventTypeCreated, snapshot{})
}

func TestBrokerConcurrency(t *testing.T) {
	t.Parallel()
	broker := NewBroker[int]()

	const subscribers = 50
	var ready, done sync.WaitGroup
	ready.Add(subscribers)
	done.Add(subscribers)
	received := make(chan int, subscribers)

	for range subscribers {
		go func() {
			defer done.Done()
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			ch := broker.Subscribe(ctx)
			ready.Done()
			select {
			case event := <-ch:
				received <- event.Payload
			case <-time.After(time.Second):
				t.Error("timeout waiting for event")
			}
		}()
	}

	ready.Wait()
	broker.Publish(EventTypeCreated, 7)
	done.Wait()
	close(received)

	assert.Eventually(t, func() bool { return broker.GetSubscriberCount() == 0 }, time.Second, 5*time.Millisecond)
	count := 0
	for v := range received {
		assert.Equal(t, 7, v)
		count++
	}
	assert.Equal(t, subscribers, count)
}
