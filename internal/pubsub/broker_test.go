package pubsub

import (
	"context"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/require"
)

func TestBroker_PublishSubscribe(t *testing.T) {
	t.Parallel()

	b := NewBroker[string]()
	defer b.Shutdown()

	ch := b.Subscribe(t.Context())
	b.Publish(UpdatedEvent, "Alice")

	ev := <-ch
	require.Equal(t, UpdatedEvent, ev.Type)
	require.Equal(t, "Alice", ev.Payload)
}

func TestBroker_DropsWhenFull(t *testing.T) {
	t.Parallel()

	b := NewBrokerWithBuffer[int](1)
	defer b.Shutdown()

	ch := b.Subscribe(t.Context())
	b.Publish(CreatedEvent, 1)
	b.Publish(CreatedEvent, 2)

	ev := <-ch
	require.Equal(t, 1, ev.Payload)
	select {
	case <-ch:
		t.Fatal("第二个事件应该被丢弃")
	default:
	}
}

func TestBroker_UnsubscribeOnCancel(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		b := NewBroker[int]()
		defer b.Shutdown()

		ctx, cancel := context.WithCancel(t.Context())
		ch := b.Subscribe(ctx)
		require.Equal(t, 1, b.SubscriberCount())

		cancel()
		synctest.Wait()

		require.Equal(t, 0, b.SubscriberCount())
		_, ok := <-ch
		require.False(t, ok)
	})
}

func TestBroker_ShutdownClosesSubscribers(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		b := NewBroker[int]()
		ch := b.Subscribe(t.Context())

		b.Shutdown()
		b.Shutdown()
		synctest.Wait()

		_, ok := <-ch
		require.False(t, ok)

		late := b.Subscribe(t.Context())
		_, ok = <-late
		require.False(t, ok)
	})
}
