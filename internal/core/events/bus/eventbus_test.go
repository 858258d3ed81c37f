package bus

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicPublishSubscribe(t *testing.T) {
	b := New()
	var got []any
	sub, err := b.Subscribe("motion.regime.changed", func(e Event) error {
		got = append(got, e.Data)
		return nil
	})
	require.NoError(t, err)
	_, err = uuid.Parse(sub.ID())
	assert.NoError(t, err)

	require.NoError(t, b.Publish(NewEvent("motion.regime.changed", "agent", 7)))
	require.NoError(t, b.Publish(NewEvent("other", "agent", 8)))
	assert.Equal(t, []any{7}, got)
}

func TestDeliveryOrderFollowsSubscription(t *testing.T) {
	b := New()
	var order []int
	for i := 0; i < 5; i++ {
		_, _ = b.Subscribe("e", func(Event) error { order = append(order, i); return nil })
	}
	_ = b.Publish(NewEvent("e", "t", nil))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestHandlerErrorsAreJoined(t *testing.T) {
	b := New()
	e1, e2 := errors.New("one"), errors.New("two")
	_, _ = b.Subscribe("x", func(Event) error { return e1 })
	_, _ = b.Subscribe("x", func(Event) error { return e2 })

	err := b.PublishBatch(NewEvent("x", "src", nil), NewEvent("x", "src", nil))
	assert.ErrorIs(t, err, e1)
	assert.ErrorIs(t, err, e2)

	m := b.GetMetrics()
	assert.Equal(t, uint64(2), m.Published)
	assert.Equal(t, uint64(4), m.DeliveredHandlers)
	assert.Equal(t, uint64(2), m.Errors)
	assert.Equal(t, uint64(2), m.SubscribersActive)
}

func TestCancelStopsDelivery(t *testing.T) {
	b := New()
	count := 0
	sub, _ := b.Subscribe("e", func(Event) error { count++; return nil })
	_ = b.Publish(NewEvent("e", "s", nil))
	require.NoError(t, b.Unsubscribe(sub))
	require.NoError(t, sub.Cancel())
	require.NoError(t, b.Unsubscribe(nil))
	_ = b.Publish(NewEvent("e", "s", nil))

	assert.Equal(t, 1, count)
	assert.False(t, sub.IsActive())
	assert.Equal(t, uint64(0), b.GetMetrics().SubscribersActive)
}

func TestNilHandler(t *testing.T) {
	_, err := New().Subscribe("e", nil)
	assert.ErrorIs(t, err, ErrNilHandler)
}

func TestConcurrentPublishers(t *testing.T) {
	b := New()
	var mu sync.Mutex
	count := 0
	_, _ = b.Subscribe("e", func(Event) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.Publish(NewEvent("e", "s", nil))
		}()
	}
	wg.Wait()
	assert.Equal(t, 32, count)
}
