package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherInvokesSubscribersInOrder(t *testing.T) {
	d := NewInMemoryDispatcher()

	var seen []string
	d.Subscribe(EventTicketCreated, func(ctx context.Context, e Event) error {
		seen = append(seen, "first:"+e.TicketNumber)
		return nil
	})
	d.Subscribe(EventTicketCreated, func(ctx context.Context, e Event) error {
		seen = append(seen, "second:"+e.TicketNumber)
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketCreated, TicketNumber: "TKT-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first:TKT-1", "second:TKT-1"}, seen)
}

func TestDispatcherContinuesPastFailingHandler(t *testing.T) {
	d := NewInMemoryDispatcher()

	handlerErr := errors.New("audit write failed")
	var secondRan bool
	d.Subscribe(EventQueryProcessed, func(ctx context.Context, e Event) error {
		return handlerErr
	})
	d.Subscribe(EventQueryProcessed, func(ctx context.Context, e Event) error {
		secondRan = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventQueryProcessed})
	assert.ErrorIs(t, err, handlerErr)
	assert.True(t, secondRan)
}

func TestDispatcherIgnoresUnsubscribedTypes(t *testing.T) {
	d := NewInMemoryDispatcher()
	err := d.Publish(context.Background(), Event{Type: EventNotificationResult})
	assert.NoError(t, err)
}
