package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/GoArmGo/RecipeApp/internal/messaging/payloads"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAcker struct {
	acked   int
	nacked  int
	requeue bool
}

func (a *fakeAcker) Ack(uint64, bool) error { a.acked++; return nil }

func (a *fakeAcker) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}

func (a *fakeAcker) Reject(uint64, bool) error { return nil }

func delivery(t *testing.T, acker *fakeAcker, body []byte, redelivered bool) amqp.Delivery {
	t.Helper()
	return amqp.Delivery{Acknowledger: acker, Body: body, Redelivered: redelivered}
}

func eventBody(t *testing.T) ([]byte, payloads.RecipeEvent) {
	t.Helper()
	ev := payloads.RecipeEvent{
		Type:       payloads.RecipeDeleted,
		RecipeID:   uuid.New(),
		UserID:     uuid.New(),
		ImageKey:   "recipes/a/b.png",
		OccurredAt: time.Now().UTC().Truncate(time.Second),
	}
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	return b, ev
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandleDelivery_Ack(t *testing.T) {
	body, want := eventBody(t)
	acker := &fakeAcker{}

	var got payloads.RecipeEvent
	handleDelivery(context.Background(), delivery(t, acker, body, false), func(_ context.Context, e payloads.RecipeEvent) error {
		got = e
		return nil
	}, discard())

	assert.Equal(t, 1, acker.acked)
	assert.Zero(t, acker.nacked)
	assert.Equal(t, want.RecipeID, got.RecipeID)
	assert.Equal(t, "recipes/a/b.png", got.ImageKey)
	assert.True(t, want.OccurredAt.Equal(got.OccurredAt))
}

func TestHandleDelivery_BadJSON(t *testing.T) {
	acker := &fakeAcker{}
	called := false

	handleDelivery(context.Background(), delivery(t, acker, []byte("{"), false), func(context.Context, payloads.RecipeEvent) error {
		called = true
		return nil
	}, discard())

	assert.False(t, called)
	assert.Equal(t, 1, acker.nacked)
	assert.False(t, acker.requeue)
}

func TestHandleDelivery_HandlerError(t *testing.T) {
	body, _ := eventBody(t)
	failing := func(context.Context, payloads.RecipeEvent) error { return errors.New("s3 down") }

	first := &fakeAcker{}
	handleDelivery(context.Background(), delivery(t, first, body, false), failing, discard())
	assert.Equal(t, 1, first.nacked)
	assert.True(t, first.requeue)

	second := &fakeAcker{}
	handleDelivery(context.Background(), delivery(t, second, body, true), failing, discard())
	assert.Equal(t, 1, second.nacked)
	assert.False(t, second.requeue)
}

func TestConsumeDeliveries_ChannelClosed(t *testing.T) {
	body, _ := eventBody(t)
	acker := &fakeAcker{}
	msgs := make(chan amqp.Delivery, 2)
	msgs <- delivery(t, acker, body, false)
	msgs <- delivery(t, acker, body, false)
	close(msgs)

	handled := 0
	err := consumeDeliveries(context.Background(), msgs, func(context.Context, payloads.RecipeEvent) error {
		handled++
		return nil
	}, discard())

	require.ErrorIs(t, err, ErrConsumerClosed)
	assert.Equal(t, 2, handled)
	assert.Equal(t, 2, acker.acked)
}

func TestConsumeDeliveries_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	msgs := make(chan amqp.Delivery)

	done := make(chan error, 1)
	go func() {
		done <- consumeDeliveries(ctx, msgs, func(context.Context, payloads.RecipeEvent) error { return nil }, discard())
	}()

	select {
	case err := <-done:
		t.Fatalf("consumer exited before cancel: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop after cancel")
	}
}
