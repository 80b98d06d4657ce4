package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tejayenduri9/biryani-boys-backend/internal/orders"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/logger"
)

type stubInserter struct {
	rows [][]any
	err  error
}

func (s *stubInserter) InsertOrderEvents(ctx context.Context, rows []any) error {
	if s.err != nil {
		return s.err
	}
	s.rows = append(s.rows, rows)
	return nil
}

type stubStore struct {
	seen map[string]bool
	err  error
}

func (s *stubStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if s.seen == nil {
		s.seen = map[string]bool{}
	}
	if s.seen[key] {
		return false, nil
	}
	s.seen[key] = true
	return true, nil
}

func (s *stubStore) IdempotencyKey(consumer, eventID string) string {
	return "bb:idempotency:" + consumer + ":" + eventID
}

func testWorker(t *testing.T, ins *stubInserter, store *stubStore) *Worker {
	t.Helper()
	writer, err := NewWriter(ins)
	require.NoError(t, err)
	guard, err := NewGuard(store, "order-events", time.Hour)
	require.NoError(t, err)
	logg := logger.New(logger.Options{Level: zerolog.Disabled, Output: io.Discard})
	return &Worker{writer: writer, guard: guard, logg: logg}
}

func orderMessage(t *testing.T, event orders.OrderSubmittedEvent) *gcppubsub.Message {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return &gcppubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_id":   event.EventID,
			"event_type": orders.EventTypeOrderSubmitted,
		},
	}
}

func sampleEvent() orders.OrderSubmittedEvent {
	return orders.OrderSubmittedEvent{
		EventID:      "evt-1",
		UserID:       "u1",
		CustomerName: "Asha",
		DeliveryDay:  "Friday",
		DeliveryDate: "Jan 2, 2026",
		Items: []orders.EventItem{
			{Title: "Goat Biryani", Quantity: 2, UnitPrice: "12.99", Subtotal: "25.98"},
			{Title: "Chicken 65", Quantity: 1, UnitPrice: "9.49", Subtotal: "9.49"},
		},
		Total:       "35.47",
		SubmittedAt: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestProcessWritesOneRowPerLineItem(t *testing.T) {
	t.Parallel()

	ins := &stubInserter{}
	worker := testWorker(t, ins, &stubStore{})

	result := worker.process(context.Background(), orderMessage(t, sampleEvent()))

	assert.False(t, result.nack)
	require.Len(t, ins.rows, 1)
	require.Len(t, ins.rows[0], 2)
	first, ok := ins.rows[0][0].(orderEventRow)
	require.True(t, ok)
	assert.Equal(t, "Goat Biryani", first.MealTitle)
	assert.Equal(t, "35.47", first.OrderTotal)
}

func TestProcessSkipsDuplicateEvent(t *testing.T) {
	t.Parallel()

	ins := &stubInserter{}
	worker := testWorker(t, ins, &stubStore{})
	msg := orderMessage(t, sampleEvent())

	assert.False(t, worker.process(context.Background(), msg).nack)
	assert.False(t, worker.process(context.Background(), msg).nack)
	assert.Len(t, ins.rows, 1)
}

func TestProcessNacksOnWriteFailure(t *testing.T) {
	t.Parallel()

	ins := &stubInserter{err: errors.New("bigquery unavailable")}
	worker := testWorker(t, ins, &stubStore{})

	result := worker.process(context.Background(), orderMessage(t, sampleEvent()))
	assert.True(t, result.nack)
}

func TestProcessNacksOnGuardFailure(t *testing.T) {
	t.Parallel()

	ins := &stubInserter{}
	worker := testWorker(t, ins, &stubStore{err: errors.New("redis unavailable")})

	result := worker.process(context.Background(), orderMessage(t, sampleEvent()))
	assert.True(t, result.nack)
	assert.Empty(t, ins.rows)
}

func TestProcessDropsMalformedPayload(t *testing.T) {
	t.Parallel()

	ins := &stubInserter{}
	worker := testWorker(t, ins, &stubStore{})
	msg := &gcppubsub.Message{
		Data: []byte("{not json"),
		Attributes: map[string]string{
			"event_id":   "evt-bad",
			"event_type": orders.EventTypeOrderSubmitted,
		},
	}

	result := worker.process(context.Background(), msg)
	assert.False(t, result.nack)
	assert.Empty(t, ins.rows)
}

func TestProcessIgnoresForeignEventTypes(t *testing.T) {
	t.Parallel()

	ins := &stubInserter{}
	worker := testWorker(t, ins, &stubStore{})
	msg := &gcppubsub.Message{
		Data:       []byte(`{}`),
		Attributes: map[string]string{"event_type": "menu.updated"},
	}

	result := worker.process(context.Background(), msg)
	assert.False(t, result.nack)
	assert.Empty(t, ins.rows)
}

func TestWriterEmptyOrderStillWritesRow(t *testing.T) {
	t.Parallel()

	ins := &stubInserter{}
	writer, err := NewWriter(ins)
	require.NoError(t, err)

	event := sampleEvent()
	event.Items = nil
	require.NoError(t, writer.WriteOrderSubmitted(context.Background(), event))
	require.Len(t, ins.rows, 1)
	assert.Len(t, ins.rows[0], 1)
}
