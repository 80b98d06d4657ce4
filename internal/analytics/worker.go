package analytics

import (
	"context"
	"encoding/json"
	"errors"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/Tejayenduri9/biryani-boys-backend/internal/orders"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/logger"
)

// Worker consumes order events from Pub/Sub and records them in BigQuery.
type Worker struct {
	subscription *gcppubsub.Subscriber
	writer       *Writer
	guard        *Guard
	logg         *logger.Logger
}

// NewWorker builds the order-events consumer.
func NewWorker(subscription *gcppubsub.Subscriber, writer *Writer, guard *Guard, logg *logger.Logger) (*Worker, error) {
	if subscription == nil {
		return nil, errors.New("orders subscription is required")
	}
	if writer == nil {
		return nil, errors.New("analytics writer is required")
	}
	if guard == nil {
		return nil, errors.New("idempotency guard is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Worker{
		subscription: subscription,
		writer:       writer,
		guard:        guard,
		logg:         logg,
	}, nil
}

type processResult struct {
	nack bool
}

// Run consumes messages until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	return w.subscription.Receive(ctx, func(innerCtx context.Context, msg *gcppubsub.Message) {
		if w.process(innerCtx, msg).nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

func (w *Worker) process(ctx context.Context, msg *gcppubsub.Message) processResult {
	fields := map[string]any{
		"message_id": msg.ID,
		"event_id":   msg.Attributes["event_id"],
		"event_type": msg.Attributes["event_type"],
	}
	logCtx := w.logg.WithFields(ctx, fields)

	if msg.Attributes["event_type"] != orders.EventTypeOrderSubmitted {
		w.logg.Warn(logCtx, "skipping unknown event type")
		return processResult{}
	}

	var event orders.OrderSubmittedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		// Malformed payloads never become valid on retry.
		w.logg.Warn(logCtx, "dropping undecodable order event")
		return processResult{}
	}
	if event.EventID == "" {
		event.EventID = msg.Attributes["event_id"]
	}
	if event.EventID == "" {
		w.logg.Warn(logCtx, "dropping order event without id")
		return processResult{}
	}

	already, err := w.guard.CheckAndMark(logCtx, event.EventID)
	if err != nil {
		w.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		w.logg.Info(logCtx, "order event already recorded")
		return processResult{}
	}

	if err := w.writer.WriteOrderSubmitted(logCtx, event); err != nil {
		w.logg.Error(logCtx, "writing order event", err)
		return processResult{nack: true}
	}

	w.logg.Info(logCtx, "order event recorded")
	return processResult{}
}
