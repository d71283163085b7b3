package worker

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/segmentio/kafka-go"

	"focusdock/internal/models"
	"focusdock/internal/queue"
	"focusdock/internal/repository"
	"focusdock/pkg/logger"
)

// Run starts the Kafka consumer: reads session commands and appends them to
// the durable session log. One consumer per process; scale by running more
// replicas (consumer group shares partitions).
func Run(ctx context.Context, store repository.SessionStore) {
	brokers := queue.Brokers()
	if len(brokers) == 0 {
		logger.Info(ctx, "Session worker disabled (no Kafka brokers)")
		return
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    queue.Topic(),
		GroupID:  "session-workers",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	var processed int64
	logger.Info(ctx, "Kafka consumer started", "topic", queue.Topic())
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error(ctx, "Worker fetch failed", "error", err)
			continue
		}
		if err := handleMessage(ctx, store, msg.Value); err != nil {
			logger.Error(ctx, "Worker handle failed", "error", err, "payload", string(msg.Value))
			// Commit anyway to avoid poison pill blocking the partition
			_ = reader.CommitMessages(ctx, msg)
			continue
		}
		if err := reader.CommitMessages(ctx, msg); err != nil {
			logger.Error(ctx, "Worker commit failed", "error", err)
		}
		atomic.AddInt64(&processed, 1)
	}
}

func handleMessage(ctx context.Context, store repository.SessionStore, payload []byte) error {
	var cmd models.SessionCommand
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return err
	}
	rec := &models.SessionRecord{
		ID:       cmd.ID,
		Type:     cmd.Type,
		Duration: cmd.Duration,
		Date:     cmd.Date,
		Time:     cmd.Time,
		OwnerID:  cmd.OwnerID,
	}
	return store.InsertSession(ctx, rec)
}
