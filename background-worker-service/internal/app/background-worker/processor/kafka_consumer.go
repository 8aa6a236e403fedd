package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"feedbackhub/background-worker-service/internal/app/background-worker/entity"
	"feedbackhub/background-worker-service/internal/app/background-worker/service"
	"feedbackhub/pkg/logger"
	"feedbackhub/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

const serviceName = "background-worker-service"

// KafkaConsumer обрабатывает события из Kafka топика feedback_events
type KafkaConsumer struct {
	reader   *kafka.Reader
	eventSvc service.EventProcessingServiceInterface
	topic    string
	groupID  string
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewKafkaConsumer создает новый Kafka consumer
func NewKafkaConsumer(
	brokers []string,
	topic string,
	groupID string,
	eventSvc service.EventProcessingServiceInterface,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
		// Архив должен видеть все события, не только свежие
		StartOffset:    kafka.FirstOffset,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
	})

	return &KafkaConsumer{
		reader:   reader,
		eventSvc: eventSvc,
		topic:    topic,
		groupID:  groupID,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start запускает consumer в отдельной горутине
func (c *KafkaConsumer) Start(ctx context.Context) {
	logger.Info().Str("topic", c.topic).Str("group_id", c.groupID).Msg("Starting Kafka consumer")
	go c.consume(ctx)
}

// Stop останавливает consumer и дожидается завершения цикла чтения
func (c *KafkaConsumer) Stop() {
	logger.Info().Msg("Stopping Kafka consumer")
	close(c.stopChan)
	<-c.doneChan
	c.reader.Close()
	logger.Info().Msg("Kafka consumer stopped")
}

// consume читает и обрабатывает сообщения из Kafka
func (c *KafkaConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		default:
			readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			message, err := c.reader.FetchMessage(readCtx)
			cancel()

			if err != nil {
				if ctx.Err() != nil {
					return
				}
				// Таймаут fetch при пустом топике - штатная ситуация
				if readCtx.Err() != nil {
					continue
				}

				logger.Error().Err(err).Msg("Error fetching message")
				metrics.RecordKafkaError(serviceName, c.topic, "fetch")
				time.Sleep(time.Second)
				continue
			}

			if err := c.processMessage(ctx, message); err != nil {
				logger.Error().Err(err).
					Int64("offset", message.Offset).
					Int("partition", message.Partition).
					Msg("Error processing message")
				metrics.RecordKafkaError(serviceName, c.topic, "process")
				// Offset не коммитим - сообщение будет обработано повторно
			} else {
				metrics.RecordKafkaMessageConsumed(serviceName, c.topic, c.groupID)
				if err := c.reader.CommitMessages(ctx, message); err != nil {
					logger.Error().Err(err).Msg("Error committing message")
					metrics.RecordKafkaError(serviceName, c.topic, "commit")
				}
			}
		}
	}
}

// processMessage обрабатывает одно сообщение из Kafka
func (c *KafkaConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	var event entity.FeedbackEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal feedback event: %w", err)
	}

	logger.Debug().
		Str("event_type", event.EventType).
		Str("feedback_id", event.FeedbackID).
		Int64("offset", message.Offset).
		Int("partition", message.Partition).
		Msg("Received feedback event")

	if err := c.eventSvc.ProcessEvent(ctx, &event); err != nil {
		return fmt.Errorf("failed to process feedback event: %w", err)
	}

	return nil
}

// GetStats возвращает статистику consumer
func (c *KafkaConsumer) GetStats() kafka.ReaderStats {
	return c.reader.Stats()
}
