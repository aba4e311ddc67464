package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event types published to the domain event stream.
const (
	EventAnswerCreated  = "answer_created"
	EventVoteCast       = "vote_cast"
	EventAnswerAccepted = "answer_accepted"
)

// Event is the envelope written to the stream for downstream consumers.
type Event struct {
	Type       string    `json:"type"`
	QuestionID uint      `json:"question_id"`
	AnswerID   *uint     `json:"answer_id,omitempty"`
	ActorID    uint      `json:"actor_id"`
	At         time.Time `json:"at"`
}

// Producer publishes domain events to Kafka. Delivery is best effort: a
// failed publish is logged and never fails the request that triggered it.
// A nil Producer is a no-op, so local setups can run without Kafka.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 {
		return nil
	}
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        true,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, event Event) {
	if p == nil {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal event", "type", event.Type, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(event.Type),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		slog.Error("Failed to publish event", "type", event.Type, "error", err)
	}
}

func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
