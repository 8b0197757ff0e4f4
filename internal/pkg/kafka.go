package pkg

import (
	"context"
	"strconv"

	"github.com/segmentio/kafka-go"
)

// DefaultEngagementTopic carries like/unlike and follow/unfollow events.
const DefaultEngagementTopic = "forum.engagement"

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// EventProducer publishes engagement events. Keys are the actor id so all
// events of one user land on the same partition, in order.
type EventProducer struct {
	writer *kafka.Writer
}

func NewEventProducer(cfg KafkaConfig) *EventProducer {
	topic := cfg.Topic
	if topic == "" {
		topic = DefaultEngagementTopic
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return &EventProducer{writer: w}
}

func (p *EventProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *EventProducer) Publish(ctx context.Context, actorID uint64, payload []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(actorID, 10)),
		Value: payload,
	})
}
