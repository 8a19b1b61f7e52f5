package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
	"github.com/segmentio/kafka-go"
)

// KafkaConsumer reads upload announcements. routes maps each subscribed
// topic to the only event type it may carry.
type KafkaConsumer struct {
	reader *kafka.Reader
	routes map[string]string
}

func NewKafkaConsumer(brokers []string, groupID string, routes map[string]string) (*KafkaConsumer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka consumer requires at least one broker")
	}
	if groupID == "" {
		return nil, fmt.Errorf("kafka consumer requires group id")
	}
	topics, err := routedTopics(routes)
	if err != nil {
		return nil, err
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		GroupTopics: topics,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     500 * time.Millisecond,
	})
	return &KafkaConsumer{reader: reader, routes: routes}, nil
}

func (c *KafkaConsumer) Poll(ctx context.Context, max int) ([]Message, error) {
	if max <= 0 {
		max = 1
	}
	out := make([]Message, 0, max)
	for i := 0; i < max; i++ {
		readCtx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
		msg, err := c.reader.ReadMessage(readCtx)
		cancel()
		if err != nil {
			switch {
			case errors.Is(err, context.DeadlineExceeded):
				return out, nil
			case errors.Is(err, context.Canceled):
				return out, ctx.Err()
			default:
				return out, err
			}
		}
		out = append(out, decodeRecord(msg.Topic, string(msg.Key), msg.Value, c.routes[msg.Topic]))
	}
	return out, nil
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}

func routedTopics(routes map[string]string) ([]string, error) {
	if len(routes) == 0 {
		return nil, fmt.Errorf("kafka consumer requires at least one topic")
	}
	topics := make([]string, 0, len(routes))
	for topic, eventType := range routes {
		if topic == "" {
			return nil, fmt.Errorf("kafka consumer topic for %q is empty", eventType)
		}
		if !domain.IsSupportedInputEvent(eventType) {
			return nil, fmt.Errorf("kafka consumer cannot route %q from topic %q", eventType, topic)
		}
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics, nil
}

// decodeRecord maps one broker record onto its event envelope. expected is
// the event type routed to the topic; empty accepts any type. The record key
// must equal the envelope partition key so ordering follows the dataset.
func decodeRecord(topic, key string, value []byte, expected string) Message {
	msg := Message{Topic: topic, Key: key}
	if err := json.Unmarshal(value, &msg.Envelope); err != nil {
		msg.Err = fmt.Errorf("%w: decode envelope: %v", domain.ErrInvalidEnvelope, err)
		return msg
	}
	if expected != "" && msg.Envelope.EventType != expected {
		msg.Err = fmt.Errorf("%w: topic %q carries %s, got %q", domain.ErrInvalidEnvelope, topic, expected, msg.Envelope.EventType)
		return msg
	}
	if key != msg.Envelope.PartitionKey {
		msg.Err = fmt.Errorf("%w: record key %q does not match partition key %q", domain.ErrInvalidEnvelope, key, msg.Envelope.PartitionKey)
	}
	return msg
}
