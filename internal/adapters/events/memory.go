package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/contracts"
)

type memoryRecord struct {
	topic string
	key   string
	value []byte
}

// MemoryConsumer serves seeded records in order, decoding them the way the
// Kafka consumer does. It backs the worker when no broker is configured.
// A nil routes map accepts any event type on any topic.
type MemoryConsumer struct {
	mu      sync.Mutex
	routes  map[string]string
	records []memoryRecord
}

func NewMemoryConsumer(routes map[string]string) *MemoryConsumer {
	return &MemoryConsumer{routes: routes}
}

// Seed queues envelopes keyed by their partition key.
func (c *MemoryConsumer) Seed(topic string, events ...contracts.EventEnvelope) error {
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		c.Append(topic, event.PartitionKey, payload)
	}
	return nil
}

// Append queues a raw record.
func (c *MemoryConsumer) Append(topic, key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, memoryRecord{topic: topic, key: key, value: value})
}

func (c *MemoryConsumer) Poll(_ context.Context, max int) ([]Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if max <= 0 || max > len(c.records) {
		max = len(c.records)
	}
	out := make([]Message, 0, max)
	for _, rec := range c.records[:max] {
		out = append(out, decodeRecord(rec.topic, rec.key, rec.value, c.routes[rec.topic]))
	}
	c.records = c.records[max:]
	return out, nil
}

// MemoryDLQ keeps dead-lettered records for inspection.
type MemoryDLQ struct {
	mu      sync.Mutex
	records []contracts.DLQRecord
}

func NewMemoryDLQ() *MemoryDLQ {
	return &MemoryDLQ{}
}

func (d *MemoryDLQ) PublishDLQ(_ context.Context, record contracts.DLQRecord) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records = append(d.records, record)
	return nil
}

func (d *MemoryDLQ) Records() []contracts.DLQRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]contracts.DLQRecord(nil), d.records...)
}
