package ports

import (
	"context"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/contracts"
)

type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
}

type DLQPublisher interface {
	PublishDLQ(ctx context.Context, record contracts.DLQRecord) error
}
