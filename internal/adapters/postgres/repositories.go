package postgres

import (
	"errors"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
	Datasets    ports.DatasetRepository
	Exports     ports.ExportRepository
	Idempotency ports.IdempotencyRepository
	EventDedup  ports.EventDedupRepository
	Outbox      ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Datasets:    &datasetRepository{db: db},
		Exports:     &exportRepository{db: db},
		Idempotency: &idempotencyRepository{db: db},
		EventDedup:  &eventDedupRepository{db: db},
		Outbox:      &outboxRepository{db: db},
	}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
