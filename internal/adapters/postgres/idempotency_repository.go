package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/ports"
	"gorm.io/gorm"
)

const (
	idempotencyStatusReserved  = "reserved"
	idempotencyStatusCompleted = "completed"
)

type idempotencyRepository struct {
	db *gorm.DB
}

func (r *idempotencyRepository) Get(ctx context.Context, key string, now time.Time) (*ports.IdempotencyRecord, error) {
	var rec idempotencyModel
	if err := r.db.WithContext(ctx).Where("idempotency_key = ? AND expires_at > ?", key, now).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	out := &ports.IdempotencyRecord{
		Key: rec.IdempotencyKey, RequestHash: rec.RequestHash,
		ResponseCode: rec.ResponseCode, ExpiresAt: rec.ExpiresAt,
	}
	if rec.ResponseBody != nil {
		out.ResponseBody = []byte(*rec.ResponseBody)
	}
	return out, nil
}

type reserveAction int

const (
	reserveInsert reserveAction = iota
	reserveReplace
	reserveHeld
)

// planReserve decides what Reserve does with the row currently stored under
// the key. existing is nil when there is none.
func planReserve(existing *idempotencyModel, requestHash string, now time.Time) (reserveAction, error) {
	switch {
	case existing == nil:
		return reserveInsert, nil
	case !existing.ExpiresAt.After(now):
		return reserveReplace, nil
	case existing.RequestHash != requestHash:
		return reserveHeld, domain.ErrIdempotencyConflict
	default:
		return reserveHeld, nil
	}
}

// Reserve claims key for requestHash. An expired reservation is replaced.
func (r *idempotencyRepository) Reserve(ctx context.Context, key, requestHash string, expiresAt time.Time) (bool, error) {
	now := time.Now().UTC()
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing *idempotencyModel
		var row idempotencyModel
		err := tx.Where("idempotency_key = ?", key).Take(&row).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return err
		default:
			existing = &row
		}
		action, err := planReserve(existing, requestHash, now)
		if err != nil || action == reserveHeld {
			return err
		}
		if action == reserveReplace {
			if err := tx.Delete(&row).Error; err != nil {
				return err
			}
		}
		rec := idempotencyModel{
			IdempotencyKey: key,
			RequestHash:    requestHash,
			Status:         idempotencyStatusReserved,
			ExpiresAt:      expiresAt,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrIdempotencyConflict
			}
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// Release drops a reservation that never completed; completed keys stay.
func (r *idempotencyRepository) Release(ctx context.Context, key string) error {
	return reservedKeyQuery(r.db.WithContext(ctx), key).Delete(&idempotencyModel{}).Error
}

func reservedKeyQuery(db *gorm.DB, key string) *gorm.DB {
	return db.Where("idempotency_key = ? AND status = ?", key, idempotencyStatusReserved)
}

func (r *idempotencyRepository) Complete(ctx context.Context, key string, responseCode int, responseBody []byte, at time.Time) error {
	payload := string(responseBody)
	result := r.db.WithContext(ctx).Model(&idempotencyModel{}).
		Where("idempotency_key = ?", key).
		Updates(map[string]any{
			"status":        idempotencyStatusCompleted,
			"response_code": responseCode,
			"response_body": payload,
			"updated_at":    at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
