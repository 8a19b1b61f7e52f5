package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// eventDedupRepository remembers consumed upload events until their
// retention ends; the consumer worker purges expired marks periodically.
type eventDedupRepository struct {
	db *gorm.DB
}

func (r *eventDedupRepository) IsDuplicate(ctx context.Context, eventID string, now time.Time) (bool, error) {
	var row eventDedupModel
	err := liveMarkQuery(r.db.WithContext(ctx), eventID, now).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *eventDedupRepository) MarkProcessed(ctx context.Context, eventID, eventType string, expiresAt time.Time) error {
	return markQuery(r.db.WithContext(ctx)).Create(&eventDedupModel{
		EventID:     eventID,
		EventType:   eventType,
		ProcessedAt: time.Now().UTC(),
		ExpiresAt:   expiresAt,
	}).Error
}

func (r *eventDedupRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := expiredMarksQuery(r.db.WithContext(ctx), now).Delete(&eventDedupModel{})
	return res.RowsAffected, res.Error
}

func liveMarkQuery(db *gorm.DB, eventID string, now time.Time) *gorm.DB {
	return db.Select("event_id").Where("event_id = ? AND expires_at > ?", eventID, now)
}

// markQuery upserts so a redelivered event refreshes its retention.
func markQuery(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"event_type", "processed_at", "expires_at"}),
	})
}

func expiredMarksQuery(db *gorm.DB, now time.Time) *gorm.DB {
	return db.Where("expires_at <= ?", now)
}
