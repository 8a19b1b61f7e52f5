package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB renders statements without a server.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=survey dbname=survey sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("open dry run db: %v", err)
	}
	return db
}

func assertSQL(t *testing.T, sql string, want []string, unwanted []string) {
	t.Helper()
	for _, fragment := range want {
		if !strings.Contains(sql, fragment) {
			t.Fatalf("expected %q in %s", fragment, sql)
		}
	}
	for _, fragment := range unwanted {
		if strings.Contains(sql, fragment) {
			t.Fatalf("unexpected %q in %s", fragment, sql)
		}
	}
}

func TestDatasetQueriesKeepPayloadOutOfMetadata(t *testing.T) {
	t.Parallel()
	db := dryRunDB(t)

	var row datasetModel
	sql := latestInfoQuery(db, datasetKindSurvey).Take(&row).Statement.SQL.String()
	assertSQL(t, sql,
		[]string{`FROM "survey_datasets"`, "valid_rows", "warnings", "kind = $1", "ORDER BY loaded_at desc", "LIMIT 1"},
		[]string{"payload", "SELECT *"},
	)

	row = datasetModel{}
	sql = payloadQuery(db, "v1").Take(&row).Statement.SQL.String()
	assertSQL(t, sql, []string{"SELECT payload", "version = $1"}, []string{"warnings"})
}

func TestOutboxPendingQueryFiltersEventTypes(t *testing.T) {
	t.Parallel()
	db := dryRunDB(t)

	var rows []outboxModel
	sql := pendingQuery(db, 25, []string{"survey.dataset.loaded", "survey.export.completed"}).Find(&rows).Statement.SQL.String()
	assertSQL(t, sql,
		[]string{`FROM "survey_outbox"`, "published_at IS NULL", "event_type IN ($1,$2)", "ORDER BY created_at asc", "LIMIT 25"},
		nil,
	)

	rows = nil
	sql = pendingQuery(db, 0, nil).Find(&rows).Statement.SQL.String()
	assertSQL(t, sql, []string{"published_at IS NULL"}, []string{"event_type", "LIMIT"})
}

func TestOutboxPurgeAndMarkTouchOnlyMatchingRows(t *testing.T) {
	t.Parallel()
	db := dryRunDB(t)
	cutoff := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	sql := publishedBeforeQuery(db, cutoff).Delete(&outboxModel{}).Statement.SQL.String()
	assertSQL(t, sql, []string{`DELETE FROM "survey_outbox"`, "published_at IS NOT NULL AND published_at < $1"}, nil)

	sql = pendingRow(db, uuid.New()).Update("published_at", cutoff).Statement.SQL.String()
	assertSQL(t, sql, []string{`UPDATE "survey_outbox"`, "outbox_id = $", "published_at IS NULL"}, nil)
}

func TestEventDedupQueries(t *testing.T) {
	t.Parallel()
	db := dryRunDB(t)
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	sql := expiredMarksQuery(db, now).Delete(&eventDedupModel{}).Statement.SQL.String()
	assertSQL(t, sql, []string{`DELETE FROM "survey_event_dedup"`, "expires_at <= $1"}, nil)

	var row eventDedupModel
	sql = liveMarkQuery(db, "evt-1", now).Take(&row).Statement.SQL.String()
	assertSQL(t, sql, []string{"SELECT event_id", "event_id = $1 AND expires_at > $2"}, nil)

	sql = markQuery(db).Create(&eventDedupModel{EventID: "evt-1", EventType: "survey.dataset.uploaded", ExpiresAt: now}).Statement.SQL.String()
	assertSQL(t, sql, []string{`INSERT INTO "survey_event_dedup"`, `ON CONFLICT ("event_id") DO UPDATE SET`, `"expires_at"="excluded"."expires_at"`}, nil)
}

func TestReleaseDeletesOnlyReservedKeys(t *testing.T) {
	t.Parallel()
	db := dryRunDB(t)

	sql := reservedKeyQuery(db, "key-1").Delete(&idempotencyModel{}).Statement.SQL.String()
	assertSQL(t, sql, []string{`DELETE FROM "survey_idempotency"`, "idempotency_key = $1 AND status = $2"}, nil)
}
