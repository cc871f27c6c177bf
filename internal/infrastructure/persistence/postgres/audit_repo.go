package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lendtrack/lendtrack/internal/domain/port"
	pgdb "github.com/lendtrack/lendtrack/pkg/postgres"
)

// AuditLogRepo implements port.AuditLogRepository as an append-only table.
type AuditLogRepo struct {
	pool *pgxpool.Pool
}

// NewAuditLogRepo creates a new PostgreSQL-backed audit log.
func NewAuditLogRepo(pool *pgxpool.Pool) *AuditLogRepo {
	return &AuditLogRepo{pool: pool}
}

// Record appends one audit entry. Metadata goes into a JSONB column.
func (r *AuditLogRepo) Record(ctx context.Context, entry port.AuditEntry) error {
	var metadata []byte
	if entry.Metadata != nil {
		var err error
		metadata, err = json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("marshal audit metadata: %w", err)
		}
	}

	query := `
		INSERT INTO audit_logs (id, user_id, action, entity_type, entity_id, metadata, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`
	_, err := pgdb.QuerierFrom(ctx, r.pool).Exec(ctx, query,
		uuid.New(), entry.UserID, entry.Action, entry.EntityType, entry.EntityID,
		metadata, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}
	return nil
}
