package postgres

import (
	"context"
	"encoding/json"
	"time"

	"log/slog"
	"siteproof/internal/domain"
	"siteproof/pkg/e"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Reports struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewReports(pool *pgxpool.Pool, logger *slog.Logger) *Reports {
	return &Reports{pool: pool, logger: logger}
}

// Insert appends one report row. The store is append-only: repeated batches
// for the same (task, location) pair produce new rows, never updates.
func (p *Reports) Insert(ctx context.Context, report *domain.Report) error {
	const op = "postgres.Reports.Insert"

	query := `
		INSERT INTO reports (id, task, location_statuses, user_id, user_name, user_avatar_ref, created_at, creation_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	if report.CreationStatus == "" {
		report.CreationStatus = domain.StatusPending
	}

	// jsonb keeps the array order, which Rollup depends on.
	statuses, err := json.Marshal(report.LocationStatuses)
	if err != nil {
		return e.Wrap(op, err)
	}

	_, err = p.pool.Exec(ctx, query,
		report.ID,
		report.Task,
		statuses,
		report.UserID,
		report.UserName,
		report.UserAvatarRef,
		report.CreatedAt,
		string(report.CreationStatus),
	)
	if err != nil {
		p.logger.Error("db exec failed",
			slog.String("op", op),
			slog.Any("error", err),
		)
		return e.WrapError(ctx, op, err)
	}

	return nil
}

// ListByTask returns every report row for a task in insertion order, which is
// the order the rollup scan requires. The bigserial seq column breaks
// created_at ties; two rows landing in the same microsecond would otherwise
// come back in arbitrary order.
func (p *Reports) ListByTask(ctx context.Context, task string) ([]*domain.Report, error) {
	const op = "postgres.Reports.ListByTask"

	const query = `
		SELECT id, task, location_statuses, user_id, user_name, user_avatar_ref, created_at, creation_status
		FROM reports
		WHERE task = $1
		ORDER BY seq ASC
	`

	rows, err := p.pool.Query(ctx, query, task)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	reports := make([]*domain.Report, 0)
	for rows.Next() {
		var (
			r        domain.Report
			statuses []byte
			status   string
		)
		if err := rows.Scan(&r.ID, &r.Task, &statuses, &r.UserID, &r.UserName, &r.UserAvatarRef, &r.CreatedAt, &status); err != nil {
			return nil, e.WrapError(ctx, op, err)
		}
		if err := json.Unmarshal(statuses, &r.LocationStatuses); err != nil {
			return nil, e.Wrap(op, err)
		}
		r.CreationStatus = domain.StatusKind(status)
		reports = append(reports, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, e.WrapError(ctx, op, err)
	}

	return reports, nil
}
