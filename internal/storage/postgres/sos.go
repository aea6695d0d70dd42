package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"tourguard/internal/domain"
	"tourguard/pkg/e"
)

type SOSRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewSOSRepo(pool *pgxpool.Pool, logger *slog.Logger) *SOSRepo {
	return &SOSRepo{pool: pool, logger: logger}
}

func (p *SOSRepo) Create(ctx context.Context, ev *domain.SOSEvent) (int64, error) {
	const op = "postgres.SOS.Create"

	const query = `
		INSERT INTO sos_alerts (tourist_id, latitude, longitude, location, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, timestamp
	`

	if ev.Status == "" {
		ev.Status = domain.SOSActive
	}

	err := p.pool.QueryRow(ctx, query,
		ev.TouristID,
		ev.Latitude,
		ev.Longitude,
		ev.Location,
		ev.Status,
	).Scan(&ev.ID, &ev.Timestamp)
	if err != nil {
		p.logger.Error("db insert failed", slog.String("op", op), slog.Any("error", err))
		return 0, e.WrapError(ctx, op, err)
	}

	return ev.ID, nil
}

func (p *SOSRepo) Latest(ctx context.Context, limit int) ([]domain.SOSEvent, error) {
	const op = "postgres.SOS.Latest"

	const query = `
		SELECT s.id, s.tourist_id, s.latitude, s.longitude, s.location, s.status, s.timestamp,
			   u.first_name || ' ' || u.last_name AS tourist_name
		FROM sos_alerts s
		LEFT JOIN users u ON u.id = s.tourist_id
		ORDER BY s.timestamp DESC
		LIMIT $1
	`

	rows, err := p.pool.Query(ctx, query, limit)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	var events []domain.SOSEvent
	for rows.Next() {
		var ev domain.SOSEvent
		if err := rows.Scan(
			&ev.ID, &ev.TouristID, &ev.Latitude, &ev.Longitude, &ev.Location,
			&ev.Status, &ev.Timestamp, &ev.TouristName,
		); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return events, nil
}

func (p *SOSRepo) UpdateStatus(ctx context.Context, id int64, status domain.SOSStatus) error {
	const op = "postgres.SOS.UpdateStatus"

	cmd, err := p.pool.Exec(ctx, `UPDATE sos_alerts SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.Int64("id", id))
		return e.WrapError(ctx, op, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}

	return nil
}
