package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tourguard/internal/domain"
	"tourguard/pkg/e"
)

type AlertRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewAlertRepo(pool *pgxpool.Pool, logger *slog.Logger) *AlertRepo {
	return &AlertRepo{pool: pool, logger: logger}
}

const alertColumns = `
		sa.id, sa.title, sa.message, sa.alert_type, sa.severity, sa.location_id,
		sa.is_active, sa.expires_at, sa.created_by, sa.created_at, sa.updated_at,
		l.name AS location_name`

func (p *AlertRepo) Create(ctx context.Context, a *domain.SafetyAlert) (int64, error) {
	const op = "postgres.Alert.Create"

	const query = `
		INSERT INTO safety_alerts
			(title, message, alert_type, severity, location_id, is_active, expires_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := p.pool.QueryRow(ctx, query,
		a.Title,
		a.Message,
		a.AlertType,
		a.Severity,
		a.LocationID,
		a.IsActive,
		a.ExpiresAt,
		a.CreatedBy,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		p.logger.Error("db insert failed", slog.String("op", op), slog.Any("error", err))
		return 0, e.WrapError(ctx, op, err)
	}

	return a.ID, nil
}

func (p *AlertRepo) List(ctx context.Context, f domain.AlertFilter) ([]domain.SafetyAlert, error) {
	const op = "postgres.Alert.List"

	var b strings.Builder
	b.WriteString("SELECT" + alertColumns + `
	FROM safety_alerts sa
	LEFT JOIN locations l ON l.id = sa.location_id
	WHERE 1=1`)
	args := make([]any, 0, 3)

	if f.Type != "" {
		args = append(args, f.Type)
		fmt.Fprintf(&b, " AND sa.alert_type = $%d", len(args))
	}
	if f.Severity != "" {
		args = append(args, f.Severity)
		fmt.Fprintf(&b, " AND sa.severity = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		fmt.Fprintf(&b, " AND (sa.title ILIKE $%d OR sa.message ILIKE $%d)", len(args), len(args))
	}

	// implicit cap, mirrors the read contract: at most 100 most-recent rows
	b.WriteString(" ORDER BY sa.created_at DESC LIMIT 100")

	rows, err := p.pool.Query(ctx, b.String(), args...)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	var alerts []domain.SafetyAlert
	for rows.Next() {
		var a domain.SafetyAlert
		if err := rows.Scan(
			&a.ID, &a.Title, &a.Message, &a.AlertType, &a.Severity, &a.LocationID,
			&a.IsActive, &a.ExpiresAt, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt,
			&a.LocationName,
		); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return alerts, nil
}

func (p *AlertRepo) Get(ctx context.Context, id int64) (*domain.SafetyAlert, error) {
	const op = "postgres.Alert.Get"

	query := "SELECT" + alertColumns + `
	FROM safety_alerts sa
	LEFT JOIN locations l ON l.id = sa.location_id
	WHERE sa.id = $1`

	var a domain.SafetyAlert
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Title, &a.Message, &a.AlertType, &a.Severity, &a.LocationID,
		&a.IsActive, &a.ExpiresAt, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt,
		&a.LocationName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.Int64("id", id))
		return nil, e.WrapError(ctx, op, err)
	}

	return &a, nil
}

func (p *AlertRepo) Update(ctx context.Context, id int64, upd domain.AlertUpdate) error {
	const op = "postgres.Alert.Update"

	sets := make([]string, 0, 7)
	args := make([]any, 0, 7)

	set := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.Title != nil {
		set("title", *upd.Title)
	}
	if upd.Message != nil {
		set("message", *upd.Message)
	}
	if upd.AlertType != nil {
		set("alert_type", *upd.AlertType)
	}
	if upd.Severity != nil {
		set("severity", *upd.Severity)
	}
	if upd.LocationID != nil {
		set("location_id", *upd.LocationID)
	}
	if upd.IsActive != nil {
		set("is_active", *upd.IsActive)
	}
	if upd.ExpiresAt != nil {
		set("expires_at", *upd.ExpiresAt)
	}
	if len(sets) == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE safety_alerts SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args))

	cmd, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.Int64("id", id))
		return e.WrapError(ctx, op, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}

	return nil
}

// Delete is a hard delete and idempotent: a missing id is not an error, which
// keeps client retries simple.
func (p *AlertRepo) Delete(ctx context.Context, id int64) error {
	const op = "postgres.Alert.Delete"

	_, err := p.pool.Exec(ctx, `DELETE FROM safety_alerts WHERE id = $1`, id)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.Int64("id", id))
		return e.WrapError(ctx, op, err)
	}

	return nil
}
