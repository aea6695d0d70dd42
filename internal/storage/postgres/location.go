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

// LocationRepo reads the location catalog; the core never writes it.
type LocationRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewLocationRepo(pool *pgxpool.Pool, logger *slog.Logger) *LocationRepo {
	return &LocationRepo{pool: pool, logger: logger}
}

const locationColumns = `
		id, name, address, latitude, longitude, location_type, safety_level,
		description, is_active, created_at`

func (p *LocationRepo) Exists(ctx context.Context, id int64) (bool, error) {
	const op = "postgres.Location.Exists"

	var found bool
	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM locations WHERE id = $1)`, id).Scan(&found)
	if err != nil {
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.Int64("id", id))
		return false, e.WrapError(ctx, op, err)
	}

	return found, nil
}

func (p *LocationRepo) List(ctx context.Context, f domain.LocationFilter) ([]domain.Location, error) {
	const op = "postgres.Location.List"

	var b strings.Builder
	b.WriteString("SELECT" + locationColumns + " FROM locations WHERE is_active = TRUE")
	args := make([]any, 0, 3)

	if f.Type != "" {
		args = append(args, f.Type)
		fmt.Fprintf(&b, " AND location_type = $%d", len(args))
	}
	if f.SafetyLevel != "" {
		args = append(args, f.SafetyLevel)
		fmt.Fprintf(&b, " AND safety_level = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		fmt.Fprintf(&b, " AND (name ILIKE $%d OR address ILIKE $%d OR description ILIKE $%d)",
			len(args), len(args), len(args))
	}

	b.WriteString(" ORDER BY name ASC")

	rows, err := p.pool.Query(ctx, b.String(), args...)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	var locations []domain.Location
	for rows.Next() {
		var loc domain.Location
		if err := rows.Scan(
			&loc.ID, &loc.Name, &loc.Address, &loc.Latitude, &loc.Longitude,
			&loc.LocationType, &loc.SafetyLevel, &loc.Description, &loc.IsActive, &loc.CreatedAt,
		); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return locations, nil
}

func (p *LocationRepo) Get(ctx context.Context, id int64) (*domain.Location, error) {
	const op = "postgres.Location.Get"

	query := "SELECT" + locationColumns + " FROM locations WHERE id = $1 AND is_active = TRUE"

	var loc domain.Location
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&loc.ID, &loc.Name, &loc.Address, &loc.Latitude, &loc.Longitude,
		&loc.LocationType, &loc.SafetyLevel, &loc.Description, &loc.IsActive, &loc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.Int64("id", id))
		return nil, e.WrapError(ctx, op, err)
	}

	return &loc, nil
}
