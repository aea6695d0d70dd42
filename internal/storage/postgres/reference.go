package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"tourguard/internal/domain"
	"tourguard/pkg/e"
)

// ReferenceRepo serves the static safety-info reads: emergency contacts and
// published tips.
type ReferenceRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewReferenceRepo(pool *pgxpool.Pool, logger *slog.Logger) *ReferenceRepo {
	return &ReferenceRepo{pool: pool, logger: logger}
}

func (p *ReferenceRepo) Contacts(ctx context.Context) ([]domain.EmergencyContact, error) {
	const op = "postgres.Reference.Contacts"

	const query = `
		SELECT id, name, phone, email, department, location_id
		FROM emergency_contacts
		WHERE is_active = TRUE
		ORDER BY name ASC
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	var contacts []domain.EmergencyContact
	for rows.Next() {
		var c domain.EmergencyContact
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Department, &c.LocationID); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return contacts, nil
}

func (p *ReferenceRepo) Tips(ctx context.Context) ([]domain.SafetyTip, error) {
	const op = "postgres.Reference.Tips"

	const query = `
		SELECT id, title, content, category
		FROM safety_tips
		WHERE is_active = TRUE
		ORDER BY id DESC
		LIMIT 20
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	var tips []domain.SafetyTip
	for rows.Next() {
		var t domain.SafetyTip
		if err := rows.Scan(&t.ID, &t.Title, &t.Content, &t.Category); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		tips = append(tips, t)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return tips, nil
}
