package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "orderdesk/internal/domain/errors"
	"orderdesk/internal/domain/model"
)

func (r *factoryRepository) GetByID(ctx context.Context, id int64) (*model.Factory, error) {
	const query = `SELECT id, name, country_code, email, contact_person, active, created_at
                   FROM factories WHERE id=$1`
	var f model.Factory
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&f.ID, &f.Name, &f.CountryCode, &f.Email, &f.ContactPerson, &f.Active, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *factoryRepository) List(ctx context.Context) ([]model.Factory, error) {
	const query = `SELECT id, name, country_code, email, contact_person, active, created_at
                   FROM factories WHERE active ORDER BY name`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Factory
	for rows.Next() {
		var f model.Factory
		if err := rows.Scan(&f.ID, &f.Name, &f.CountryCode, &f.Email, &f.ContactPerson, &f.Active, &f.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
