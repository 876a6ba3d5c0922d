package repository

import (
	"context"

	"orderdesk/internal/domain/model"
)

// UserRepository describes persistence operations for employees.
type UserRepository interface {
	Create(ctx context.Context, login, passwordHash string) (*model.User, error)
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// FactoryRepository provides read access to the factory directory.
type FactoryRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Factory, error)
	List(ctx context.Context) ([]model.Factory, error)
}
