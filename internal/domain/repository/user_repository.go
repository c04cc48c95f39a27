package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/daybook-api/internal/domain/entity"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ListParams) ([]entity.User, int64, error)
	Count(ctx context.Context) (int64, error)
}
