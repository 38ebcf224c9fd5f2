package ports

import (
	"context"

	"github.com/righttechcentre/lms-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create inserts a user. Returns domain.ErrUserExists when the email is taken.
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, role domain.Role) ([]*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) error
}
