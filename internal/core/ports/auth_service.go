package ports

import (
	"context"

	"github.com/righttechcentre/lms-api/internal/core/domain"
)

// RegisterInput carries the self-registration payload.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     string
}

// AuthService issues and resolves identities.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
}

// UserService covers admin-only account management.
type UserService interface {
	List(ctx context.Context, role string) ([]*domain.User, error)
	UpdateRole(ctx context.Context, userID, role string) error
}
