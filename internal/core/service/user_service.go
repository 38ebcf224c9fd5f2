package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/righttechcentre/lms-api/internal/core/domain"
	"github.com/righttechcentre/lms-api/internal/core/ports"
)

// UserService exposes admin account management.
type UserService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

// List returns all users, optionally filtered by role.
func (s *UserService) List(ctx context.Context, role string) ([]*domain.User, error) {
	var r domain.Role
	if role != "" {
		parsed, err := domain.ParseRole(role)
		if err != nil {
			return nil, err
		}
		r = parsed
	}
	return s.repo.List(ctx, r)
}

// UpdateRole changes a user's role.
func (s *UserService) UpdateRole(ctx context.Context, userID, role string) error {
	r, err := domain.ParseRole(role)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateRole(ctx, userID, r); err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	s.log.Info().Str("user_id", userID).Str("role", role).Msg("user role updated")
	return nil
}
