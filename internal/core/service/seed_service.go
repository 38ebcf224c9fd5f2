package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/righttechcentre/lms-api/internal/core/domain"
	"github.com/righttechcentre/lms-api/internal/core/ports"
)

const moduleHours = 4

// AdminAccount is the default administrator provisioned by seeding.
type AdminAccount struct {
	Email    string
	Password string
	FullName string
}

// SeedService fills an empty catalog and provisions the admin account.
type SeedService struct {
	courses ports.CourseRepository
	users   ports.UserRepository
	admin   AdminAccount
	log     zerolog.Logger
}

func NewSeedService(courses ports.CourseRepository, users ports.UserRepository, admin AdminAccount, log zerolog.Logger) *SeedService {
	if admin.FullName == "" {
		admin.FullName = "RTC Admin"
	}
	return &SeedService{courses: courses, users: users, admin: admin, log: log}
}

// Seed is a no-op when any course already exists.
func (s *SeedService) Seed(ctx context.Context) error {
	n, err := s.courses.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: count courses: %w", err)
	}
	if n > 0 {
		s.log.Debug().Int64("courses", n).Msg("catalog not empty, skipping seed")
		return nil
	}

	s.log.Info().Msg("seeding course catalog")
	catalog := buildCatalog(time.Now().UTC())
	if err := s.courses.InsertMany(ctx, catalog); err != nil {
		return fmt.Errorf("seed: insert courses: %w", err)
	}
	s.log.Info().Int("courses", len(catalog)).Msg("catalog seeded")

	return s.ensureAdmin(ctx)
}

func (s *SeedService) ensureAdmin(ctx context.Context) error {
	if s.admin.Email == "" || s.admin.Password == "" {
		s.log.Warn().Msg("admin credentials not configured, skipping admin account")
		return nil
	}
	email := normalizeEmail(s.admin.Email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("seed: find admin: %w", err)
	}

	hash, err := hashPassword(s.admin.Password)
	if err != nil {
		return err
	}
	admin := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     s.admin.FullName,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, admin); err != nil && !errors.Is(err, domain.ErrUserExists) {
		return fmt.Errorf("seed: create admin: %w", err)
	}
	s.log.Info().Str("email", email).Msg("admin account created")
	return nil
}

func buildCatalog(now time.Time) []*domain.Course {
	var out []*domain.Course
	for _, p := range seedPrograms {
		for _, title := range p.Titles {
			modules := make([]domain.Module, p.Modules)
			for i := range modules {
				modules[i] = domain.Module{
					ID:            uuid.NewString(),
					Title:         fmt.Sprintf("Module %d", i+1),
					Description:   fmt.Sprintf(p.ModuleSummary, title),
					Objectives:    append([]string(nil), p.Objectives...),
					DurationHours: moduleHours,
				}
			}
			out = append(out, &domain.Course{
				ID:             uuid.NewString(),
				Title:          title,
				Description:    fmt.Sprintf(p.Description, title),
				Type:           p.Type,
				Price:          p.Price,
				CreditHours:    p.CreditHours,
				DurationMonths: p.DurationMonths,
				Published:      true,
				Modules:        modules,
				EnrolledCount:  0,
				CreatedAt:      now,
			})
		}
	}
	return out
}
