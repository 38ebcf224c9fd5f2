package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/righttechcentre/lms-api/internal/core/domain"
	"github.com/righttechcentre/lms-api/internal/core/ports"
)

// CourseService implements catalog browsing and authoring.
type CourseService struct {
	repo ports.CourseRepository
	log  zerolog.Logger
}

func NewCourseService(repo ports.CourseRepository, log zerolog.Logger) *CourseService {
	return &CourseService{repo: repo, log: log}
}

// List returns courses matching the filters. Published defaults to true.
func (s *CourseService) List(ctx context.Context, in ports.ListCoursesInput) ([]*domain.Course, error) {
	filter := ports.ListCoursesFilter{Search: strings.TrimSpace(in.Search)}
	if in.Type != "" {
		t, err := domain.ParseCourseType(in.Type)
		if err != nil {
			return nil, err
		}
		filter.Type = t
	}
	if in.Published != nil {
		filter.Published = in.Published
	} else {
		published := true
		filter.Published = &published
	}
	return s.repo.List(ctx, filter)
}

func (s *CourseService) Get(ctx context.Context, id string) (*domain.Course, error) {
	return s.repo.FindByID(ctx, id)
}

// Create adds a course owned by the acting instructor or admin.
func (s *CourseService) Create(ctx context.Context, actor domain.Actor, in ports.CreateCourseInput) (*domain.Course, error) {
	if !actor.Role.CanAuthor() {
		return nil, fmt.Errorf("create course: %w", domain.ErrForbidden)
	}
	t, err := domain.ParseCourseType(in.Type)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.NewValidationError("title is required")
	}
	if in.Price < 0 || in.CreditHours < 0 || in.DurationMonths < 0 {
		return nil, domain.NewValidationError("price, credit_hours and duration_months must not be negative")
	}
	modules, err := buildModules(in.Modules)
	if err != nil {
		return nil, err
	}

	course := &domain.Course{
		ID:             uuid.NewString(),
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		Type:           t,
		Thumbnail:      in.Thumbnail,
		Price:          in.Price,
		CreditHours:    in.CreditHours,
		DurationMonths: in.DurationMonths,
		InstructorID:   actor.UserID,
		Published:      in.Published,
		Modules:        modules,
		EnrolledCount:  0,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.log.Info().Str("course_id", course.ID).Str("instructor_id", actor.UserID).Msg("course created")
	return course, nil
}

// Update applies patch when the actor owns the course or is an admin.
func (s *CourseService) Update(ctx context.Context, actor domain.Actor, id string, patch domain.CoursePatch) (*domain.Course, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.CanBeEditedBy(actor) {
		return nil, fmt.Errorf("update course: %w", domain.ErrForbidden)
	}
	if patch.IsEmpty() {
		return existing, nil
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, domain.NewValidationError("title must not be empty")
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, domain.NewValidationError("price must not be negative")
	}
	if patch.CreditHours != nil && *patch.CreditHours < 0 {
		return nil, domain.NewValidationError("credit_hours must not be negative")
	}
	if patch.DurationMonths != nil && *patch.DurationMonths < 0 {
		return nil, domain.NewValidationError("duration_months must not be negative")
	}
	if patch.Modules != nil {
		mods, err := ensureModuleIDs(*patch.Modules)
		if err != nil {
			return nil, err
		}
		patch.Modules = &mods
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("course_id", id).Str("actor", actor.UserID).Msg("course updated")
	return updated, nil
}

// Delete removes a course. Admin only.
func (s *CourseService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if actor.Role != domain.RoleAdmin {
		return fmt.Errorf("delete course: %w", domain.ErrForbidden)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("course_id", id).Msg("course deleted")
	return nil
}

func buildModules(in []ports.ModuleInput) ([]domain.Module, error) {
	mods := make([]domain.Module, 0, len(in))
	for _, m := range in {
		mods = append(mods, domain.Module{
			ID:            m.ID,
			Title:         m.Title,
			Description:   m.Description,
			Objectives:    m.Objectives,
			DurationHours: m.DurationHours,
		})
	}
	return ensureModuleIDs(mods)
}

// ensureModuleIDs fills missing module ids. Progress counts distinct ids, so a
// repeated id would make the course impossible to complete.
func ensureModuleIDs(mods []domain.Module) ([]domain.Module, error) {
	out := make([]domain.Module, len(mods))
	seen := make(map[string]struct{}, len(mods))
	for i, m := range mods {
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if _, dup := seen[m.ID]; dup {
			return nil, domain.NewValidationError(fmt.Sprintf("duplicate module id %q", m.ID))
		}
		seen[m.ID] = struct{}{}
		if m.Objectives == nil {
			m.Objectives = []string{}
		}
		out[i] = m
	}
	return out, nil
}
