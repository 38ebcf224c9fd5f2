package handler

import (
	"github.com/righttechcentre/lms-api/internal/core/domain"
	"github.com/righttechcentre/lms-api/internal/core/ports"
)

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		Role:         string(u.Role),
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func toModuleInputs(mods []moduleRequest) []ports.ModuleInput {
	out := make([]ports.ModuleInput, 0, len(mods))
	for _, m := range mods {
		out = append(out, ports.ModuleInput{
			ID:            m.ID,
			Title:         m.Title,
			Description:   m.Description,
			Objectives:    m.Objectives,
			DurationHours: m.DurationHours,
		})
	}
	return out
}

func toDomainModules(mods []moduleRequest) []domain.Module {
	out := make([]domain.Module, 0, len(mods))
	for _, m := range mods {
		objectives := m.Objectives
		if objectives == nil {
			objectives = []string{}
		}
		out = append(out, domain.Module{
			ID:            m.ID,
			Title:         m.Title,
			Description:   m.Description,
			Objectives:    objectives,
			DurationHours: m.DurationHours,
		})
	}
	return out
}

// toCoursePatch converts the wire patch. Type is validated here so the
// service only sees closed enum values.
func toCoursePatch(req updateCourseRequest) (domain.CoursePatch, error) {
	patch := domain.CoursePatch{
		Title:          req.Title,
		Description:    req.Description,
		Thumbnail:      req.Thumbnail,
		Price:          req.Price,
		CreditHours:    req.CreditHours,
		DurationMonths: req.DurationMonths,
		Published:      req.IsPublished,
	}
	if req.CourseType != nil {
		t, err := domain.ParseCourseType(*req.CourseType)
		if err != nil {
			return domain.CoursePatch{}, err
		}
		patch.Type = &t
	}
	if req.Modules != nil {
		mods := toDomainModules(*req.Modules)
		patch.Modules = &mods
	}
	return patch, nil
}

func toAnalyticsResponse(a *domain.Analytics) analyticsResponse {
	byRole := a.UsersByRole
	if byRole == nil {
		byRole = map[string]int64{}
	}
	return analyticsResponse{
		TotalUsers:        a.TotalUsers,
		TotalCourses:      a.TotalCourses,
		TotalEnrollments:  a.TotalEnrollments,
		TotalCertificates: a.TotalCertificates,
		TotalRevenue:      a.TotalRevenue,
		UsersByRole:       byRole,
	}
}
