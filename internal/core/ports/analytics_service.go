package ports

import (
	"context"

	"github.com/righttechcentre/lms-api/internal/core/domain"
)

// AnalyticsRepository runs the aggregate queries behind the admin overview.
type AnalyticsRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountCourses(ctx context.Context) (int64, error)
	CountEnrollments(ctx context.Context) (int64, error)
	CountCertificates(ctx context.Context) (int64, error)
	PaidRevenue(ctx context.Context) (float64, error)
	UsersByRole(ctx context.Context) (map[string]int64, error)
}

// AnalyticsService builds the admin overview.
type AnalyticsService interface {
	Overview(ctx context.Context) (*domain.Analytics, error)
}

// SeedService provisions the initial catalog and admin account.
type SeedService interface {
	Seed(ctx context.Context) error
}
