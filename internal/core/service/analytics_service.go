package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/righttechcentre/lms-api/internal/core/domain"
	"github.com/righttechcentre/lms-api/internal/core/ports"
)

// AnalyticsService builds the admin dashboard overview.
type AnalyticsService struct {
	repo ports.AnalyticsRepository
}

func NewAnalyticsService(repo ports.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

// Overview runs the independent aggregate queries concurrently.
func (s *AnalyticsService) Overview(ctx context.Context) (*domain.Analytics, error) {
	var out domain.Analytics
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) { out.TotalUsers, err = s.repo.CountUsers(gctx); return })
	g.Go(func() (err error) { out.TotalCourses, err = s.repo.CountCourses(gctx); return })
	g.Go(func() (err error) { out.TotalEnrollments, err = s.repo.CountEnrollments(gctx); return })
	g.Go(func() (err error) { out.TotalCertificates, err = s.repo.CountCertificates(gctx); return })
	g.Go(func() error {
		revenue, err := s.repo.PaidRevenue(gctx)
		if err != nil {
			return err
		}
		out.TotalRevenue = decimal.NewFromFloat(revenue).Round(2).InexactFloat64()
		return nil
	})
	g.Go(func() (err error) { out.UsersByRole, err = s.repo.UsersByRole(gctx); return })

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analytics overview: %w", err)
	}
	if out.UsersByRole == nil {
		out.UsersByRole = map[string]int64{}
	}
	return &out, nil
}
