package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/righttechcentre/lms-api/internal/api/metrics"
	"github.com/righttechcentre/lms-api/internal/core/domain"
)

func newEnrollmentFixture(courses ...*domain.Course) (*EnrollmentService, *stubEnrollmentRepo, *stubCourseRepo) {
	courseRepo := newStubCourseRepo(courses...)
	repo := newStubEnrollmentRepo(courseRepo)
	return NewEnrollmentService(repo, courseRepo, discardLogger), repo, courseRepo
}

func TestEnrollmentService_Enroll_Success(t *testing.T) {
	svc, _, courses := newEnrollmentFixture(courseWithModules("c1", 2))

	e, err := svc.Enroll(context.Background(), "bob", "c1")
	if err != nil {
		t.Fatalf("Enroll returned error: %v", err)
	}
	if e.Status != domain.EnrollmentActive || e.Progress != 0 || len(e.CompletedModules) != 0 {
		t.Fatalf("unexpected new enrollment: %+v", e)
	}
	if got := courses.courses["c1"].EnrolledCount; got != 1 {
		t.Fatalf("expected enrolled_count 1, got %d", got)
	}
}

func TestEnrollmentService_Enroll_Twice(t *testing.T) {
	svc, _, courses := newEnrollmentFixture(courseWithModules("c1", 2))

	if _, err := svc.Enroll(context.Background(), "bob", "c1"); err != nil {
		t.Fatalf("first enroll failed: %v", err)
	}
	_, err := svc.Enroll(context.Background(), "bob", "c1")
	if !errors.Is(err, domain.ErrAlreadyEnrolled) {
		t.Fatalf("expected ErrAlreadyEnrolled, got %v", err)
	}
	if domain.KindOf(err) != domain.KindConflict {
		t.Fatalf("expected conflict kind, got %q", domain.KindOf(err))
	}
	if got := courses.courses["c1"].EnrolledCount; got != 1 {
		t.Fatalf("enrolled_count must not change on rejected enroll, got %d", got)
	}
}

func TestEnrollmentService_Enroll_Concurrent(t *testing.T) {
	svc, repo, courses := newEnrollmentFixture(courseWithModules("c1", 2))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Enroll(context.Background(), "bob", "c1")
		}()
	}
	wg.Wait()

	if repo.count() != 1 {
		t.Fatalf("expected exactly one enrollment, got %d", repo.count())
	}
	if got := courses.courses["c1"].EnrolledCount; got != 1 {
		t.Fatalf("expected enrolled_count 1, got %d", got)
	}
}

func TestEnrollmentService_Enroll_UnknownCourse(t *testing.T) {
	svc, _, _ := newEnrollmentFixture()

	if _, err := svc.Enroll(context.Background(), "bob", "nope"); !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestEnrollmentService_Progress_TwoModules(t *testing.T) {
	svc, repo, _ := newEnrollmentFixture(courseWithModules("c1", 2))
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	e, _ := svc.Enroll(context.Background(), "bob", "c1")

	res, err := svc.RecordModuleCompletion(context.Background(), "bob", e.ID, "c1-m1")
	if err != nil {
		t.Fatalf("first completion failed: %v", err)
	}
	if res.Progress != 50 {
		t.Fatalf("expected progress 50, got %v", res.Progress)
	}
	if res.Enrollment.Status != domain.EnrollmentActive {
		t.Fatalf("expected active after one module, got %s", res.Enrollment.Status)
	}

	// Repeating a module leaves progress where it was.
	res, _ = svc.RecordModuleCompletion(context.Background(), "bob", e.ID, "c1-m1")
	if res.Progress != 50 || len(res.Enrollment.CompletedModules) != 1 {
		t.Fatalf("repeat must not change progress: %+v", res)
	}

	res, err = svc.RecordModuleCompletion(context.Background(), "bob", e.ID, "c1-m2")
	if err != nil {
		t.Fatalf("second completion failed: %v", err)
	}
	if res.Progress != 100 {
		t.Fatalf("expected progress 100, got %v", res.Progress)
	}
	if res.Enrollment.Status != domain.EnrollmentCompleted {
		t.Fatalf("expected completed, got %s", res.Enrollment.Status)
	}

	stored := repo.byID[e.ID]
	if stored.Status != domain.EnrollmentCompleted || stored.CompletedAt == nil || !stored.CompletedAt.Equal(fixed) {
		t.Fatalf("stored enrollment not completed correctly: %+v", stored)
	}
}

func TestEnrollmentService_Progress_UnknownModule(t *testing.T) {
	svc, _, _ := newEnrollmentFixture(courseWithModules("c1", 2))
	e, _ := svc.Enroll(context.Background(), "bob", "c1")

	if _, err := svc.RecordModuleCompletion(context.Background(), "bob", e.ID, "other"); !errors.Is(err, domain.ErrModuleNotFound) {
		t.Fatalf("expected ErrModuleNotFound, got %v", err)
	}
}

func TestEnrollmentService_Progress_OtherUsersEnrollment(t *testing.T) {
	svc, _, _ := newEnrollmentFixture(courseWithModules("c1", 2))
	e, _ := svc.Enroll(context.Background(), "bob", "c1")

	if _, err := svc.RecordModuleCompletion(context.Background(), "mallory", e.ID, "c1-m1"); !errors.Is(err, domain.ErrEnrollmentNotFound) {
		t.Fatalf("expected ErrEnrollmentNotFound, got %v", err)
	}
}

func TestEnrollmentService_Progress_CompletionIsOneWay(t *testing.T) {
	svc, repo, courses := newEnrollmentFixture(courseWithModules("c1", 1))
	e, _ := svc.Enroll(context.Background(), "bob", "c1")

	if _, err := svc.RecordModuleCompletion(context.Background(), "bob", e.ID, "c1-m1"); err != nil {
		t.Fatalf("completion failed: %v", err)
	}
	completedAt := *repo.byID[e.ID].CompletedAt

	// The course grows after completion; the enrollment stays completed.
	courses.courses["c1"].Modules = append(courses.courses["c1"].Modules, domain.Module{ID: "c1-m2"})
	res, err := svc.RecordModuleCompletion(context.Background(), "bob", e.ID, "c1-m1")
	if err != nil {
		t.Fatalf("repeat failed: %v", err)
	}
	if res.Enrollment.Status != domain.EnrollmentCompleted || res.Progress != 100 {
		t.Fatalf("completed enrollment regressed: %+v", res)
	}
	if !repo.byID[e.ID].CompletedAt.Equal(completedAt) {
		t.Fatalf("completed_at must not move")
	}
}

func TestEnrollmentService_EnsureFromPayment_Idempotent(t *testing.T) {
	svc, repo, courses := newEnrollmentFixture(courseWithModules("c1", 2))
	tx := &domain.PaymentTransaction{ID: "tx1", SessionID: "cs_1", UserID: "bob", CourseID: "c1"}

	created, err := svc.EnsureFromPayment(context.Background(), tx)
	if err != nil || !created {
		t.Fatalf("first ensure: created=%v err=%v", created, err)
	}
	created, err = svc.EnsureFromPayment(context.Background(), tx)
	if err != nil || created {
		t.Fatalf("second ensure: created=%v err=%v", created, err)
	}
	if repo.count() != 1 || courses.courses["c1"].EnrolledCount != 1 {
		t.Fatalf("expected one enrollment and count 1, got %d / %d", repo.count(), courses.courses["c1"].EnrolledCount)
	}

	e, _ := repo.FindByUserCourse(context.Background(), "bob", "c1")
	if e.PaymentID != "tx1" {
		t.Fatalf("expected payment id tx1, got %q", e.PaymentID)
	}
}

// lateCompletionRepo completes the stored enrollment just after handing out
// the active snapshot, as a concurrent request finishing the last module would.
type lateCompletionRepo struct {
	*stubEnrollmentRepo
	otherAt time.Time
}

func (r *lateCompletionRepo) AddCompletedModule(ctx context.Context, id, userID, moduleID string) (*domain.Enrollment, error) {
	snapshot, err := r.stubEnrollmentRepo.AddCompletedModule(ctx, id, userID, moduleID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	stored := r.byID[id]
	stored.Status = domain.EnrollmentCompleted
	stored.Progress = 100
	stored.CompletedAt = &r.otherAt
	r.mu.Unlock()
	return snapshot, nil
}

func TestEnrollmentService_Progress_LostCompletionRace(t *testing.T) {
	courseRepo := newStubCourseRepo(courseWithModules("c1", 1))
	otherAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := &lateCompletionRepo{stubEnrollmentRepo: newStubEnrollmentRepo(courseRepo), otherAt: otherAt}
	svc := NewEnrollmentService(repo, courseRepo, discardLogger)
	svc.now = func() time.Time { return otherAt.Add(time.Second) }

	e, err := svc.Enroll(context.Background(), "bob", "c1")
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	before := testutil.ToFloat64(metrics.EnrollmentsCompletedTotal)
	res, err := svc.RecordModuleCompletion(context.Background(), "bob", e.ID, "c1-m1")
	if err != nil {
		t.Fatalf("completion failed: %v", err)
	}

	if res.Enrollment.Status != domain.EnrollmentCompleted {
		t.Fatalf("expected completed, got %s", res.Enrollment.Status)
	}
	if res.Enrollment.CompletedAt == nil || !res.Enrollment.CompletedAt.Equal(otherAt) {
		t.Fatalf("expected stored completed_at %v, got %v", otherAt, res.Enrollment.CompletedAt)
	}
	if got := testutil.ToFloat64(metrics.EnrollmentsCompletedTotal) - before; got != 0 {
		t.Fatalf("losing request must not count a completion, counted %v", got)
	}
}

func TestEnrollmentService_Progress_WinnerCountsCompletion(t *testing.T) {
	svc, _, _ := newEnrollmentFixture(courseWithModules("c1", 1))
	e, _ := svc.Enroll(context.Background(), "bob", "c1")

	before := testutil.ToFloat64(metrics.EnrollmentsCompletedTotal)
	if _, err := svc.RecordModuleCompletion(context.Background(), "bob", e.ID, "c1-m1"); err != nil {
		t.Fatalf("completion failed: %v", err)
	}
	if _, err := svc.RecordModuleCompletion(context.Background(), "bob", e.ID, "c1-m1"); err != nil {
		t.Fatalf("repeat failed: %v", err)
	}
	if got := testutil.ToFloat64(metrics.EnrollmentsCompletedTotal) - before; got != 1 {
		t.Fatalf("expected exactly one completion counted, got %v", got)
	}
}
