package domain

import (
	"math"
	"time"
)

// EnrollmentStatus represents the lifecycle state of an enrollment.
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
)

// EnrollmentSource records what created the enrollment.
type EnrollmentSource string

const (
	SourceDirect  EnrollmentSource = "direct"
	SourcePayment EnrollmentSource = "payment"
)

// Enrollment is a student's registration in a course.
type Enrollment struct {
	ID               string           `json:"id" bson:"id"`
	UserID           string           `json:"user_id" bson:"user_id"`
	CourseID         string           `json:"course_id" bson:"course_id"`
	Status           EnrollmentStatus `json:"status" bson:"status"`
	Progress         float64          `json:"progress" bson:"progress"`
	CompletedModules []string         `json:"completed_modules" bson:"completed_modules"`
	PaymentID        string           `json:"payment_id,omitempty" bson:"payment_id,omitempty"`
	EnrolledAt       time.Time        `json:"enrolled_at" bson:"enrolled_at"`
	CompletedAt      *time.Time       `json:"completed_at" bson:"completed_at"`
}

// NewEnrollment returns an active enrollment with no progress.
func NewEnrollment(id, userID, courseID string, now time.Time) *Enrollment {
	return &Enrollment{
		ID:               id,
		UserID:           userID,
		CourseID:         courseID,
		Status:           EnrollmentActive,
		Progress:         0,
		CompletedModules: []string{},
		EnrolledAt:       now,
	}
}

// ComputeProgress returns the percentage of distinct course modules present in
// completed. Ids not in the course are ignored; zero modules yields 0.
func ComputeProgress(course *Course, completed []string) float64 {
	total := len(course.Modules)
	if total == 0 {
		return 0
	}
	done := make(map[string]struct{}, len(completed))
	for _, id := range completed {
		if course.HasModule(id) {
			done[id] = struct{}{}
		}
	}
	p := float64(len(done)) / float64(total) * 100
	return math.Min(100, math.Round(p*100)/100)
}

// ProgressUpdate is the outcome of applying a module completion.
type ProgressUpdate struct {
	Progress    float64
	Completed   bool // enrollment is completed after this update
	Transition  bool // this update moved the enrollment to completed
	CompletedAt *time.Time
}

// ApplyCompletion recomputes progress for e against course and decides the
// status transition. Progress never decreases and completion is one-way.
func (e *Enrollment) ApplyCompletion(course *Course, now time.Time) ProgressUpdate {
	p := math.Max(e.Progress, ComputeProgress(course, e.CompletedModules))
	e.Progress = p

	if e.Status == EnrollmentCompleted {
		return ProgressUpdate{Progress: p, Completed: true, CompletedAt: e.CompletedAt}
	}
	if p >= 100 {
		ts := now
		e.Status = EnrollmentCompleted
		e.CompletedAt = &ts
		return ProgressUpdate{Progress: p, Completed: true, Transition: true, CompletedAt: &ts}
	}
	return ProgressUpdate{Progress: p}
}

// AddModule appends moduleID to the completed set if absent.
func (e *Enrollment) AddModule(moduleID string) bool {
	for _, id := range e.CompletedModules {
		if id == moduleID {
			return false
		}
	}
	e.CompletedModules = append(e.CompletedModules, moduleID)
	return true
}
