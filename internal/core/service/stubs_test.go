package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/righttechcentre/lms-api/internal/core/domain"
	"github.com/righttechcentre/lms-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User // by id
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context, role domain.Role) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.users {
		if role == "" || u.Role == role {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

// ---------------------------------------------------------------------------
// Courses
// ---------------------------------------------------------------------------

type stubCourseRepo struct {
	mu      sync.Mutex
	courses map[string]*domain.Course
	incs    int
}

func newStubCourseRepo(courses ...*domain.Course) *stubCourseRepo {
	r := &stubCourseRepo{courses: make(map[string]*domain.Course)}
	for _, c := range courses {
		r.courses[c.ID] = cloneCourse(c)
	}
	return r
}

func cloneCourse(c *domain.Course) *domain.Course {
	clone := *c
	clone.Modules = append([]domain.Module(nil), c.Modules...)
	return &clone
}

func (r *stubCourseRepo) Create(_ context.Context, c *domain.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.courses[c.ID] = cloneCourse(c)
	return nil
}

func (r *stubCourseRepo) InsertMany(ctx context.Context, courses []*domain.Course) error {
	for _, c := range courses {
		if err := r.Create(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *stubCourseRepo) FindByID(_ context.Context, id string) (*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	return cloneCourse(c), nil
}

func (r *stubCourseRepo) List(_ context.Context, f ports.ListCoursesFilter) ([]*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Course
	for _, c := range r.courses {
		if f.Type != "" && c.Type != f.Type {
			continue
		}
		if f.Published != nil && c.Published != *f.Published {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, cloneCourse(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *stubCourseRepo) Update(_ context.Context, id string, p domain.CoursePatch) (*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.Price != nil {
		c.Price = *p.Price
	}
	if p.Published != nil {
		c.Published = *p.Published
	}
	if p.Modules != nil {
		c.Modules = append([]domain.Module(nil), (*p.Modules)...)
	}
	return cloneCourse(c), nil
}

func (r *stubCourseRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[id]; !ok {
		return domain.ErrCourseNotFound
	}
	delete(r.courses, id)
	return nil
}

func (r *stubCourseRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.courses)), nil
}

func (r *stubCourseRepo) IncrementEnrolled(_ context.Context, id string, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return domain.ErrCourseNotFound
	}
	c.EnrolledCount += delta
	r.incs++
	return nil
}

func (r *stubCourseRepo) SetEnrolledCounts(_ context.Context, counts map[string]int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, n := range counts {
		if c, ok := r.courses[id]; ok {
			c.EnrolledCount = n
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Enrollments
// ---------------------------------------------------------------------------

// stubEnrollmentRepo mirrors the Mongo adapter, including the unique
// (user_id, course_id) index and the $max progress update.
type stubEnrollmentRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Enrollment
	courses *stubCourseRepo
}

func newStubEnrollmentRepo(courses *stubCourseRepo) *stubEnrollmentRepo {
	return &stubEnrollmentRepo{byID: make(map[string]*domain.Enrollment), courses: courses}
}

func cloneEnrollment(e *domain.Enrollment) *domain.Enrollment {
	clone := *e
	clone.CompletedModules = append([]string{}, e.CompletedModules...)
	return &clone
}

func (r *stubEnrollmentRepo) CreateCounted(ctx context.Context, e *domain.Enrollment) error {
	r.mu.Lock()
	for _, existing := range r.byID {
		if existing.UserID == e.UserID && existing.CourseID == e.CourseID {
			r.mu.Unlock()
			return domain.ErrAlreadyEnrolled
		}
	}
	r.byID[e.ID] = cloneEnrollment(e)
	r.mu.Unlock()
	return r.courses.IncrementEnrolled(ctx, e.CourseID, 1)
}

func (r *stubEnrollmentRepo) FindByID(_ context.Context, id, userID string) (*domain.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok || e.UserID != userID {
		return nil, domain.ErrEnrollmentNotFound
	}
	return cloneEnrollment(e), nil
}

func (r *stubEnrollmentRepo) FindByUserCourse(_ context.Context, userID, courseID string) (*domain.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.byID {
		if e.UserID == userID && e.CourseID == courseID {
			return cloneEnrollment(e), nil
		}
	}
	return nil, domain.ErrEnrollmentNotFound
}

func (r *stubEnrollmentRepo) ListByUser(_ context.Context, userID string) ([]*domain.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Enrollment{}
	for _, e := range r.byID {
		if e.UserID == userID {
			out = append(out, cloneEnrollment(e))
		}
	}
	return out, nil
}

func (r *stubEnrollmentRepo) AddCompletedModule(_ context.Context, id, userID, moduleID string) (*domain.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok || e.UserID != userID {
		return nil, domain.ErrEnrollmentNotFound
	}
	e.AddModule(moduleID)
	return cloneEnrollment(e), nil
}

func (r *stubEnrollmentRepo) SaveProgress(_ context.Context, id string, progress float64, completedAt *time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok {
		return false, domain.ErrEnrollmentNotFound
	}
	if progress > e.Progress {
		e.Progress = progress
	}
	if completedAt != nil && e.Status == domain.EnrollmentActive {
		e.Status = domain.EnrollmentCompleted
		e.CompletedAt = completedAt
		return true, nil
	}
	return false, nil
}

func (r *stubEnrollmentRepo) CountByCourse(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]int64{}
	for _, e := range r.byID {
		out[e.CourseID]++
	}
	return out, nil
}

func (r *stubEnrollmentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// ---------------------------------------------------------------------------
// Payments
// ---------------------------------------------------------------------------

type stubPaymentRepo struct {
	mu        sync.Mutex
	bySession map[string]*domain.PaymentTransaction
}

func newStubPaymentRepo() *stubPaymentRepo {
	return &stubPaymentRepo{bySession: make(map[string]*domain.PaymentTransaction)}
}

func (r *stubPaymentRepo) Create(_ context.Context, tx *domain.PaymentTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bySession[tx.SessionID]; ok {
		return domain.ErrDuplicateTransaction
	}
	clone := *tx
	r.bySession[tx.SessionID] = &clone
	return nil
}

func (r *stubPaymentRepo) FindBySession(_ context.Context, sessionID string) (*domain.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.bySession[sessionID]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	clone := *tx
	return &clone, nil
}

func (r *stubPaymentRepo) ListByUser(_ context.Context, userID string) ([]*domain.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.PaymentTransaction{}
	for _, tx := range r.bySession {
		if tx.UserID == userID {
			clone := *tx
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubPaymentRepo) Transition(_ context.Context, sessionID string, status domain.TransactionStatus, ps domain.PaymentStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.bySession[sessionID]
	if !ok {
		return false, domain.ErrTransactionNotFound
	}
	if !tx.Status.CanTransitionTo(status) {
		return false, nil
	}
	tx.Status = status
	tx.PaymentStatus = ps
	tx.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *stubPaymentRepo) ListPendingBefore(_ context.Context, cutoff time.Time, limit int64) ([]*domain.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.PaymentTransaction
	for _, tx := range r.bySession {
		if tx.Status == domain.TransactionPending && tx.CreatedAt.Before(cutoff) {
			clone := *tx
			out = append(out, &clone)
		}
		if int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

// stubGateway plays the payment provider. states maps session id to the
// state returned by GetSessionState.
type stubGateway struct {
	mu       sync.Mutex
	nextID   int
	states   map[string]*domain.SessionState
	lastReq  ports.CheckoutRequest
	webhook  *domain.PaymentNotification
	parseErr error
}

func newStubGateway() *stubGateway {
	return &stubGateway{states: make(map[string]*domain.SessionState)}
}

func (g *stubGateway) CreateCheckoutSession(_ context.Context, req ports.CheckoutRequest) (*domain.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	id := "cs_test_" + strconv.Itoa(g.nextID)
	g.lastReq = req
	g.states[id] = &domain.SessionState{SessionID: id, Status: "open", PaymentStatus: domain.PaymentUnpaid}
	return &domain.CheckoutSession{SessionID: id, URL: "https://checkout.test/" + id}, nil
}

func (g *stubGateway) GetSessionState(_ context.Context, sessionID string) (*domain.SessionState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.states[sessionID]
	if !ok {
		return nil, domain.NewExternalError("no such session")
	}
	clone := *s
	return &clone, nil
}

func (g *stubGateway) ParseWebhook(_ []byte, _ string) (*domain.PaymentNotification, error) {
	if g.parseErr != nil {
		return nil, g.parseErr
	}
	return g.webhook, nil
}

func (g *stubGateway) settle(sessionID, status string, ps domain.PaymentStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.states[sessionID].Status = status
	g.states[sessionID].PaymentStatus = ps
}

type stubDedup struct {
	seen map[string]bool
}

func (d *stubDedup) Claim(_ context.Context, key string) (bool, error) {
	if d.seen[key] {
		return false, nil
	}
	d.seen[key] = true
	return true, nil
}

// ---------------------------------------------------------------------------
// Certificates
// ---------------------------------------------------------------------------

type stubCertificateRepo struct {
	mu    sync.Mutex
	certs map[string]*domain.Certificate // by id
}

func newStubCertificateRepo() *stubCertificateRepo {
	return &stubCertificateRepo{certs: make(map[string]*domain.Certificate)}
}

func (r *stubCertificateRepo) Create(_ context.Context, c *domain.Certificate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.certs {
		if existing.CertificateNumber == c.CertificateNumber ||
			(existing.UserID == c.UserID && existing.CourseID == c.CourseID) {
			return domain.ErrCertificateExists
		}
	}
	clone := *c
	r.certs[c.ID] = &clone
	return nil
}

func (r *stubCertificateRepo) find(match func(*domain.Certificate) bool) (*domain.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.certs {
		if match(c) {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrCertificateNotFound
}

func (r *stubCertificateRepo) FindByID(_ context.Context, id string) (*domain.Certificate, error) {
	return r.find(func(c *domain.Certificate) bool { return c.ID == id })
}

func (r *stubCertificateRepo) FindByNumber(_ context.Context, number string) (*domain.Certificate, error) {
	return r.find(func(c *domain.Certificate) bool { return c.CertificateNumber == number })
}

func (r *stubCertificateRepo) FindByUserCourse(_ context.Context, userID, courseID string) (*domain.Certificate, error) {
	return r.find(func(c *domain.Certificate) bool { return c.UserID == userID && c.CourseID == courseID })
}

func (r *stubCertificateRepo) ListByUser(_ context.Context, userID string) ([]*domain.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Certificate{}
	for _, c := range r.certs {
		if c.UserID == userID {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Tutor
// ---------------------------------------------------------------------------

type stubChatModel struct {
	answer   string
	err      error
	messages []ports.ChatMessage
}

func (m *stubChatModel) Complete(_ context.Context, messages []ports.ChatMessage) (string, error) {
	m.messages = messages
	return m.answer, m.err
}

type stubChatRepo struct {
	exchanges []*domain.ChatExchange
	insertErr error
}

func (r *stubChatRepo) Insert(_ context.Context, ex *domain.ChatExchange) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.exchanges = append(r.exchanges, ex)
	return nil
}

func (r *stubChatRepo) ListByUser(_ context.Context, userID, courseID string, limit int64) ([]*domain.ChatExchange, error) {
	var out []*domain.ChatExchange
	for _, ex := range r.exchanges {
		if ex.UserID == userID && (courseID == "" || ex.CourseID == courseID) {
			out = append(out, ex)
		}
	}
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func courseWithModules(id string, n int) *domain.Course {
	c := &domain.Course{
		ID:        id,
		Title:     "Course " + id,
		Type:      domain.CourseTypeDiploma,
		Price:     2499,
		Published: true,
		Modules:   make([]domain.Module, n),
	}
	for i := range c.Modules {
		c.Modules[i] = domain.Module{ID: id + "-m" + strconv.Itoa(i+1), Title: "Module"}
	}
	return c
}
