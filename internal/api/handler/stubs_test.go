package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/righttechcentre/lms-api/internal/api/middleware"
	"github.com/righttechcentre/lms-api/internal/core/domain"
	"github.com/righttechcentre/lms-api/internal/core/ports"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newJSONContext builds a context for method/target with an optional JSON
// body and, when userID is set, the identity the Auth middleware would inject.
func newJSONContext(e *echo.Echo, method, target, body, userID string, role domain.Role) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextRole, string(role))
	}
	return c, rec
}

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	meFn       func(ctx context.Context, userID string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.meFn(ctx, userID)
}

type stubCourseService struct {
	listFn   func(ctx context.Context, in ports.ListCoursesInput) ([]*domain.Course, error)
	createFn func(ctx context.Context, actor domain.Actor, in ports.CreateCourseInput) (*domain.Course, error)
	updateFn func(ctx context.Context, actor domain.Actor, id string, patch domain.CoursePatch) (*domain.Course, error)
}

func (s *stubCourseService) List(ctx context.Context, in ports.ListCoursesInput) ([]*domain.Course, error) {
	return s.listFn(ctx, in)
}

func (s *stubCourseService) Get(ctx context.Context, id string) (*domain.Course, error) {
	return nil, domain.ErrCourseNotFound
}

func (s *stubCourseService) Create(ctx context.Context, actor domain.Actor, in ports.CreateCourseInput) (*domain.Course, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubCourseService) Update(ctx context.Context, actor domain.Actor, id string, patch domain.CoursePatch) (*domain.Course, error) {
	return s.updateFn(ctx, actor, id, patch)
}

func (s *stubCourseService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	return nil
}

type stubPaymentService struct {
	checkoutFn func(ctx context.Context, in ports.CheckoutInput) (*domain.CheckoutSession, error)
	pollFn     func(ctx context.Context, userID, sessionID string) (*domain.SessionState, error)
	webhookFn  func(ctx context.Context, payload []byte, signature string) error
}

func (s *stubPaymentService) Checkout(ctx context.Context, in ports.CheckoutInput) (*domain.CheckoutSession, error) {
	return s.checkoutFn(ctx, in)
}

func (s *stubPaymentService) PollStatus(ctx context.Context, userID, sessionID string) (*domain.SessionState, error) {
	return s.pollFn(ctx, userID, sessionID)
}

func (s *stubPaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	return s.webhookFn(ctx, payload, signature)
}

func (s *stubPaymentService) ApplyNotification(ctx context.Context, n domain.PaymentNotification) error {
	return nil
}

func (s *stubPaymentService) ListTransactions(ctx context.Context, userID string) ([]*domain.PaymentTransaction, error) {
	return []*domain.PaymentTransaction{}, nil
}

func (s *stubPaymentService) ReconcilePending(ctx context.Context, olderThan time.Duration) (int, error) {
	return 0, nil
}

type stubEnrollmentService struct {
	enrollFn   func(ctx context.Context, userID, courseID string) (*domain.Enrollment, error)
	progressFn func(ctx context.Context, userID, enrollmentID, moduleID string) (*ports.ProgressResult, error)
}

func (s *stubEnrollmentService) Enroll(ctx context.Context, userID, courseID string) (*domain.Enrollment, error) {
	return s.enrollFn(ctx, userID, courseID)
}

func (s *stubEnrollmentService) RecordModuleCompletion(ctx context.Context, userID, enrollmentID, moduleID string) (*ports.ProgressResult, error) {
	return s.progressFn(ctx, userID, enrollmentID, moduleID)
}

func (s *stubEnrollmentService) List(ctx context.Context, userID string) ([]*domain.Enrollment, error) {
	return []*domain.Enrollment{}, nil
}

func (s *stubEnrollmentService) Get(ctx context.Context, userID, enrollmentID string) (*domain.Enrollment, error) {
	return nil, domain.ErrEnrollmentNotFound
}

func (s *stubEnrollmentService) EnsureFromPayment(ctx context.Context, tx *domain.PaymentTransaction) (bool, error) {
	return false, nil
}

type stubCertificateService struct {
	verifyFn func(ctx context.Context, number string) (*domain.Verification, error)
	issueFn  func(ctx context.Context, userID, enrollmentID string) (*domain.Certificate, error)
}

func (s *stubCertificateService) Issue(ctx context.Context, userID, enrollmentID string) (*domain.Certificate, error) {
	return s.issueFn(ctx, userID, enrollmentID)
}

func (s *stubCertificateService) Verify(ctx context.Context, number string) (*domain.Verification, error) {
	return s.verifyFn(ctx, number)
}

func (s *stubCertificateService) List(ctx context.Context, userID string) ([]*domain.Certificate, error) {
	return []*domain.Certificate{}, nil
}

func (s *stubCertificateService) Get(ctx context.Context, id string) (*domain.Certificate, error) {
	return nil, domain.ErrCertificateNotFound
}

type stubTutorService struct {
	chatFn    func(ctx context.Context, in ports.ChatInput) (*ports.ChatReply, error)
	historyFn func(ctx context.Context, userID, courseID string) ([]*domain.ChatExchange, error)
	quizFn    func(ctx context.Context, topic string, n int) (*domain.Quiz, error)
}

func (s *stubTutorService) Chat(ctx context.Context, in ports.ChatInput) (*ports.ChatReply, error) {
	return s.chatFn(ctx, in)
}

func (s *stubTutorService) History(ctx context.Context, userID, courseID string) ([]*domain.ChatExchange, error) {
	return s.historyFn(ctx, userID, courseID)
}

func (s *stubTutorService) GenerateQuiz(ctx context.Context, topic string, n int) (*domain.Quiz, error) {
	return s.quizFn(ctx, topic, n)
}
