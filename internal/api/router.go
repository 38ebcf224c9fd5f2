package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/righttechcentre/lms-api/docs"
	"github.com/righttechcentre/lms-api/internal/api/handler"
	"github.com/righttechcentre/lms-api/internal/api/middleware"
	"github.com/righttechcentre/lms-api/internal/core/domain"
	"github.com/righttechcentre/lms-api/internal/core/ports"
)

const bodyLimit = "2M"

// Dependencies is everything the router needs to serve the API.
type Dependencies struct {
	JWTSecret   string
	CORSOrigins []string

	Auth         ports.AuthService
	Users        ports.UserService
	Courses      ports.CourseService
	Enrollments  ports.EnrollmentService
	Payments     ports.PaymentService
	Tutor        ports.TutorService
	Certificates ports.CertificateService
	Analytics    ports.AnalyticsService

	// Health maps dependency names to readiness checks.
	Health map[string]handler.Pinger

	// Registerer and Gatherer back the HTTP metrics and /metrics. Nil means
	// the prometheus defaults.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	registerer, gatherer := d.Registerer, d.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "lms",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Users)
	courseHandler := handler.NewCourseHandler(d.Courses)
	enrollmentHandler := handler.NewEnrollmentHandler(d.Enrollments)
	paymentHandler := handler.NewPaymentHandler(d.Payments, d.Log.With().Str("component", "webhook").Logger())
	tutorHandler := handler.NewTutorHandler(d.Tutor)
	certificateHandler := handler.NewCertificateHandler(d.Certificates)
	analyticsHandler := handler.NewAnalyticsHandler(d.Analytics)
	healthHandler := handler.NewHealthHandler(d.Health)

	authed := middleware.Auth(d.JWTSecret)
	authorOnly := middleware.RBAC(domain.RoleInstructor, domain.RoleAdmin)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	api := e.Group("/api")
	api.GET("", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Right Tech Centre API", "version": "1.0.0"})
	})

	// --- Health probes (no auth required) ---
	api.GET("/health", healthHandler.Liveness)
	api.GET("/health/ready", healthHandler.Readiness)

	// --- Auth ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, authed)

	// --- Users (admin) ---
	users := api.Group("/users", authed, adminOnly)
	users.GET("", userHandler.List)
	users.PUT("/:id/role", userHandler.UpdateRole)

	// --- Courses ---
	courses := api.Group("/courses")
	courses.GET("", courseHandler.List)
	courses.GET("/:id", courseHandler.Get)
	courses.POST("", courseHandler.Create, authed, authorOnly)
	courses.PUT("/:id", courseHandler.Update, authed, authorOnly)
	courses.DELETE("/:id", courseHandler.Delete, authed, adminOnly)

	// --- Enrollments ---
	enrollments := api.Group("/enrollments", authed)
	enrollments.GET("", enrollmentHandler.List)
	enrollments.GET("/:id", enrollmentHandler.Get)
	enrollments.POST("", enrollmentHandler.Create)
	enrollments.PUT("/:id/progress", enrollmentHandler.UpdateProgress)

	// --- Payments ---
	payments := api.Group("/payments", authed)
	payments.GET("", paymentHandler.List)
	payments.POST("/checkout", paymentHandler.Checkout)
	payments.GET("/status/:session_id", paymentHandler.Status)
	api.POST("/webhook/stripe", paymentHandler.Webhook)

	// --- AI tutor ---
	ai := api.Group("/ai", authed)
	ai.POST("/chat", tutorHandler.Chat)
	ai.GET("/history", tutorHandler.History)
	ai.POST("/generate-quiz", tutorHandler.GenerateQuiz, authorOnly)

	// --- Certificates ---
	certificates := api.Group("/certificates")
	certificates.GET("", certificateHandler.List, authed)
	certificates.POST("", certificateHandler.Issue, authed)
	certificates.GET("/verify/:number", certificateHandler.Verify)
	certificates.GET("/:id", certificateHandler.Get)

	// --- Analytics (admin) ---
	api.GET("/analytics/overview", analyticsHandler.Overview, authed, adminOnly)

	return e
}
