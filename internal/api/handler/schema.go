package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role"      validate:"omitempty,oneof=student instructor admin"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	ProfileImage string    `json:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        userResponse `json:"user"`
}

type updateRoleRequest struct {
	NewRole string `json:"new_role" validate:"required,oneof=student instructor admin"`
}

// --- Courses ---

type moduleRequest struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"          validate:"required"`
	Description   string   `json:"description"`
	Objectives    []string `json:"objectives"`
	DurationHours int      `json:"duration_hours" validate:"gte=0"`
}

type createCourseRequest struct {
	Title          string          `json:"title"           validate:"required"`
	Description    string          `json:"description"     validate:"required"`
	CourseType     string          `json:"course_type"     validate:"required,oneof=diploma bachelor certification"`
	Thumbnail      string          `json:"thumbnail"`
	Price          float64         `json:"price"           validate:"gte=0"`
	CreditHours    int             `json:"credit_hours"    validate:"gte=0"`
	DurationMonths int             `json:"duration_months" validate:"gte=0"`
	IsPublished    bool            `json:"is_published"`
	Modules        []moduleRequest `json:"modules"         validate:"dive"`
}

// updateCourseRequest lists every mutable field. Unknown keys are rejected.
type updateCourseRequest struct {
	Title          *string          `json:"title"`
	Description    *string          `json:"description"`
	CourseType     *string          `json:"course_type"`
	Thumbnail      *string          `json:"thumbnail"`
	Price          *float64         `json:"price"`
	CreditHours    *int             `json:"credit_hours"`
	DurationMonths *int             `json:"duration_months"`
	IsPublished    *bool            `json:"is_published"`
	Modules        *[]moduleRequest `json:"modules"`
}

// --- Enrollments ---

type enrollRequest struct {
	CourseID string `json:"course_id" validate:"required"`
}

type progressRequest struct {
	ModuleID string `json:"module_id" validate:"required"`
}

type progressResponse struct {
	Message  string  `json:"message"`
	Progress float64 `json:"progress"`
	Status   string  `json:"status"`
}

// --- Payments ---

type checkoutRequest struct {
	CourseID  string `json:"course_id"  validate:"required"`
	OriginURL string `json:"origin_url" validate:"required,url"`
}

type checkoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
}

type paymentStatusResponse struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	AmountTotal   int64  `json:"amount_total"`
	Currency      string `json:"currency"`
}

type webhookAck struct {
	Received bool `json:"received"`
}

// --- AI tutor ---

type chatRequest struct {
	Content       string `json:"content" validate:"required"`
	LessonContext string `json:"lesson_context"`
	CourseID      string `json:"course_id"`
}

type chatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

type quizRequest struct {
	Topic        string `json:"topic"         validate:"required"`
	NumQuestions int    `json:"num_questions" validate:"gte=0,max=50"`
}

// --- Certificates ---

type issueCertificateRequest struct {
	EnrollmentID string `json:"enrollment_id" validate:"required"`
}

type verifyResponse struct {
	Valid       bool   `json:"valid"`
	Certificate any    `json:"certificate,omitempty"`
	Message     string `json:"message,omitempty"`
}

// --- Analytics ---

type analyticsResponse struct {
	TotalUsers        int64            `json:"total_users"`
	TotalCourses      int64            `json:"total_courses"`
	TotalEnrollments  int64            `json:"total_enrollments"`
	TotalCertificates int64            `json:"total_certificates"`
	TotalRevenue      float64          `json:"total_revenue"`
	UsersByRole       map[string]int64 `json:"users_by_role"`
}
