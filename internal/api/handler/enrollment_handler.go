package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/righttechcentre/lms-api/internal/core/ports"
)

// EnrollmentHandler exposes the caller's enrollments and progress.
type EnrollmentHandler struct {
	enrollments ports.EnrollmentService
}

func NewEnrollmentHandler(enrollments ports.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// List handles GET /enrollments.
//
// @Summary      List my enrollments
// @Tags         enrollments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Enrollment
// @Router       /enrollments [get]
func (h *EnrollmentHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	list, err := h.enrollments.List(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Get handles GET /enrollments/:id.
//
// @Summary      Get one of my enrollments
// @Tags         enrollments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Enrollment id"
// @Success      200  {object}  domain.Enrollment
// @Failure      404  {object}  errorResponse
// @Router       /enrollments/{id} [get]
func (h *EnrollmentHandler) Get(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	e, err := h.enrollments.Get(c.Request().Context(), actor.UserID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

// Create handles POST /enrollments.
//
// @Summary      Enroll in a course
// @Tags         enrollments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      enrollRequest  true  "Course to enroll in"
// @Success      201   {object}  domain.Enrollment
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /enrollments [post]
func (h *EnrollmentHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req enrollRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	e, err := h.enrollments.Enroll(c.Request().Context(), actor.UserID, req.CourseID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, e)
}

// UpdateProgress handles PUT /enrollments/:id/progress.
//
// @Summary      Mark a module completed
// @Tags         enrollments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Enrollment id"
// @Param        body  body      progressRequest  true  "Completed module"
// @Success      200   {object}  progressResponse
// @Failure      404   {object}  errorResponse
// @Router       /enrollments/{id}/progress [put]
func (h *EnrollmentHandler) UpdateProgress(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req progressRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	res, err := h.enrollments.RecordModuleCompletion(c.Request().Context(), actor.UserID, c.Param("id"), req.ModuleID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, progressResponse{
		Message:  "Progress updated",
		Progress: res.Progress,
		Status:   string(res.Enrollment.Status),
	})
}
