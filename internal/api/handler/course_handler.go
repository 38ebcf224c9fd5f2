package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/righttechcentre/lms-api/internal/core/domain"
	"github.com/righttechcentre/lms-api/internal/core/ports"
)

// CourseHandler handles HTTP requests for the course catalog.
type CourseHandler struct {
	courses ports.CourseService
}

func NewCourseHandler(courses ports.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// List handles GET /courses. Only published courses are listed unless
// published=false is passed.
//
// @Summary      List courses
// @Tags         courses
// @Produce      json
// @Param        course_type   query     string  false  "diploma, bachelor or certification"
// @Param        is_published  query     bool    false  "Defaults to true"
// @Param        search        query     string  false  "Case-insensitive match on title or description"
// @Success      200           {array}   domain.Course
// @Failure      400           {object}  errorResponse
// @Router       /courses [get]
func (h *CourseHandler) List(c echo.Context) error {
	in := ports.ListCoursesInput{
		Type:   c.QueryParam("course_type"),
		Search: c.QueryParam("search"),
	}
	if raw := c.QueryParam("is_published"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return domain.NewValidationError("is_published must be a boolean")
		}
		in.Published = &v
	}

	courses, err := h.courses.List(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, courses)
}

// Get handles GET /courses/:id.
//
// @Summary      Get a course
// @Tags         courses
// @Produce      json
// @Param        id   path      string  true  "Course id"
// @Success      200  {object}  domain.Course
// @Failure      404  {object}  errorResponse
// @Router       /courses/{id} [get]
func (h *CourseHandler) Get(c echo.Context) error {
	course, err := h.courses.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, course)
}

// Create handles POST /courses.
//
// @Summary      Create a course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCourseRequest  true  "Course"
// @Success      201   {object}  domain.Course
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /courses [post]
func (h *CourseHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req createCourseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	course, err := h.courses.Create(c.Request().Context(), actor, ports.CreateCourseInput{
		Title:          req.Title,
		Description:    req.Description,
		Type:           req.CourseType,
		Thumbnail:      req.Thumbnail,
		Price:          req.Price,
		CreditHours:    req.CreditHours,
		DurationMonths: req.DurationMonths,
		Published:      req.IsPublished,
		Modules:        toModuleInputs(req.Modules),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, course)
}

// Update handles PUT /courses/:id.
//
// @Summary      Update a course
// @Description  Partial update. Only the listed fields may be sent; unknown keys are rejected.
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Course id"
// @Param        body  body      updateCourseRequest  true  "Fields to change"
// @Success      200   {object}  domain.Course
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /courses/{id} [put]
func (h *CourseHandler) Update(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req updateCourseRequest
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.NewValidationError("empty payload")
		}
		return domain.NewValidationError("invalid payload: " + err.Error())
	}
	if req.Modules != nil {
		for _, m := range *req.Modules {
			if err := c.Validate(m); err != nil {
				return err
			}
		}
	}

	patch, err := toCoursePatch(req)
	if err != nil {
		return err
	}
	course, err := h.courses.Update(c.Request().Context(), actor, c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, course)
}

// Delete handles DELETE /courses/:id.
//
// @Summary      Delete a course
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Course id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /courses/{id} [delete]
func (h *CourseHandler) Delete(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.courses.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Course deleted successfully"})
}
