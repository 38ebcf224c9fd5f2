package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/righttechcentre/lms-api/internal/core/ports"
)

// TutorHandler serves the AI tutor endpoints.
type TutorHandler struct {
	tutor ports.TutorService
}

func NewTutorHandler(tutor ports.TutorService) *TutorHandler {
	return &TutorHandler{tutor: tutor}
}

// Chat handles POST /ai/chat.
//
// @Summary      Ask the AI tutor
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      chatRequest  true  "Question"
// @Success      200   {object}  chatResponse
// @Failure      502   {object}  errorResponse
// @Router       /ai/chat [post]
func (h *TutorHandler) Chat(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req chatRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	reply, err := h.tutor.Chat(c.Request().Context(), ports.ChatInput{
		UserID:        actor.UserID,
		Content:       req.Content,
		LessonContext: req.LessonContext,
		CourseID:      req.CourseID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, chatResponse{Response: reply.Response, SessionID: reply.SessionID})
}

// History handles GET /ai/history.
//
// @Summary      My tutor history
// @Tags         ai
// @Produce      json
// @Security     BearerAuth
// @Param        course_id  query  string  false  "Restrict to one course"
// @Success      200        {array}  domain.ChatExchange
// @Router       /ai/history [get]
func (h *TutorHandler) History(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	list, err := h.tutor.History(c.Request().Context(), actor.UserID, c.QueryParam("course_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// GenerateQuiz handles POST /ai/generate-quiz.
//
// @Summary      Generate a multiple-choice quiz
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      quizRequest  true  "Topic and size"
// @Success      200   {object}  domain.Quiz
// @Failure      403   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /ai/generate-quiz [post]
func (h *TutorHandler) GenerateQuiz(c echo.Context) error {
	var req quizRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	quiz, err := h.tutor.GenerateQuiz(c.Request().Context(), req.Topic, req.NumQuestions)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, quiz)
}
