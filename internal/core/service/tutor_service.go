package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/righttechcentre/lms-api/internal/core/domain"
	"github.com/righttechcentre/lms-api/internal/core/ports"
)

const (
	tutorSystemPrompt = `You are an AI Tutor for Right Tech Centre, an AI-powered tech education platform.
You help students understand course material, answer questions about programming, data science,
cybersecurity, AI/ML, and other tech topics. Be helpful, encouraging, and provide clear explanations.
When explaining code, use markdown code blocks with proper syntax highlighting.`

	quizSystemPrompt = `You are an expert educator creating quiz questions.
Respond with JSON only, using this structure:
{"questions": [{"question": "...", "options": ["A", "B", "C", "D"], "correct_answer": 0, "explanation": "..."}]}
Make questions challenging but fair, covering key concepts.`

	defaultQuizQuestions = 10
	maxQuizQuestions     = 50
	historyLimit         = 50
)

// TutorService answers student questions through the chat model.
type TutorService struct {
	model ports.ChatModel
	chats ports.ChatRepository
	log   zerolog.Logger
}

// NewTutorService wires the tutor. model may be nil when no key is configured.
func NewTutorService(model ports.ChatModel, chats ports.ChatRepository, log zerolog.Logger) *TutorService {
	return &TutorService{model: model, chats: chats, log: log}
}

// Chat sends the question with optional lesson context and stores the exchange.
func (s *TutorService) Chat(ctx context.Context, in ports.ChatInput) (*ports.ChatReply, error) {
	if s.model == nil {
		return nil, domain.ErrTutorNotConfigured
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, domain.NewValidationError("content is required")
	}

	system := tutorSystemPrompt
	if in.LessonContext != "" {
		system += "\n\nCurrent lesson context: " + in.LessonContext
	}

	answer, err := s.model.Complete(ctx, []ports.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: in.Content},
	})
	if err != nil {
		return nil, fmt.Errorf("tutor chat: %w", err)
	}

	sessionID := chatSessionID(in.UserID, in.CourseID)
	ex := &domain.ChatExchange{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		SessionID:   sessionID,
		CourseID:    in.CourseID,
		UserMessage: in.Content,
		AIResponse:  answer,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.chats.Insert(ctx, ex); err != nil {
		// The student already has the answer; losing the transcript is not fatal.
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to store chat exchange")
	}

	return &ports.ChatReply{Response: answer, SessionID: sessionID}, nil
}

func (s *TutorService) History(ctx context.Context, userID, courseID string) ([]*domain.ChatExchange, error) {
	return s.chats.ListByUser(ctx, userID, courseID, historyLimit)
}

// GenerateQuiz asks the model for multiple-choice questions about topic.
// Unparsable output is returned verbatim in RawResponse.
func (s *TutorService) GenerateQuiz(ctx context.Context, topic string, numQuestions int) (*domain.Quiz, error) {
	if s.model == nil {
		return nil, domain.ErrTutorNotConfigured
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, domain.NewValidationError("topic is required")
	}
	if numQuestions <= 0 {
		numQuestions = defaultQuizQuestions
	}
	if numQuestions > maxQuizQuestions {
		numQuestions = maxQuizQuestions
	}

	answer, err := s.model.Complete(ctx, []ports.ChatMessage{
		{Role: "system", Content: quizSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Generate %d multiple choice questions about: %s", numQuestions, topic)},
	})
	if err != nil {
		return nil, fmt.Errorf("generate quiz: %w", err)
	}
	return parseQuiz(answer), nil
}

// parseQuiz extracts the outermost JSON object from the model's answer.
func parseQuiz(answer string) *domain.Quiz {
	start := strings.Index(answer, "{")
	end := strings.LastIndex(answer, "}")
	if start == -1 || end <= start {
		return &domain.Quiz{RawResponse: answer}
	}

	var quiz domain.Quiz
	if err := json.Unmarshal([]byte(answer[start:end+1]), &quiz); err != nil || len(quiz.Questions) == 0 {
		return &domain.Quiz{RawResponse: answer}
	}
	return &quiz
}

func chatSessionID(userID, courseID string) string {
	if courseID == "" {
		courseID = "general"
	}
	return "rtc-" + userID + "-" + courseID
}
