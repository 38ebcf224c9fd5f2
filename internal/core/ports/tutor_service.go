package ports

import (
	"context"

	"github.com/righttechcentre/lms-api/internal/core/domain"
)

// ChatMessage is one turn sent to the language model.
type ChatMessage struct {
	Role    string
	Content string
}

// ChatModel is the external language-model collaborator.
type ChatModel interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// ChatRepository stores tutor exchanges.
type ChatRepository interface {
	Insert(ctx context.Context, ex *domain.ChatExchange) error
	ListByUser(ctx context.Context, userID, courseID string, limit int64) ([]*domain.ChatExchange, error)
}

// ChatInput carries a student question.
type ChatInput struct {
	UserID        string
	Content       string
	LessonContext string
	CourseID      string
}

// ChatReply is the tutor's answer.
type ChatReply struct {
	Response  string
	SessionID string
}

// TutorService answers questions and generates quizzes.
type TutorService interface {
	Chat(ctx context.Context, in ChatInput) (*ChatReply, error)
	History(ctx context.Context, userID, courseID string) ([]*domain.ChatExchange, error)
	GenerateQuiz(ctx context.Context, topic string, numQuestions int) (*domain.Quiz, error)
}
