package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/righttechcentre/lms-api/internal/core/domain"
	"github.com/righttechcentre/lms-api/internal/core/ports"
)

func TestTutorService_Chat_StoresExchange(t *testing.T) {
	model := &stubChatModel{answer: "Goroutines are lightweight threads."}
	chats := &stubChatRepo{}
	svc := NewTutorService(model, chats, discardLogger)

	reply, err := svc.Chat(context.Background(), ports.ChatInput{
		UserID:        "bob",
		Content:       "What is a goroutine?",
		LessonContext: "Concurrency in Go",
		CourseID:      "c1",
	})
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if reply.Response != model.answer {
		t.Errorf("unexpected response %q", reply.Response)
	}
	if reply.SessionID != "rtc-bob-c1" {
		t.Errorf("unexpected session id %q", reply.SessionID)
	}
	if len(chats.exchanges) != 1 || chats.exchanges[0].UserMessage != "What is a goroutine?" {
		t.Fatalf("exchange not stored: %+v", chats.exchanges)
	}
	if !strings.Contains(model.messages[0].Content, "Concurrency in Go") {
		t.Errorf("lesson context missing from system prompt")
	}
}

func TestTutorService_Chat_GeneralSession(t *testing.T) {
	svc := NewTutorService(&stubChatModel{answer: "ok"}, &stubChatRepo{}, discardLogger)

	reply, err := svc.Chat(context.Background(), ports.ChatInput{UserID: "bob", Content: "hi"})
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if reply.SessionID != "rtc-bob-general" {
		t.Errorf("unexpected session id %q", reply.SessionID)
	}
}

func TestTutorService_Chat_StoreFailureStillAnswers(t *testing.T) {
	svc := NewTutorService(&stubChatModel{answer: "ok"}, &stubChatRepo{insertErr: errors.New("db down")}, discardLogger)

	reply, err := svc.Chat(context.Background(), ports.ChatInput{UserID: "bob", Content: "hi"})
	if err != nil {
		t.Fatalf("Chat must succeed when storing fails, got %v", err)
	}
	if reply.Response != "ok" {
		t.Fatalf("unexpected response %q", reply.Response)
	}
}

func TestTutorService_NotConfigured(t *testing.T) {
	svc := NewTutorService(nil, &stubChatRepo{}, discardLogger)

	if _, err := svc.Chat(context.Background(), ports.ChatInput{UserID: "bob", Content: "hi"}); !errors.Is(err, domain.ErrTutorNotConfigured) {
		t.Fatalf("expected ErrTutorNotConfigured, got %v", err)
	}
	if _, err := svc.GenerateQuiz(context.Background(), "Go", 5); !errors.Is(err, domain.ErrTutorNotConfigured) {
		t.Fatalf("expected ErrTutorNotConfigured, got %v", err)
	}
}

func TestTutorService_GenerateQuiz_ParsesEmbeddedJSON(t *testing.T) {
	model := &stubChatModel{answer: "Here you go:\n```json\n" +
		`{"questions":[{"question":"2+2?","options":["3","4","5","6"],"correct_answer":1,"explanation":"math"}]}` +
		"\n```"}
	svc := NewTutorService(model, &stubChatRepo{}, discardLogger)

	quiz, err := svc.GenerateQuiz(context.Background(), "arithmetic", 1)
	if err != nil {
		t.Fatalf("GenerateQuiz returned error: %v", err)
	}
	if len(quiz.Questions) != 1 || quiz.Questions[0].CorrectAnswer != 1 {
		t.Fatalf("unexpected quiz: %+v", quiz)
	}
	if quiz.RawResponse != "" {
		t.Errorf("raw response must be empty on success")
	}
	if !strings.Contains(model.messages[1].Content, "Generate 1 multiple choice questions about: arithmetic") {
		t.Errorf("unexpected prompt %q", model.messages[1].Content)
	}
}

func TestTutorService_GenerateQuiz_FallsBackToRaw(t *testing.T) {
	model := &stubChatModel{answer: "Sorry, I cannot do that."}
	svc := NewTutorService(model, &stubChatRepo{}, discardLogger)

	quiz, err := svc.GenerateQuiz(context.Background(), "Go", 0)
	if err != nil {
		t.Fatalf("GenerateQuiz returned error: %v", err)
	}
	if quiz.RawResponse != model.answer || len(quiz.Questions) != 0 {
		t.Fatalf("expected raw fallback, got %+v", quiz)
	}
	if !strings.Contains(model.messages[1].Content, "Generate 10 ") {
		t.Errorf("expected default question count, got %q", model.messages[1].Content)
	}
}

func TestTutorService_GenerateQuiz_EmptyTopic(t *testing.T) {
	svc := NewTutorService(&stubChatModel{}, &stubChatRepo{}, discardLogger)

	if _, err := svc.GenerateQuiz(context.Background(), "  ", 3); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
