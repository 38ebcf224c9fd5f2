package domain

import "time"

// ChatExchange is one stored question/answer pair with the AI tutor.
type ChatExchange struct {
	ID          string    `json:"id" bson:"id"`
	UserID      string    `json:"user_id" bson:"user_id"`
	SessionID   string    `json:"session_id" bson:"session_id"`
	CourseID    string    `json:"course_id,omitempty" bson:"course_id,omitempty"`
	UserMessage string    `json:"user_message" bson:"user_message"`
	AIResponse  string    `json:"ai_response" bson:"ai_response"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// QuizQuestion is one generated multiple-choice question.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// Quiz is the parsed model output. RawResponse is set when parsing failed.
type Quiz struct {
	Questions   []QuizQuestion `json:"questions,omitempty"`
	RawResponse string         `json:"raw_response,omitempty"`
}
