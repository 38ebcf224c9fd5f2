package domain

import "time"

// Certificate proves completion of a course. Immutable once issued.
type Certificate struct {
	ID                string    `json:"id" bson:"id"`
	UserID            string    `json:"user_id" bson:"user_id"`
	CourseID          string    `json:"course_id" bson:"course_id"`
	CourseTitle       string    `json:"course_title" bson:"course_title"`
	UserName          string    `json:"user_name" bson:"user_name"`
	CreditHours       int       `json:"credit_hours" bson:"credit_hours"`
	IssuedAt          time.Time `json:"issued_at" bson:"issued_at"`
	CertificateNumber string    `json:"certificate_number" bson:"certificate_number"`
}

// Verification is the result of looking up a certificate number.
type Verification struct {
	Valid       bool         `json:"valid"`
	Certificate *Certificate `json:"certificate,omitempty"`
}
