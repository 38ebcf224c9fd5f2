package domain

import "time"

// Role is the closed set of access roles.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// ParseRole validates s against the known roles.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return r, nil
	}
	return "", ErrInvalidRole
}

// CanAuthor reports whether the role may create or edit courses.
func (r Role) CanAuthor() bool {
	return r == RoleInstructor || r == RoleAdmin
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id" bson:"id"`
	Email        string    `json:"email" bson:"email"`
	FullName     string    `json:"full_name" bson:"full_name"`
	PasswordHash string    `json:"-" bson:"password"`
	Role         Role      `json:"role" bson:"role"`
	ProfileImage string    `json:"profile_image,omitempty" bson:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// Actor is the identity resolved from a bearer token.
type Actor struct {
	UserID string
	Role   Role
}
