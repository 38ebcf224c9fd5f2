package domain

import "time"

// CourseType is the program category of a course.
type CourseType string

const (
	CourseTypeDiploma       CourseType = "diploma"
	CourseTypeBachelor      CourseType = "bachelor"
	CourseTypeCertification CourseType = "certification"
)

// ParseCourseType validates s against the known course types.
func ParseCourseType(s string) (CourseType, error) {
	switch t := CourseType(s); t {
	case CourseTypeDiploma, CourseTypeBachelor, CourseTypeCertification:
		return t, nil
	}
	return "", ErrInvalidCourseType
}

// Module is one ordered unit of a course.
type Module struct {
	ID            string   `json:"id" bson:"id"`
	Title         string   `json:"title" bson:"title"`
	Description   string   `json:"description" bson:"description"`
	Objectives    []string `json:"objectives" bson:"objectives"`
	DurationHours int      `json:"duration_hours" bson:"duration_hours"`
}

// Course is a catalog entry.
type Course struct {
	ID             string     `json:"id" bson:"id"`
	Title          string     `json:"title" bson:"title"`
	Description    string     `json:"description" bson:"description"`
	Type           CourseType `json:"course_type" bson:"course_type"`
	Thumbnail      string     `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
	Price          float64    `json:"price" bson:"price"`
	CreditHours    int        `json:"credit_hours" bson:"credit_hours"`
	DurationMonths int        `json:"duration_months" bson:"duration_months"`
	InstructorID   string     `json:"instructor_id,omitempty" bson:"instructor_id,omitempty"`
	Published      bool       `json:"is_published" bson:"is_published"`
	Modules        []Module   `json:"modules" bson:"modules"`
	EnrolledCount  int64      `json:"enrolled_count" bson:"enrolled_count"`
	CreatedAt      time.Time  `json:"created_at" bson:"created_at"`
}

// HasModule reports whether moduleID belongs to the course.
func (c *Course) HasModule(moduleID string) bool {
	for _, m := range c.Modules {
		if m.ID == moduleID {
			return true
		}
	}
	return false
}

// CanBeEditedBy applies the ownership rule: admins edit any course,
// instructors only their own.
func (c *Course) CanBeEditedBy(actor Actor) bool {
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleInstructor:
		return c.InstructorID != "" && c.InstructorID == actor.UserID
	}
	return false
}

// CoursePatch enumerates the mutable course fields. Nil means "leave as is".
type CoursePatch struct {
	Title          *string
	Description    *string
	Type           *CourseType
	Thumbnail      *string
	Price          *float64
	CreditHours    *int
	DurationMonths *int
	Published      *bool
	Modules        *[]Module
}

// IsEmpty reports whether the patch changes nothing.
func (p CoursePatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Type == nil && p.Thumbnail == nil &&
		p.Price == nil && p.CreditHours == nil && p.DurationMonths == nil &&
		p.Published == nil && p.Modules == nil
}
