package domain

import (
	"time"

	"github.com/google/uuid"
)

// Class is a grade/section pair students are enrolled in.
type Class struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Grade     string    `json:"grade" db:"grade"`
	Section   string    `json:"section" db:"section"`
	Capacity  int       `json:"capacity" db:"capacity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Student holds an explicit reference to its class.
type Student struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	UserID          string     `json:"user_id" db:"user_id"`
	ParentUserID    *string    `json:"parent_user_id,omitempty" db:"parent_user_id"`
	ClassID         *uuid.UUID `json:"class_id,omitempty" db:"class_id"`
	Name            string     `json:"name" db:"name"`
	AdmissionNumber *string    `json:"admission_number,omitempty" db:"admission_number"`
	ContactEmail    *string    `json:"contact_email,omitempty" db:"contact_email"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// Email returns the contact address, or "" when none is on file.
func (s *Student) Email() string {
	if s.ContactEmail == nil {
		return ""
	}
	return *s.ContactEmail
}
