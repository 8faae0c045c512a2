package domain

import "time"

// SchoolSettings is the single school-wide configuration record.
type SchoolSettings struct {
	SchoolName     string    `json:"school_name" db:"school_name" validate:"required"`
	SchoolAddress  string    `json:"school_address" db:"school_address" validate:"required"`
	SchoolPhone    *string   `json:"school_phone,omitempty" db:"school_phone"`
	SchoolEmail    *string   `json:"school_email,omitempty" db:"school_email" validate:"omitempty,email"`
	CurrentSession string    `json:"current_session" db:"current_session" validate:"required"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultSchoolSettings is returned before an administrator saves settings.
func DefaultSchoolSettings() *SchoolSettings {
	return &SchoolSettings{
		SchoolName:     "My School",
		SchoolAddress:  "123 School Street",
		CurrentSession: "2024-2025",
	}
}
