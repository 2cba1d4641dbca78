package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	Department   *string   `json:"department,omitempty" db:"department"`
	EnrollmentNo *string   `json:"enrollment_no,omitempty" db:"enrollment_no"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleFaculty UserRole = "faculty"
	RoleAdmin   UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return true
	default:
		return false
	}
}

// Actor is the authenticated identity the access policy operates on.
type Actor struct {
	ID   uuid.UUID
	Role UserRole
}

func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

type RegisterInput struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	Role         UserRole `json:"role"`
	Department   *string  `json:"department,omitempty"`
	EnrollmentNo *string  `json:"enrollment_no,omitempty"`
}

func (in *RegisterInput) Validate() error {
	if in.Name == "" {
		return Validation("name is required")
	}
	if in.Email == "" {
		return Validation("email is required")
	}
	if len(in.Password) < 8 {
		return Validation("password must be at least 8 characters")
	}
	if in.Role == "" {
		in.Role = RoleStudent
	}
	if !in.Role.IsValid() {
		return Validation("role must be one of student, faculty, admin")
	}
	return nil
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
