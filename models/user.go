package models

import "time"

// User represents an account entity used for authentication and authorization.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	// It is not exposed via JSON and is used only at the persistence layer.
	UserID int64 `json:"-"`

	// Email is the unique login identifier. The domain part is stored
	// lower-cased, the local part verbatim.
	Email string `json:"email"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Password stores the bcrypt hash of the user's password, never plaintext.
	Password string `json:"-"`

	// IsActive marks accounts allowed to obtain tokens.
	IsActive bool `json:"-"`

	// IsStaff and IsSuperuser are administrative flags. They can only be set
	// through the management command and are ignored on the public API.
	IsStaff     bool `json:"-"`
	IsSuperuser bool `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// RegisterRequest is the payload of the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=5,max=128"`
	Name     string `json:"name" validate:"max=255"`
}

// LoginRequest is the payload of the token endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdate carries the fields a user may change on their own profile.
// Nil fields are left untouched. Any other key in the payload is ignored.
type ProfileUpdate struct {
	Name     *string `json:"name" validate:"omitnil,max=255"`
	Password *string `json:"password" validate:"omitnil,min=5,max=128"`
}

// UserResponse is the public representation of a user.
type UserResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NewUserResponse strips everything but the public fields from u.
func NewUserResponse(u User) UserResponse {
	return UserResponse{Email: u.Email, Name: u.Name}
}
