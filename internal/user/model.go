package user

import (
	"feedback-service/internal/feedback"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	Username  string `bun:"username,pk,type:varchar(20)" json:"username"`
	Password  string `bun:"password,notnull" json:"-"` // bcrypt hash, never serialized
	Email     string `bun:"email,notnull,type:varchar(50)" json:"email"`
	FirstName string `bun:"first_name,notnull,type:varchar(30)" json:"firstName"`
	LastName  string `bun:"last_name,notnull,type:varchar(30)" json:"lastName"`
}

// RegisterRequest is the request body for registration.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=1,max=20"`
	Password  string `json:"password" validate:"required,min=6,max=55"`
	Email     string `json:"email" validate:"required,email,max=50"`
	FirstName string `json:"firstName" validate:"required,max=30"`
	LastName  string `json:"lastName" validate:"required,max=30"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=20"`
	Password string `json:"password" validate:"required"`
}

// ProfileResponse is the user together with the feedback they own.
type ProfileResponse struct {
	User     *User               `json:"user"`
	Feedback []feedback.Feedback `json:"feedback"`
}
