package user

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	sharedvalidation "furrymatch-backend/internal/shared/validation"
)

const (
	PasswordMinLength = 4
	PasswordMaxLength = 100
)

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Login     string  `json:"login" binding:"required,login"`
	Email     string  `json:"email" binding:"required,email,max=254"`
	Password  string  `json:"password" binding:"required,min=4,max=100"`
	FirstName *string `json:"firstName,omitempty" binding:"omitempty,max=50"`
	LastName  *string `json:"lastName,omitempty" binding:"omitempty,max=50"`
	LangKey   string  `json:"langKey,omitempty" binding:"omitempty,min=2,max=10"`
}

// Normalize lower-cases login and email, the way they are stored.
func (r *RegisterRequest) Normalize() {
	r.Login = strings.ToLower(strings.TrimSpace(r.Login))
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.LangKey == "" {
		r.LangKey = "en"
	}
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Login,
			validation.Required,
			validation.Length(3, 50),
			validation.Match(sharedvalidation.LoginPattern).Error("login may only contain a-z, 0-9, '.', '_', '@', '-'"),
		),
		validation.Field(&r.Email, validation.Required, is.EmailFormat, validation.Length(5, 254)),
		validation.Field(&r.Password, validation.Required, validation.Length(PasswordMinLength, PasswordMaxLength)),
		validation.Field(&r.FirstName, validation.NilOrNotEmpty, validation.Length(1, 50)),
		validation.Field(&r.LastName, validation.NilOrNotEmpty, validation.Length(1, 50)),
	)
}

// LoginRequest is the body of POST /api/authenticate.
type LoginRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.Password, validation.Required, validation.Length(PasswordMinLength, PasswordMaxLength)),
	)
}

// TokenResponse carries the issued JWT.
type TokenResponse struct {
	IDToken string `json:"id_token"`
}
