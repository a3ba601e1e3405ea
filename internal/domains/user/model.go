package user

import (
	"time"
)

// EntityName is the name used in alert and error headers.
const EntityName = "userManagement"

// User maps 1:1 onto the users table.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Login        string    `db:"login" json:"login"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FirstName    *string   `db:"first_name" json:"firstName,omitempty"`
	LastName     *string   `db:"last_name" json:"lastName,omitempty"`
	Activated    bool      `db:"activated" json:"activated"`
	LangKey      string    `db:"lang_key" json:"langKey"`
	CreatedAt    time.Time `db:"created_at" json:"createdDate"`
}

// UserDTO is the account as returned to clients; never carries the hash.
type UserDTO struct {
	ID          int64     `json:"id"`
	Login       string    `json:"login"`
	Email       string    `json:"email"`
	FirstName   *string   `json:"firstName,omitempty"`
	LastName    *string   `json:"lastName,omitempty"`
	Activated   bool      `json:"activated"`
	LangKey     string    `json:"langKey"`
	CreatedDate time.Time `json:"createdDate"`
}

func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:          u.ID,
		Login:       u.Login,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Activated:   u.Activated,
		LangKey:     u.LangKey,
		CreatedDate: u.CreatedAt,
	}
}
