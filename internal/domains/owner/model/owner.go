package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	sharedvalidation "furrymatch-backend/internal/shared/validation"
)

const EntityName = "owner"

// Owner is the public profile of a registered user. Every attribute is a
// pointer: nil means "not supplied" in a partial update.
type Owner struct {
	ID          *int64  `json:"id"`
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Email       *string `json:"email"`
	Telephone   *string `json:"telephone"`
	City        *string `json:"city"`
	Description *string `json:"description"`
	UserID      *int64  `json:"userId"`
}

func New() *Owner { return &Owner{} }

func (o *Owner) GetID() *int64   { return o.ID }
func (o *Owner) SetID(id *int64) { o.ID = id }

func (o *Owner) Validate() error {
	return validation.ValidateStruct(o,
		validation.Field(&o.FirstName, validation.Required, validation.Length(1, 50)),
		validation.Field(&o.LastName, validation.Required, validation.Length(1, 50)),
		validation.Field(&o.Email, validation.Required, is.EmailFormat, validation.Length(5, 254)),
		validation.Field(&o.Telephone, validation.Length(6, 20), validation.Match(sharedvalidation.TelephonePattern)),
		validation.Field(&o.City, validation.Length(0, 80)),
		validation.Field(&o.Description, validation.Length(0, 1000)),
	)
}

// Merge copies the non-nil fields of patch. The id is never touched.
func (o *Owner) Merge(patch *Owner) {
	if patch.FirstName != nil {
		o.FirstName = patch.FirstName
	}
	if patch.LastName != nil {
		o.LastName = patch.LastName
	}
	if patch.Email != nil {
		o.Email = patch.Email
	}
	if patch.Telephone != nil {
		o.Telephone = patch.Telephone
	}
	if patch.City != nil {
		o.City = patch.City
	}
	if patch.Description != nil {
		o.Description = patch.Description
	}
	if patch.UserID != nil {
		o.UserID = patch.UserID
	}
}

// DisplayName is "First Last", used by the export.
func (o *Owner) DisplayName() string {
	var first, last string
	if o.FirstName != nil {
		first = *o.FirstName
	}
	if o.LastName != nil {
		last = *o.LastName
	}
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}
