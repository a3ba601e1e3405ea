package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

const EntityName = "pet"

type PetType string

const (
	PetTypeDog    PetType = "DOG"
	PetTypeCat    PetType = "CAT"
	PetTypeRabbit PetType = "RABBIT"
	PetTypeBird   PetType = "BIRD"
	PetTypeOther  PetType = "OTHER"
)

type Sex string

const (
	SexMale   Sex = "MALE"
	SexFemale Sex = "FEMALE"
)

// Pet belongs to exactly one owner. Nil attributes are "not supplied".
type Pet struct {
	ID          *int64           `json:"id"`
	Name        *string          `json:"name"`
	PetType     *PetType         `json:"petType"`
	Breed       *string          `json:"breed"`
	Sex         *Sex             `json:"sex"`
	BirthDate   *Date            `json:"birthDate"`
	Weight      *decimal.Decimal `json:"weight"`
	Description *string          `json:"description"`
	OwnerID     *int64           `json:"ownerId"`
}

func New() *Pet { return &Pet{} }

func (p *Pet) GetID() *int64   { return p.ID }
func (p *Pet) SetID(id *int64) { p.ID = id }

var (
	errFutureBirthDate = errors.New("must not be in the future")
	errWeightPositive  = errors.New("must be greater than 0")
	errWeightTooLarge  = errors.New("must be at most 9999.99")
	errWeightScale     = errors.New("must have at most 2 decimal places")
)

// now is replaced in tests.
var now = time.Now

func (p *Pet) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 50)),
		validation.Field(&p.PetType, validation.Required,
			validation.In(PetTypeDog, PetTypeCat, PetTypeRabbit, PetTypeBird, PetTypeOther)),
		validation.Field(&p.Breed, validation.Length(0, 80)),
		validation.Field(&p.Sex, validation.In(SexMale, SexFemale)),
		validation.Field(&p.BirthDate, validation.By(notInFuture)),
		validation.Field(&p.Weight, validation.By(positiveWeight)),
		validation.Field(&p.Description, validation.Length(0, 1000)),
		validation.Field(&p.OwnerID, validation.Required),
	)
}

func notInFuture(value interface{}) error {
	d, _ := value.(*Date)
	if d == nil {
		return nil
	}
	if d.Time.After(now()) {
		return errFutureBirthDate
	}
	return nil
}

// weight is stored as NUMERIC(6,2)
const weightScale = 2

var maxWeight = decimal.New(999999, -weightScale)

func positiveWeight(value interface{}) error {
	w, _ := value.(*decimal.Decimal)
	if w == nil {
		return nil
	}
	switch {
	case !w.IsPositive():
		return errWeightPositive
	case w.GreaterThan(maxWeight):
		return errWeightTooLarge
	case !w.Equal(w.Truncate(weightScale)):
		return errWeightScale
	}
	return nil
}

// Merge copies the non-nil fields of patch. The id is never touched.
func (p *Pet) Merge(patch *Pet) {
	if patch.Name != nil {
		p.Name = patch.Name
	}
	if patch.PetType != nil {
		p.PetType = patch.PetType
	}
	if patch.Breed != nil {
		p.Breed = patch.Breed
	}
	if patch.Sex != nil {
		p.Sex = patch.Sex
	}
	if patch.BirthDate != nil {
		p.BirthDate = patch.BirthDate
	}
	if patch.Weight != nil {
		p.Weight = patch.Weight
	}
	if patch.Description != nil {
		p.Description = patch.Description
	}
	if patch.OwnerID != nil {
		p.OwnerID = patch.OwnerID
	}
}
