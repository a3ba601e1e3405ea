package model

import (
	"encoding/json"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func validPet() *Pet {
	return &Pet{
		Name:    ptr("Rex"),
		PetType: ptr(PetTypeDog),
		OwnerID: ptr(int64(1)),
	}
}

func TestValidate(t *testing.T) {
	now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = time.Now })

	tests := []struct {
		name   string
		mutate func(p *Pet)
		field  string
	}{
		{name: "valid", mutate: func(*Pet) {}},
		{name: "missing name", mutate: func(p *Pet) { p.Name = nil }, field: "name"},
		{name: "unknown type", mutate: func(p *Pet) { p.PetType = ptr(PetType("DRAGON")) }, field: "petType"},
		{name: "bad sex", mutate: func(p *Pet) { p.Sex = ptr(Sex("X")) }, field: "sex"},
		{name: "future birth", mutate: func(p *Pet) { p.BirthDate = ptr(NewDate(2030, 1, 1)) }, field: "birthDate"},
		{name: "past birth", mutate: func(p *Pet) { p.BirthDate = ptr(NewDate(2020, 1, 1)) }},
		{name: "zero weight", mutate: func(p *Pet) { p.Weight = ptr(decimal.Zero) }, field: "weight"},
		{name: "positive weight", mutate: func(p *Pet) { p.Weight = ptr(decimal.RequireFromString("4.25")) }},
		{name: "largest weight", mutate: func(p *Pet) { p.Weight = ptr(decimal.RequireFromString("9999.99")) }},
		{name: "weight overflowing the column", mutate: func(p *Pet) { p.Weight = ptr(decimal.RequireFromString("123456.7")) }, field: "weight"},
		{name: "weight just above max", mutate: func(p *Pet) { p.Weight = ptr(decimal.RequireFromString("10000")) }, field: "weight"},
		{name: "weight with three decimals", mutate: func(p *Pet) { p.Weight = ptr(decimal.RequireFromString("0.001")) }, field: "weight"},
		{name: "trailing zero decimals", mutate: func(p *Pet) { p.Weight = ptr(decimal.RequireFromString("4.250")) }},
		{name: "no owner", mutate: func(p *Pet) { p.OwnerID = nil }, field: "ownerId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPet()
			tt.mutate(p)
			err := p.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var errs validation.Errors
			require.ErrorAs(t, err, &errs)
			assert.Contains(t, errs, tt.field)
		})
	}
}

func TestMerge(t *testing.T) {
	p := validPet()
	p.ID = ptr(int64(3))
	p.Breed = ptr("Beagle")

	p.Merge(&Pet{ID: ptr(int64(99)), Name: ptr("Max"), Weight: ptr(decimal.NewFromInt(12))})

	assert.Equal(t, int64(3), *p.ID)
	assert.Equal(t, "Max", *p.Name)
	assert.Equal(t, "Beagle", *p.Breed)
	assert.True(t, decimal.NewFromInt(12).Equal(*p.Weight))
}

func TestDateJSON(t *testing.T) {
	var p Pet
	require.NoError(t, json.Unmarshal([]byte(`{"birthDate":"2021-03-04"}`), &p))
	require.NotNil(t, p.BirthDate)
	assert.Equal(t, time.March, p.BirthDate.Month())

	raw, err := json.Marshal(p.BirthDate)
	require.NoError(t, err)
	assert.JSONEq(t, `"2021-03-04"`, string(raw))

	assert.Error(t, json.Unmarshal([]byte(`{"birthDate":"04/03/2021"}`), &p))
}
