package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type signup struct {
	Login string `validate:"required,login"`
	Email string `validate:"required,email"`
}

func TestLoginRule(t *testing.T) {
	v := validator.New()
	RegisterCustomValidators(v)

	tests := []struct {
		login string
		ok    bool
	}{
		{"jane.doe", true},
		{"j@d-1_x", true},
		{"ab", false},
		{"Jane", true},
		{" Alice.Smith ", true},
		{"with space", false},
		{"system", false},
		{"SYSTEM", false},
	}

	for _, tt := range tests {
		t.Run(tt.login, func(t *testing.T) {
			err := v.Struct(signup{Login: tt.login, Email: "a@b.co"})
			assert.Equal(t, tt.ok, err == nil, "err = %v", err)
		})
	}
}

func TestFieldErrors(t *testing.T) {
	v := validator.New()
	RegisterCustomValidators(v)

	err := v.Struct(signup{Login: "x", Email: "nope"})
	assert.Equal(t, map[string]string{"login": "login", "email": "email"}, FieldErrors(err))
	assert.Nil(t, FieldErrors(nil))
}
