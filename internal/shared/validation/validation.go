// Package validation registers the custom rules used in request binding
// tags and shares the patterns with the ozzo entity rules.
package validation

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// LoginPattern is the alphabet of account logins.
var LoginPattern = regexp.MustCompile(`^[a-z0-9._@-]+$`)

// TelephonePattern accepts digits, spaces and a leading plus sign.
var TelephonePattern = regexp.MustCompile(`^\+?[0-9 ]+$`)

// reserved logins collide with frontend routes or system accounts.
var reservedLogins = map[string]bool{
	"anonymoususer": true,
	"system":        true,
	"account":       true,
	"register":      true,
	"authenticate":  true,
}

// RegisterCustomValidators adds the "login" tag to v. Call it with gin's
// engine: binding.Validator.Engine().(*validator.Validate).
func RegisterCustomValidators(v *validator.Validate) {
	_ = v.RegisterValidation("login", ValidLogin)
}

// ValidLogin checks the login alphabet, length 3..50 and reserved names.
// The login is judged in the lower-cased, trimmed form it is stored in.
func ValidLogin(fl validator.FieldLevel) bool {
	s := strings.ToLower(strings.TrimSpace(fl.Field().String()))
	if len(s) < 3 || len(s) > 50 {
		return false
	}
	return LoginPattern.MatchString(s) && !reservedLogins[s]
}

// FieldErrors flattens binding errors into field -> failed rule, keyed by
// the JSON-ish lowerCamel field name.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if name != "" {
			name = strings.ToLower(name[:1]) + name[1:]
		}
		out[name] = fe.Tag()
	}
	return out
}
