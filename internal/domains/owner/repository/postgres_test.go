package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"furrymatch-backend/internal/shared/apperror"
)

func TestUserError(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "owners_user_id_fkey"}

	// the repository wraps it the way Create and Update do
	err := apperror.From(fmt.Errorf("insert owner: %w", userError(fk)))

	assert.Equal(t, apperror.KindBadRequest, err.Kind)
	assert.Equal(t, "usernotfound", err.ErrorKey)
	assert.Equal(t, "owner", err.EntityName)
}

func TestUserError_PassesOtherErrorsThrough(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	plain := errors.New("connection reset")

	assert.Same(t, unique, userError(unique))
	assert.Equal(t, plain, userError(plain))
	assert.Equal(t, apperror.KindInternal, apperror.From(userError(plain)).Kind)
}
