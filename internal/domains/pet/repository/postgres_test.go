package repository

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"furrymatch-backend/internal/shared/apperror"
)

func TestOwnerError(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "pets_owner_id_fkey"}

	err := apperror.From(fmt.Errorf("insert pet: %w", ownerError(fk)))

	assert.Equal(t, apperror.KindBadRequest, err.Kind)
	assert.Equal(t, "ownernotfound", err.ErrorKey)
}
