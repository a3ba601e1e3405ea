package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"furrymatch-backend/internal/shared/pagination"
)

// Postgres SQLSTATE codes we react to.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Close releases every pooled connection. Safe to call more than once.
func (db *PostgresDB) Close() {
	if db.Pool == nil {
		return
	}
	db.Pool.Close()
	db.Pool = nil
	log.Info().Msg("[DATABASE] Connection pool closed")
}

// PoolStats is a snapshot of the pool, served by the health endpoint.
type PoolStats struct {
	TotalConns    int32 `json:"total_connections"`
	IdleConns     int32 `json:"idle_connections"`
	AcquiredConns int32 `json:"acquired_connections"`
	MaxConns      int32 `json:"max_connections"`
}

func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}
	s := db.Pool.Stat()
	return &PoolStats{
		TotalConns:    s.TotalConns(),
		IdleConns:     s.IdleConns(),
		AcquiredConns: s.AcquiredConns(),
		MaxConns:      s.MaxConns(),
	}, nil
}

// IsUniqueViolation reports whether err is a unique constraint violation,
// optionally restricted to constraints whose name contains one of hints.
func IsUniqueViolation(err error, hints ...string) bool {
	return hasCode(err, codeUniqueViolation, hints...)
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error, hints ...string) bool {
	return hasCode(err, codeForeignKeyViolation, hints...)
}

func hasCode(err error, code string, hints ...string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}
	if len(hints) == 0 {
		return true
	}
	for _, h := range hints {
		if strings.Contains(pgErr.ConstraintName, h) || strings.Contains(pgErr.Message, h) {
			return true
		}
	}
	return false
}

// OrderBy builds an ORDER BY clause from the requested sort. columns maps
// API property names to table columns; only those may be sorted on.
// The id column is always appended as a tiebreaker so paging is stable.
func OrderBy(sort []pagination.Order, columns map[string]string, idColumn string) (string, error) {
	parts := make([]string, 0, len(sort)+1)
	hasID := false

	for _, o := range sort {
		col, ok := columns[o.Property]
		if !ok {
			return "", fmt.Errorf("%w: %s", pagination.ErrUnknownSortProperty, o.Property)
		}
		if col == idColumn {
			hasID = true
		}
		parts = append(parts, pq.QuoteIdentifier(col)+" "+o.Direction.SQL())
	}

	if !hasID {
		parts = append(parts, pq.QuoteIdentifier(idColumn)+" ASC")
	}

	return "ORDER BY " + strings.Join(parts, ", "), nil
}
