package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
	commitErr  error
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx   *fakeTx
	opts pgx.TxOptions
	err  error
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	b.opts = opts
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestInTx_Commits(t *testing.T) {
	db := &fakeBeginner{tx: &fakeTx{}}

	got, err := InTx(context.Background(), db, func(pgx.Tx) (int, error) { return 42, nil })

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.True(t, db.tx.committed)
	assert.False(t, db.tx.rolledBack)
	assert.Equal(t, pgx.ReadCommitted, db.opts.IsoLevel)
}

func TestInTx_RollsBackOnError(t *testing.T) {
	db := &fakeBeginner{tx: &fakeTx{}}
	boom := errors.New("boom")

	got, err := InTx(context.Background(), db, func(pgx.Tx) (int, error) { return 7, boom })

	assert.ErrorIs(t, err, boom)
	assert.Zero(t, got)
	assert.True(t, db.tx.rolledBack)
	assert.False(t, db.tx.committed)
}

func TestInTx_RollsBackOnPanic(t *testing.T) {
	db := &fakeBeginner{tx: &fakeTx{}}

	assert.PanicsWithValue(t, "kaboom", func() {
		_, _ = InTx(context.Background(), db, func(pgx.Tx) (int, error) { panic("kaboom") })
	})
	assert.True(t, db.tx.rolledBack)
}

func TestInTx_CommitFailure(t *testing.T) {
	commitErr := errors.New("serialization failure")
	db := &fakeBeginner{tx: &fakeTx{commitErr: commitErr}}

	got, err := InTx(context.Background(), db, func(pgx.Tx) (string, error) { return "x", nil })

	assert.ErrorIs(t, err, commitErr)
	assert.Empty(t, got)
	assert.True(t, db.tx.rolledBack)
}

func TestInTx_BeginFailure(t *testing.T) {
	db := &fakeBeginner{err: errors.New("pool closed")}
	called := false

	_, err := InTx(context.Background(), db, func(pgx.Tx) (int, error) {
		called = true
		return 0, nil
	})

	assert.ErrorContains(t, err, "begin transaction")
	assert.False(t, called)
}
