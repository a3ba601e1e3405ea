package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furrymatch-backend/internal/domains/owner/model"
	"furrymatch-backend/internal/shared/apperror"
	"furrymatch-backend/internal/shared/crud/crudtest"
	"furrymatch-backend/internal/shared/security"
)

type fakeAccounts struct {
	deleted []string
	err     error
	calls   *[]string
}

func (f *fakeAccounts) DeleteUser(_ context.Context, login string) error {
	if f.calls != nil {
		*f.calls = append(*f.calls, "account:"+login)
	}
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, login)
	return nil
}

type fakePhotos struct {
	keys      []string
	scheduled [][]string
	calls     *[]string
}

func (f *fakePhotos) OwnerObjectKeys(context.Context, int64) ([]string, error) {
	return f.keys, nil
}

func (f *fakePhotos) ScheduleObjectDeletion(_ context.Context, keys []string) error {
	if f.calls != nil {
		*f.calls = append(*f.calls, "photos")
	}
	f.scheduled = append(f.scheduled, keys)
	return nil
}

func str(s string) *string { return &s }

func authed(login string, uid int64) context.Context {
	return security.WithPrincipal(context.Background(), security.Principal{UserID: uid, Login: login})
}

func newOwner() *model.Owner {
	return &model.Owner{FirstName: str("Jane"), LastName: str("Doe"), Email: str("jane@example.com")}
}

func TestSave_LinksCurrentAccount(t *testing.T) {
	repo := crudtest.NewMemoryRepository(model.New)
	svc := NewOwnerService(repo, &fakeAccounts{}, &fakePhotos{})

	saved, err := svc.Save(authed("jane", 12), newOwner())
	require.NoError(t, err)
	require.NotNil(t, saved.UserID)
	assert.Equal(t, int64(12), *saved.UserID)

	explicit := newOwner()
	uid := int64(40)
	explicit.UserID = &uid
	saved, err = svc.Save(authed("jane", 12), explicit)
	require.NoError(t, err)
	assert.Equal(t, int64(40), *saved.UserID)
}

func TestDeleteWithAccount(t *testing.T) {
	var calls []string
	repo := crudtest.NewMemoryRepository(model.New)
	accounts := &fakeAccounts{calls: &calls}
	photos := &fakePhotos{keys: []string{"photos/1/original.jpg", "photos/1/thumbnail.jpg"}, calls: &calls}
	svc := NewOwnerService(repo, accounts, photos)

	ctx := authed("jane", 1)
	o, err := svc.Save(ctx, newOwner())
	require.NoError(t, err)

	login, err := svc.DeleteWithAccount(ctx, *o.ID)
	require.NoError(t, err)

	assert.Equal(t, "jane", login)
	assert.Equal(t, 0, repo.Len())
	assert.Equal(t, []string{"jane"}, accounts.deleted)
	assert.Equal(t, [][]string{photos.keys}, photos.scheduled)
	assert.Equal(t, []string{"account:jane", "photos"}, calls, "objects are scheduled after both deletes")
}

func TestDeleteWithAccount_RequiresPrincipal(t *testing.T) {
	repo := crudtest.NewMemoryRepository(model.New)
	accounts := &fakeAccounts{}
	svc := NewOwnerService(repo, accounts, &fakePhotos{})

	_, err := svc.DeleteWithAccount(context.Background(), 1)

	assert.Equal(t, apperror.KindUnauthorized, apperror.From(err).Kind)
	assert.Empty(t, accounts.deleted)
}

func TestDeleteWithAccount_AccountFailure(t *testing.T) {
	repo := crudtest.NewMemoryRepository(model.New)
	photos := &fakePhotos{keys: []string{"k"}}
	svc := NewOwnerService(repo, &fakeAccounts{err: errors.New("db down")}, photos)

	ctx := authed("jane", 1)
	o, err := svc.Save(ctx, newOwner())
	require.NoError(t, err)

	_, err = svc.DeleteWithAccount(ctx, *o.ID)
	require.Error(t, err)
	assert.Empty(t, photos.scheduled, "nothing is scheduled when the orchestration fails")
}

func TestDeleteWithAccount_AbsentOwner(t *testing.T) {
	repo := crudtest.NewMemoryRepository(model.New)
	accounts := &fakeAccounts{}
	svc := NewOwnerService(repo, accounts, &fakePhotos{})

	login, err := svc.DeleteWithAccount(authed("jane", 1), 999)
	require.NoError(t, err)
	assert.Equal(t, "jane", login)
	assert.Equal(t, []string{"jane"}, accounts.deleted)
}

func TestExportToExcel(t *testing.T) {
	repo := crudtest.NewMemoryRepository(model.New)
	svc := NewOwnerService(repo, &fakeAccounts{}, &fakePhotos{})
	ctx := authed("jane", 1)

	_, err := svc.Save(ctx, newOwner())
	require.NoError(t, err)
	second := newOwner()
	second.FirstName = str("John")
	second.City = str("Lyon")
	_, err = svc.Save(ctx, second)
	require.NoError(t, err)

	f, count, err := svc.ExportToExcel(ctx)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, 2, count)
	rows, err := f.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "John", rows[2][1])
	assert.Equal(t, "Lyon", rows[2][5])
}
