package user

import "context"

// Repository is the data access contract of accounts.
type Repository interface {
	// Create inserts u and fills its ID and CreatedAt.
	// Returns ErrLoginAlreadyExists / ErrEmailAlreadyExists on duplicates.
	Create(ctx context.Context, u *User) error

	// FindByLogin returns ErrUserNotFound when absent.
	FindByLogin(ctx context.Context, login string) (*User, error)

	ExistsByLogin(ctx context.Context, login string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// DeleteByLogin reports whether a row was removed.
	DeleteByLogin(ctx context.Context, login string) (bool, error)
}
