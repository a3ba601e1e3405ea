package user

import "context"

// Service is the account business logic.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*UserDTO, error)
	Authenticate(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	GetAccount(ctx context.Context, login string) (*UserDTO, error)
	// DeleteUser removes the account with login; absent accounts are ignored.
	DeleteUser(ctx context.Context, login string) error
}
