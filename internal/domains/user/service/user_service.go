package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"furrymatch-backend/internal/domains/user"
	"furrymatch-backend/internal/shared/apperror"
	"furrymatch-backend/pkg/jwt"
)

const bcryptCost = 12

// dummyHash is compared against when the login is unknown so both
// failure paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("furrymatch-dummy-password"), bcrypt.MinCost)

type userService struct {
	repo   user.Repository
	tokens *jwt.Manager
	cost   int
}

func NewUserService(repo user.Repository, tokens *jwt.Manager) user.Service {
	return &userService{repo: repo, tokens: tokens, cost: bcryptCost}
}

// ========================================
// REGISTRATION
// ========================================

func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.UserDTO, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(user.EntityName, err)
	}

	exists, err := s.repo.ExistsByLogin(ctx, req.Login)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, user.ErrLoginAlreadyExists
	}

	exists, err = s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, user.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		Login:        req.Login,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Activated:    true,
		LangKey:      req.LangKey,
	}

	// The unique indexes still decide races between two registrations.
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Str("login", u.Login).Int64("user_id", u.ID).Msg("Registered account")
	dto := u.ToDTO()
	return &dto, nil
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Authenticate(ctx context.Context, req user.LoginRequest) (*user.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	u, err := s.repo.FindByLogin(ctx, strings.ToLower(strings.TrimSpace(req.Username)))
	if errors.Is(err, user.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		return nil, user.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}
	if !u.Activated {
		return nil, user.ErrUserNotActivated
	}

	token, err := s.tokens.GenerateAccessToken(u.ID, u.Login, u.Email)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &user.TokenResponse{IDToken: token}, nil
}

// ========================================
// ACCOUNT
// ========================================

func (s *userService) GetAccount(ctx context.Context, login string) (*user.UserDTO, error) {
	u, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) DeleteUser(ctx context.Context, login string) error {
	deleted, err := s.repo.DeleteByLogin(ctx, login)
	if err != nil {
		return err
	}
	if deleted {
		log.Ctx(ctx).Info().Str("login", login).Msg("Deleted account")
	}
	return nil
}
