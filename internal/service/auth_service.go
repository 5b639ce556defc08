package service

import (
	"context"
	"errors"
	"fmt"

	"food-ordering/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	users UserRepository
	cost  int
}

// NewAuthService hashes passwords with bcrypt.DefaultCost when cost is 0.
func NewAuthService(users UserRepository, cost int) *AuthService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, cost: cost}
}

func (s *AuthService) Register(ctx context.Context, registration domain.Registration) (*domain.User, error) {
	if err := registration.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(registration.Password1), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{Username: registration.Username, PasswordHash: string(hash)}
	err = s.users.CreateUser(ctx, user)
	if errors.Is(err, domain.ErrDuplicate) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// User loads the account behind a session.
func (s *AuthService) User(ctx context.Context, id int) (*domain.User, error) {
	return s.users.GetUser(ctx, id)
}
