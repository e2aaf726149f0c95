//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
// Package services holds the application layer: request validation,
// authorization, and the orchestration between stores and the live relay.
package services

import (
	"context"
	"fmt"

	"chat-relay/auth"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/repositories"
)

// Token is a signed session credential handed back to the client.
type Token string

type IAuthService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (domain.UserIdentity, Token, error)
	Login(ctx context.Context, req auth.LoginRequest) (domain.UserIdentity, Token, error)
}

type AuthService struct {
	userRepository repositories.IUserRepository
	tokens         *auth.TokenManager
}

func NewAuthService(repo repositories.IUserRepository, tokens *auth.TokenManager) IAuthService {
	return &AuthService{userRepository: repo, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, req auth.RegisterRequest) (domain.UserIdentity, Token, error) {
	// Validate before any expensive cryptographic operation.
	if err := auth.ValidateRegister(req); err != nil {
		return domain.UserIdentity{}, "", err
	}

	// Hashing happens here so the repository never sees a plain password.
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return domain.UserIdentity{}, "", fmt.Errorf("hashing failed: %w", err)
	}

	user, err := s.userRepository.CreateUser(ctx, req.Username, req.Email, hashedPassword)
	if err != nil {
		return domain.UserIdentity{}, "", err // propagates ErrUserAlreadyExists
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return domain.UserIdentity{}, "", errors.ErrTokenGeneration
	}
	return user.Identity(), Token(token), nil
}

func (s *AuthService) Login(ctx context.Context, req auth.LoginRequest) (domain.UserIdentity, Token, error) {
	if err := auth.ValidateLogin(req); err != nil {
		return domain.UserIdentity{}, "", err
	}

	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		// Generic error to prevent user enumeration.
		return domain.UserIdentity{}, "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(req.Password, user.PasswordHash)
	if err != nil || !match {
		return domain.UserIdentity{}, "", errors.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return domain.UserIdentity{}, "", errors.ErrTokenGeneration
	}
	return user.Identity(), Token(token), nil
}
