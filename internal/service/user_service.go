package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Varun5711/contatos/internal/auth"
	usermodel "github.com/Varun5711/contatos/internal/models/user"
	"github.com/Varun5711/contatos/internal/storage"
	"github.com/Varun5711/contatos/internal/validation"
)

const tokenTypeBearer = "bearer"

type UserService struct {
	userStorage storage.UserStore
	jwtManager  *auth.JWTManager
}

func NewUserService(userStorage storage.UserStore, jwtManager *auth.JWTManager) *UserService {
	return &UserService{
		userStorage: userStorage,
		jwtManager:  jwtManager,
	}
}

func (s *UserService) Register(ctx context.Context, req usermodel.RegisterRequest) (*usermodel.AuthResponse, error) {
	name, email, err := validation.ValidateRegistration(req.Name, req.Email, req.Password)
	if err != nil {
		return nil, invalid(err)
	}

	existingUser, err := s.userStorage.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.userStorage.CreateUser(ctx, name, email, passwordHash)
	if errors.Is(err, storage.ErrDuplicateEmail) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issue(user)
}

func (s *UserService) Login(ctx context.Context, email, password string) (*usermodel.AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userStorage.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Authenticate resolves the user behind a bearer token. Tokens for deleted
// users are rejected.
func (s *UserService) Authenticate(ctx context.Context, token string) (*usermodel.User, error) {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if claims.UserID == "" {
		return nil, ErrUnauthorized
	}

	user, err := s.userStorage.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthorized
	}

	return user, nil
}

func (s *UserService) issue(user *usermodel.User) (*usermodel.AuthResponse, error) {
	token, expiresAt, err := s.jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &usermodel.AuthResponse{
		User:        user,
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresAt:   expiresAt,
	}, nil
}
