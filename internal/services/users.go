package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"playfolio/internal/models"
	"playfolio/internal/storage"
	"playfolio/internal/storage/database"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const passwordCost = 10

var ErrInvalidCredentials = errors.New("invalid credentials")

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type UserService struct {
	storage *database.Storage
	log     *slog.Logger
}

func NewUserService(s *database.Storage, log *slog.Logger) *UserService {
	return &UserService{
		storage: s,
		log:     log,
	}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	const op = "services.users.Register"

	email := normalizeEmail(in.Email)

	var count int64
	if err := s.storage.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		s.log.Error("failed to register user", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if count > 0 {
		s.log.Info("email already registered", slog.String("operation", op))
		return nil, fmt.Errorf("%s: %w", op, storage.ErrExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), passwordCost)
	if err != nil {
		s.log.Error("failed to register user", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := &models.User{
		Email:     email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  string(hash),
		Role:      models.RoleUser,
	}

	if err := s.storage.DB.WithContext(ctx).Create(user).Error; err != nil {
		s.log.Error("failed to register user", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrCreateFailed, err)
	}

	return user, nil
}

// Authenticate returns the user whose stored hash matches password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	const op = "services.users.Authenticate"

	var user models.User
	err := s.storage.DB.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err != nil {
		s.log.Error("failed to authenticate user", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.log.Debug("password mismatch", slog.String("operation", op))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
