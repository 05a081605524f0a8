package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/office_hours/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService struct {
	users  UserStore
	logger *zap.Logger
}

func NewUserService(users UserStore, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// Register creates a professor or student account. Emails are unique and
// compared case-insensitively.
func (s *UserService) Register(ctx context.Context, name, email string, role model.Role, telegramChatID *int64) (*model.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	user := &model.User{
		Email:          email,
		Name:           strings.TrimSpace(name),
		Role:           role,
		TelegramChatID: telegramChatID,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetByTelegramChatID finds the account that registered with chatID.
func (s *UserService) GetByTelegramChatID(ctx context.Context, chatID int64) (*model.User, error) {
	user, err := s.users.GetByTelegramChatID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("get user by chat: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) ListProfessors(ctx context.Context) ([]*model.User, error) {
	professors, err := s.users.ListByRole(ctx, model.RoleProfessor)
	if err != nil {
		return nil, fmt.Errorf("list professors: %w", err)
	}
	return professors, nil
}
