package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/quran-reader-bot/internal/domain/entities"
)

type UserService struct {
	repository UserRepository
	logger     *zap.Logger
}

func NewUserService(repository UserRepository, logger *zap.Logger) *UserService {
	return &UserService{repository: repository, logger: logger}
}

// EnsureUser registers the user on first contact and reactivates known users.
func (s *UserService) EnsureUser(ctx context.Context, userID, chatID int64) error {
	user := entities.NewUser(userID, chatID)

	created, err := s.repository.Save(ctx, user)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	if created {
		s.logger.Info("new user registered", zap.Int64("user_id", userID))
	}

	return nil
}
