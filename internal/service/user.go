package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spheretrack/sphere/internal/engine"
	"github.com/spheretrack/sphere/internal/model"
	"github.com/spheretrack/sphere/internal/repository"
	"github.com/spheretrack/sphere/internal/validation"
)

type UserService struct {
	repo                repository.UserRepository
	freezeLimitPerMonth int
}

func NewUserService(repo repository.UserRepository, freezeLimitPerMonth int) *UserService {
	return &UserService{
		repo:                repo,
		freezeLimitPerMonth: freezeLimitPerMonth,
	}
}

// Create provisions a user with a zeroed ledger. Accounts come from
// operator tooling or an upstream identity provider, not a signup
// flow.
func (s *UserService) Create(email, name string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:                  uuid.New().String(),
		Email:               email,
		Name:                strings.TrimSpace(name),
		XP:                  0,
		Level:               engine.LevelForXP(0),
		Coins:               0,
		PenaltiesEnabled:    false,
		FreezeLimitPerMonth: s.freezeLimitPerMonth,
		CreatedAt:           time.Now(),
	}

	err = s.repo.Create(user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *UserService) ByID(id string) (*model.User, error) {
	return s.repo.ByID(id)
}

func (s *UserService) ByEmail(email string) (*model.User, error) {
	return s.repo.ByEmail(strings.TrimSpace(strings.ToLower(email)))
}
