package profile

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/elhossary/offerwall-api/internal/domain/user"
	"github.com/elhossary/offerwall-api/internal/pkg/password"
)

// Service handles profile business logic
type Service struct {
	userRepo user.Repository
}

// NewService creates profile service
func NewService(userRepo user.Repository) *Service {
	return &Service{userRepo: userRepo}
}

func (s *Service) load(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrProfileNotFound
	}
	return u, nil
}

// Get returns the profile of userID
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return newProfileResponse(u), nil
}

// Update changes name and country
func (s *Service) Update(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*ProfileResponse, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.Name = strings.TrimSpace(req.Name)
	u.Country = req.Country
	u.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	return newProfileResponse(u), nil
}

// ChangePassword replaces the password after checking the current one
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error {
	u, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	if !password.Verify(req.CurrentPassword, u.PasswordHash) {
		return ErrCurrentPasswordIncorrect
	}

	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.Update(ctx, u); err != nil {
		return err
	}

	log.Info().Str("user_id", userID.String()).Msg("password changed")
	return nil
}
