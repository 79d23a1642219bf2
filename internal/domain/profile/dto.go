package profile

import (
	"time"

	"github.com/google/uuid"

	"github.com/elhossary/offerwall-api/internal/domain/user"
)

// UpdateProfileRequest for PUT /profile
type UpdateProfileRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Country string `json:"country" validate:"country"`
}

// ChangePasswordRequest for POST /profile/password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// ProfileResponse represents the profile in API responses
type ProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newProfileResponse(u *user.User) *ProfileResponse {
	return &ProfileResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Country:   u.Country,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
