package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest exchanges a refresh token; AccessToken may be expired.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AdminDTO is the public shape of an admin account.
type AdminDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// LoginResponse contains the tokens and admin produced by a successful login.
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	Admin        AdminDTO  `json:"admin"`
}

func toAdminDTO(a models.AdminUser) AdminDTO {
	return AdminDTO{
		ID:          a.ID,
		Email:       a.Email,
		Name:        a.Name,
		IsActive:    a.IsActive,
		LastLoginAt: a.LastLoginAt,
	}
}
