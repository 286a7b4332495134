package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/siteadmin-backend/pkg/config"
	"github.com/angelmondragon/siteadmin-backend/pkg/db"
	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/siteadmin-backend/pkg/errors"
	"github.com/angelmondragon/siteadmin-backend/pkg/security"
)

// EnsureAdminRequest describes the admin account the bootstrap command maintains.
type EnsureAdminRequest struct {
	Email    string
	Name     string
	Password string
	Inactive bool
}

type adminWriter interface {
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, bool, error)
	Upsert(ctx context.Context, admin *models.AdminUser) error
}

// AdminRegistrar creates or updates admin accounts outside the HTTP surface.
type AdminRegistrar struct {
	admins      adminWriter
	passwordCfg config.PasswordConfig
}

// NewAdminRegistrar builds a registrar over admins.
func NewAdminRegistrar(admins adminWriter, passwordCfg config.PasswordConfig) (*AdminRegistrar, error) {
	if admins == nil {
		return nil, fmt.Errorf("admin repository is required")
	}
	return &AdminRegistrar{admins: admins, passwordCfg: passwordCfg}, nil
}

// Ensure creates the admin or, when the email exists, replaces its name,
// password and active flag. It reports whether a new account was created.
func (r *AdminRegistrar) Ensure(ctx context.Context, req EnsureAdminRequest) (*AdminDTO, bool, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, false, pkgerrors.Validation("email is invalid", map[string]string{"email": "invalid"})
	}
	if err := security.CheckPolicy(req.Password); err != nil {
		return nil, false, pkgerrors.Validation(err.Error(), map[string]string{"password": "too_short"})
	}

	hash, err := security.HashPassword(req.Password, r.passwordCfg)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	existing, found, err := r.admins.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup admin")
	}
	next := models.AdminUser{ID: uuid.New(), Email: email}
	if found {
		next = *existing
	}
	next.Name = strings.TrimSpace(req.Name)
	next.PasswordHash = hash
	next.IsActive = !req.Inactive

	if err := r.admins.Upsert(ctx, &next); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, false, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "admin email already exists")
		}
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save admin")
	}
	dto := toAdminDTO(next)
	return &dto, !found, nil
}
