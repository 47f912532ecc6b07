package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"powergest/models"
	"powergest/repository"
	"powergest/utils"

	"github.com/rs/zerolog/log"
)

// AdminRole is the only role a panel token can carry.
const AdminRole = "admin"

// Auth checks the shared panel password and issues session tokens.
type Auth struct {
	settings repository.SettingRepository
	tokens   *utils.TokenManager
}

func NewAuth(settings repository.SettingRepository, tokens *utils.TokenManager) *Auth {
	return &Auth{settings: settings, tokens: tokens}
}

// Login compares password with the stored bcrypt hash. A wrong password is
// not an error: valid is false and token empty.
func (a *Auth) Login(ctx context.Context, password string) (valid bool, token string, err error) {
	if password == "" {
		return false, "", ErrPasswordRequired
	}

	hash, err := a.settings.Get(ctx, models.AdminPasswordKey)
	if errors.Is(err, repository.ErrNotFound) {
		return false, "", ErrPasswordNotConfigured
	}
	if err != nil {
		return false, "", fmt.Errorf("load password hash: %w", err)
	}

	if err := utils.VerifyPassword(hash, password); err != nil {
		log.Info().Msg("panel login rejected")
		return false, "", nil
	}

	token, err = a.tokens.GenerateToken(AdminRole)
	if err != nil {
		return false, "", fmt.Errorf("sign token: %w", err)
	}
	return true, token, nil
}

// SetPassword stores the bcrypt hash of plain and returns it.
func (a *Auth) SetPassword(ctx context.Context, plain string) (string, error) {
	if strings.TrimSpace(plain) == "" {
		return "", ErrPasswordRequired
	}
	hash, err := utils.HashPassword(plain)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	if err := a.settings.Set(ctx, models.AdminPasswordKey, hash); err != nil {
		return "", fmt.Errorf("store password hash: %w", err)
	}
	return hash, nil
}
