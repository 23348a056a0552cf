// Package service contains the business logic for the fleet manager API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rmachado/fleet-manager/internal/auth"
	"github.com/rmachado/fleet-manager/internal/domain"
	"github.com/rmachado/fleet-manager/internal/repo"
)

// TokenPair is the credential set returned by login and refresh.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RegisterInput is the payload accepted by Register.
// CPF, DriverCode, and ManagerCode mirror the original registration form;
// the codes are accepted and discarded, while CPF seeds a linked driver
// record for operator accounts.
type RegisterInput struct {
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Password    string      `json:"password"`
	Role        domain.Role `json:"role"`
	CPF         string      `json:"cpf,omitempty"`
	DriverCode  string      `json:"driver_code,omitempty"`
	ManagerCode string      `json:"manager_code,omitempty"`
}

// AuthConfig carries the token parameters the auth service needs.
type AuthConfig struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	BcryptCost      int
}

// AuthService implements login, registration, token refresh, and identity lookup.
type AuthService struct {
	users   repo.UserRepo
	drivers repo.DriverRepo
	refresh repo.RefreshTokenRepo
	cfg     AuthConfig
}

// NewAuthService constructs an AuthService backed by the provided repos.
func NewAuthService(users repo.UserRepo, drivers repo.DriverRepo, refresh repo.RefreshTokenRepo, cfg AuthConfig) *AuthService {
	return &AuthService{users: users, drivers: drivers, refresh: refresh, cfg: cfg}
}

// Login verifies credentials and issues a fresh token pair.
// Bad username and bad password both return domain.ErrUnauthorized so the
// response does not reveal which accounts exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return TokenPair{}, fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthorized)
		}
		return TokenPair{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return TokenPair{}, fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthorized)
	}
	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return TokenPair{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return pair, nil
}

// Refresh exchanges a valid refresh token for a new pair. The presented
// token is consumed; replaying it returns domain.ErrUnauthorized.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (TokenPair, error) {
	userID, err := s.refresh.Consume(ctx, auth.HashRefreshToken(rawRefresh))
	if err != nil {
		return TokenPair{}, fmt.Errorf("service.AuthService.Refresh: %w", err)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("service.AuthService.Refresh: %w", err)
	}
	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return TokenPair{}, fmt.Errorf("service.AuthService.Refresh: %w", err)
	}
	return pair, nil
}

// Register creates a user account. Operator accounts that supply a CPF also
// get a linked driver record so the trip endpoints can resolve their trips.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	if err := validateRegister(in); err != nil {
		return domain.User{}, err
	}

	hash, err := auth.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.TrimSpace(in.Email),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         in.Role,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.User{}, fmt.Errorf("%w: username already taken", domain.ErrValidation)
		}
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}

	if user.Role == domain.RoleOperator && strings.TrimSpace(in.CPF) != "" {
		name := strings.TrimSpace(in.FirstName + " " + in.LastName)
		if name == "" {
			name = user.Username
		}
		// License details are unknown at registration; a manager fills them
		// in later. Failure here must not orphan the account.
		_, err := s.drivers.Create(ctx, domain.Driver{
			FullName:        name,
			CPF:             strings.TrimSpace(in.CPF),
			LicenseNumber:   "PENDENTE-" + user.ID.String()[:8],
			LicenseCategory: "B",
			LicenseDue:      domain.DateOf(time.Now().UTC()),
			Active:          true,
			UserID:          &user.ID,
		})
		if err != nil && !errors.Is(err, domain.ErrConflict) {
			return domain.User{}, fmt.Errorf("service.AuthService.Register: link driver: %w", err)
		}
	}

	return user, nil
}

// Me returns the identity of the given user ID, for the startup validation
// call and the post-login identity fetch.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, fmt.Errorf("service.AuthService.Me: %w", domain.ErrUnauthorized)
		}
		return domain.User{}, fmt.Errorf("service.AuthService.Me: %w", err)
	}
	return user, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user domain.User) (TokenPair, error) {
	access, err := auth.NewAccessToken(s.cfg.JWTSecret, user, s.cfg.AccessTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := auth.NewRefreshToken(s.cfg.RefreshTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.refresh.Save(ctx, user.ID, auth.HashRefreshToken(refresh.Raw), refresh.ExpiresAt); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh.Raw}, nil
}

// validateRegister enforces the registration rules:
//   - username is required
//   - password must be at least 6 characters
//   - role must be MANAGER or OPERATOR
func validateRegister(in RegisterInput) error {
	if strings.TrimSpace(in.Username) == "" {
		return fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	if len(in.Password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", domain.ErrValidation)
	}
	if !in.Role.Valid() {
		return fmt.Errorf("%w: role must be MANAGER or OPERATOR", domain.ErrValidation)
	}
	return nil
}
