// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/angelamos/artvia-backend/internal/core"
	"github.com/angelamos/artvia-backend/internal/metrics"
	"github.com/angelamos/artvia-backend/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
)

// UserInfo is the account view auth needs. IsAdmin is already the effective
// admin flag.
type UserInfo struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	IsAdmin      bool
	TokenVersion int
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	Create(
		ctx context.Context,
		email, passwordHash, name string,
	) (*UserInfo, error)
	IncrementTokenVersion(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type Service struct {
	repo         Repository
	jwt          *JWTManager
	userProvider UserProvider
	logger       *slog.Logger
}

func NewService(
	repo Repository,
	jwt *JWTManager,
	userProvider UserProvider,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:         repo,
		jwt:          jwt,
		userProvider: userProvider,
		logger:       logger,
	}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*AuthResponse, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userProvider.Create(ctx, req.Email, passwordHash, req.Name)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.createAuthResponse(user)
}

// Login accepts argon2id, legacy bcrypt and legacy plaintext passwords. Any
// non-argon2id match is rewritten to argon2id; a failed rewrite is logged
// and the login still succeeds.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, error) {
	user, err := s.userProvider.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.BurnPasswordCheck(req.Password)
			metrics.Logins.WithLabelValues("unknown_email").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	check, err := core.CheckPassword(req.Password, user.PasswordHash)
	if err != nil {
		s.logger.Warn("stored password unreadable",
			"user_id", user.ID,
			"format", check.Format.String(),
			"error", err,
		)
		metrics.Logins.WithLabelValues("invalid_password").Inc()
		return nil, ErrInvalidCredentials
	}

	if !check.Matched {
		metrics.Logins.WithLabelValues("invalid_password").Inc()
		return nil, ErrInvalidCredentials
	}

	if check.NeedsUpgrade() {
		s.upgradePassword(ctx, user, check)
	}

	metrics.Logins.WithLabelValues("success").Inc()

	// re-read so the summary reflects the stored role and flag
	fresh, err := s.userProvider.GetByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}

	return s.createAuthResponse(fresh)
}

func (s *Service) upgradePassword(
	ctx context.Context,
	user *UserInfo,
	check core.PasswordCheck,
) {
	from := check.Format.String()

	if err := s.userProvider.UpdatePassword(ctx, user.ID, check.Upgraded); err != nil {
		metrics.PasswordMigrations.WithLabelValues(from, "failed").Inc()
		s.logger.Error("password upgrade failed",
			"user_id", user.ID,
			"from", from,
			"error", err,
		)
		return
	}

	metrics.PasswordMigrations.WithLabelValues(from, "migrated").Inc()
	s.logger.Info("password upgraded",
		"user_id", user.ID,
		"from", from,
	)
}

// Authenticate resolves a bearer token to the current state of its user.
func (s *Service) Authenticate(
	ctx context.Context,
	token string,
) (*middleware.Principal, error) {
	claims, err := s.jwt.VerifyToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.repo.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("authenticate: %w", core.ErrTokenRevoked)
	}

	user, err := s.userProvider.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("authenticate: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if claims.TokenVersion < user.TokenVersion {
		return nil, fmt.Errorf("authenticate: %w", core.ErrTokenRevoked)
	}

	return &middleware.Principal{
		UserID:      user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		IsAdmin:     user.IsAdmin,
		TokenID:     claims.TokenID,
		TokenExpiry: claims.ExpiresAt,
	}, nil
}

// Logout revokes only the presented token.
func (s *Service) Logout(
	ctx context.Context,
	principal *middleware.Principal,
) error {
	if principal == nil {
		return fmt.Errorf("logout: %w", core.ErrUnauthorized)
	}

	if err := s.repo.Revoke(ctx, principal.TokenID, principal.TokenExpiry); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	return nil
}

// LogoutAll invalidates every token issued to the user so far.
func (s *Service) LogoutAll(ctx context.Context, userID string) error {
	if err := s.userProvider.IncrementTokenVersion(ctx, userID); err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}

	return nil
}

func (s *Service) ChangePassword(
	ctx context.Context,
	userID string,
	req ChangePasswordRequest,
) error {
	user, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	check, err := core.CheckPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil || !check.Matched {
		return ErrInvalidCredentials
	}

	newHash, err := core.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userProvider.UpdatePassword(ctx, userID, newHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.LogoutAll(ctx, userID); err != nil {
		return fmt.Errorf("logout all: %w", err)
	}

	return nil
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*UserSummary, error) {
	user, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := toSummary(user)
	return &summary, nil
}

func (s *Service) createAuthResponse(user *UserInfo) (*AuthResponse, error) {
	token, _, err := s.jwt.CreateToken(user.ID, user.TokenVersion)
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}

	return &AuthResponse{
		User:  toSummary(user),
		Token: token,
	}, nil
}

var _ middleware.TokenAuthenticator = (*Service)(nil)
