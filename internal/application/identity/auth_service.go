package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	ErrAccountLocked      = shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later")
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
		now:        time.Now,
	}
}

// Login authenticates a user and issues a session token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	s.logger.Info("Login attempt", zap.String("username", username), zap.String("ip", input.IP))

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("User not found during login", zap.String("username", username))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := s.now()
	if user.IsLocked(now) {
		s.logger.Warn("Login attempt for locked account", zap.String("username", username))
		return nil, ErrAccountLocked
	}
	if !user.CanLogin(now) {
		s.logger.Warn("Login attempt for inactive account", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	if !user.VerifyPassword(input.Password) {
		locked := user.RecordLoginFailure(now)
		if err := s.userRepo.Save(ctx, user); err != nil {
			s.logger.Error("Failed to update user after login failure", zap.Error(err))
		}
		if locked {
			s.logger.Warn("Account locked after too many failed attempts",
				zap.String("username", username),
				zap.Int("attempts", identity.MaxFailedAttempts))
			return nil, shared.NewDomainError(ErrAccountLocked.Code, "Too many failed login attempts. Account has been locked")
		}
		s.logger.Warn("Invalid password attempt",
			zap.String("username", username),
			zap.Int("failed_attempts", user.FailedLoginAttempts))
		return nil, ErrInvalidCredentials
	}

	token, claims, err := s.jwtService.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return nil, fmt.Errorf("generate token for %s: %w", user.Username, err)
	}

	user.RecordLoginSuccess(now)
	if err := s.userRepo.Save(ctx, user); err != nil {
		// the login still stands
		s.logger.Error("Failed to update user after successful login", zap.Error(err))
	}

	s.logger.Info("User logged in successfully",
		zap.String("username", user.Username),
		zap.String("user_id", user.ID.String()))

	return &LoginResult{
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Time,
		TokenType:   "Bearer",
		User:        toUserInfo(user),
	}, nil
}

// Logout revokes the session token until it would have expired
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("User logout", zap.String("user_id", input.UserID.String()))

	if input.TokenJTI == "" || s.blacklist == nil {
		return nil
	}
	if err := s.blacklist.Blacklist(ctx, input.TokenJTI, input.TokenTTL); err != nil {
		s.logger.Error("Failed to blacklist token", zap.Error(err))
		return err
	}
	return nil
}

// GetCurrentUser retrieves the signed-in user's information
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(user)
	return &info, nil
}
