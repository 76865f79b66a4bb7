package identity

import (
	"context"
	"time"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/identity"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/shared"
	"github.com/MAsTer0103-byte/eqb-platform/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService handles login, logout and token refresh
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// LoginResult carries the issued tokens and the authenticated user
type LoginResult struct {
	Tokens *auth.TokenPair `json:"tokens"`
	User   *UserDTO        `json:"user"`
}

// Login verifies credentials and issues a token pair. Credential failures
// are indistinguishable to the caller regardless of cause.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if !user.Active {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Account is disabled")
	}

	if !user.VerifyPassword(password) {
		s.logger.Warn("Failed login attempt", zap.String("email", email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate tokens", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate tokens")
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))

	return &LoginResult{
		Tokens: tokens,
		User:   toUserDTO(user),
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The email
// and role claims are re-read from the user record so role changes apply.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", err.Error())
	}

	blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		s.logger.Error("Failed to check token blacklist", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to validate token")
	}
	if blacklisted {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Token has been revoked")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Invalid token claims")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Unknown user")
	}
	if !user.Active {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Account is disabled")
	}

	issuedAt := time.Time{}
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}
	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, issuedAt)
	if err != nil {
		s.logger.Error("Failed to check user invalidation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to validate token")
	}
	if invalidated {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Token has been revoked")
	}

	tokens, err := s.jwtService.RefreshTokenPair(refreshToken, user.Email, string(user.Role))
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", err.Error())
	}

	// The old refresh token is single use
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Warn("Failed to blacklist used refresh token", zap.Error(err))
	}

	return tokens, nil
}

// Logout revokes the access token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		// Already invalid, nothing to revoke
		return nil
	}

	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Error("Failed to blacklist token on logout", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
	}

	s.logger.Info("User logged out", zap.String("user_id", claims.UserID))
	return nil
}

// ChangePassword verifies the old password, sets the new one and revokes
// every outstanding token for the user.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := user.ChangePassword(oldPassword, newPassword); err != nil {
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to change password")
	}

	// Force re-login everywhere
	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, user.ID.String(), ttl); err != nil {
		s.logger.Warn("Failed to invalidate user tokens after password change", zap.Error(err))
	}

	s.logger.Info("User changed password", zap.String("user_id", user.ID.String()))
	return nil
}

// ValidateAccess validates an access token against signature, blacklist and
// user-level invalidation. Returns the claims on success.
func (s *AuthService) ValidateAccess(ctx context.Context, accessToken string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, err
	}

	blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, auth.ErrTokenBlacklisted
	}

	issuedAt := time.Time{}
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}
	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, issuedAt)
	if err != nil {
		return nil, err
	}
	if invalidated {
		return nil, auth.ErrTokenBlacklisted
	}

	return claims, nil
}
