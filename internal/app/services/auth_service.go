package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/acoe/bonafide/internal/app/models"
	"github.com/acoe/bonafide/internal/app/models/dto"
	"github.com/acoe/bonafide/internal/app/repositories"
	"github.com/acoe/bonafide/internal/db"
	"github.com/acoe/bonafide/internal/pkg/apperrors"
	"github.com/acoe/bonafide/internal/pkg/auth"
)

// AuthService handles authentication operations
type AuthService struct {
	profileRepo *repositories.ProfileRepository
	tokenRepo   *repositories.TokenRepository
	jwtService  *auth.JWTService
	database    *db.PostgresDB
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	profileRepo *repositories.ProfileRepository,
	tokenRepo *repositories.TokenRepository,
	jwtService *auth.JWTService,
	database *db.PostgresDB,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		profileRepo: profileRepo,
		tokenRepo:   tokenRepo,
		jwtService:  jwtService,
		database:    database,
		logger:      logger,
	}
}

// Login authenticates an account by username or email and password
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	login := strings.TrimSpace(req.Username)
	if login == "" || req.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	profile, err := s.profileRepo.GetByLogin(ctx, login)
	if err != nil {
		// Do not reveal whether the account exists.
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(profile.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !profile.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	return s.generateAuthResponse(ctx, profile)
}

// RefreshToken rotates a refresh token and issues a new access token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	profileID, _, err := s.tokenRepo.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("profile not found for token: %w", err)
	}

	if !profile.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	// Revoke the used token so it cannot be replayed.
	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to revoke old token: %w", err)
	}

	return s.generateAuthResponse(ctx, profile)
}

// Logout revokes every active refresh token of the profile
func (s *AuthService) Logout(ctx context.Context, profileID int64) error {
	return s.tokenRepo.RevokeAllProfileTokens(ctx, profileID)
}

// GetProfile retrieves the authenticated account's profile
func (s *AuthService) GetProfile(ctx context.Context, profileID int64) (*models.Profile, error) {
	if profileID <= 0 {
		return nil, apperrors.ErrProfileNotFound
	}
	return s.profileRepo.GetByID(ctx, profileID)
}

// UpdateProfile updates the contact details of the authenticated account.
// Role, username and placement fields cannot be changed here.
func (s *AuthService) UpdateProfile(ctx context.Context, profileID int64, req *dto.UpdateOwnProfileRequest) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	profile.FirstName = strings.TrimSpace(req.FirstName)
	profile.LastName = strings.TrimSpace(req.LastName)
	profile.Email = strings.TrimSpace(req.Email)
	profile.PhoneNumber = strings.TrimSpace(req.PhoneNumber)

	if err := s.profileRepo.Update(ctx, s.database.Pool, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// ChangePassword verifies the current password and replaces it
func (s *AuthService) ChangePassword(ctx context.Context, profileID int64, req *dto.ChangePasswordRequest) error {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(profile.Password, req.CurrentPassword) {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := s.profileRepo.UpdatePassword(ctx, profileID, hash); err != nil {
		return err
	}

	// Force re-login everywhere else.
	if err := s.tokenRepo.RevokeAllProfileTokens(ctx, profileID); err != nil {
		s.logger.Warn().Err(err).Int64("profileID", profileID).Msg("Failed to revoke tokens after password change")
	}

	return nil
}

// generateAuthResponse creates the token pair and persists the refresh token
func (s *AuthService) generateAuthResponse(ctx context.Context, profile *models.Profile) (*dto.AuthResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(profile)
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}

	tokenExpiry := s.jwtService.GetRefreshTokenExpiry()

	if err := s.tokenRepo.CreateToken(ctx, refreshToken, profile.ID, tokenExpiry); err != nil {
		return nil, fmt.Errorf("token saving error: %w", err)
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken:           accessToken,
			RefreshToken:          refreshToken,
			TokenType:             "Bearer",
			ExpiresIn:             int64(expiresIn),
			RefreshTokenExpiresIn: int64(refreshExpiresIn),
		},
		User: dto.NewProfileResponse(profile),
	}, nil
}
