package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/eduboard-api/internal/models"
	appErrors "github.com/noah-isme/eduboard-api/pkg/errors"
)

type profileFinder interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
}

// AuthConfig defines token verification settings.
type AuthConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
	// AllowClaimRole lets a token's own role claim stand in for a missing
	// profile. Only enabled outside production.
	AllowClaimRole bool
}

// AuthService verifies access tokens minted by the hosted auth backend and
// resolves the caller's profile.
type AuthService struct {
	profiles profileFinder
	logger   *zap.Logger
	config   AuthConfig
	now      func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(profiles profileFinder, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Expiration <= 0 {
		config.Expiration = time.Hour
	}
	return &AuthService{profiles: profiles, logger: logger, config: config, now: time.Now}
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, opts...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || claims.UserID() == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// IssueToken signs a token for the given profile. Production tokens come from
// the hosted backend; this exists for local development and tests.
func (s *AuthService) IssueToken(userID, email string, role models.UserRole) (string, time.Time, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.Expiration)
	claims := &models.JWTClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ResolvePrincipal loads the caller's profile. The profile role is
// authoritative; the claim role is only consulted when AllowClaimRole is set
// and no profile exists.
func (s *AuthService) ResolvePrincipal(ctx context.Context, claims *models.JWTClaims) (*models.Principal, error) {
	if claims == nil || claims.UserID() == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "missing token subject")
	}
	profile, err := s.profiles.FindByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if s.config.AllowClaimRole && claims.Role.Valid() {
				s.logger.Debug("profile missing, using claim role", zap.String("user_id", claims.UserID()))
				return &models.Principal{UserID: claims.UserID(), Email: claims.Email, Role: claims.Role}, nil
			}
			return nil, appErrors.Clone(appErrors.ErrForbidden, "profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	if !profile.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "unsupported role")
	}
	return &models.Principal{
		UserID:   profile.ID,
		Email:    claims.Email,
		FullName: profile.FullName,
		Role:     profile.Role,
	}, nil
}
