package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/config"
	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/metrics"
	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
)

// AuthService verifies bearer tokens and username/password credentials, and issues access tokens.
type AuthService struct {
	logger         domain.Logger
	configProvider config.Provider
	users          domain.UserDirectory
}

// NewAuthService creates a new AuthService.
func NewAuthService(logger domain.Logger, configProvider config.Provider, users domain.UserDirectory) *AuthService {
	return &AuthService{
		logger:         logger,
		configProvider: configProvider,
		users:          users,
	}
}

func (s *AuthService) signingMethod() jwt.SigningMethod {
	alg := strings.ToUpper(s.configProvider.Get().Auth.Algorithm)
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	if m, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC); ok {
		return m
	}
	return jwt.SigningMethodHS256
}

// VerifyToken validates the signature and expiry of token and resolves its subject (a username) to a
// user. Every failure is reported as domain.ErrAuthentication.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*domain.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: empty token", domain.ErrAuthentication)
	}

	method := s.signingMethod()
	secret := []byte(s.configProvider.Get().Auth.SecretKey)

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return secret, nil
		},
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		s.logger.Warn(ctx, "Token verification failed", "error", err.Error())
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthentication, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrAuthentication)
	}

	user, err := s.users.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Warn(ctx, "Token subject does not resolve to a user", "username", claims.Subject)
			return nil, fmt.Errorf("%w: unknown subject", domain.ErrAuthentication)
		}
		s.logger.Error(ctx, "User lookup failed during token verification", "username", claims.Subject, "error", err.Error())
		return nil, fmt.Errorf("%w: user lookup: %v", domain.ErrAuthentication, err)
	}
	return user, nil
}

// Authenticate checks a username/password pair against the stored bcrypt hash.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.IncrementAuthFailure("http")
			s.logger.Warn(ctx, "Login failed, user not found", "username", username)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("user lookup: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		metrics.IncrementAuthFailure("http")
		s.logger.Warn(ctx, "Login failed, invalid password", "username", username, "user_id", user.ID)
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken signs an access token whose subject is the user's username.
func (s *AuthService) IssueToken(user domain.User) (string, time.Time, error) {
	cfg := s.configProvider.Get().Auth
	minutes := cfg.AccessTokenExpireMinutes
	if minutes <= 0 {
		minutes = 10080
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(minutes) * time.Minute)

	claims := jwt.RegisteredClaims{
		Subject:   user.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(s.signingMethod(), claims).SignedString([]byte(cfg.SecretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// HashPassword returns the bcrypt hash stored in users.hashed_password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
