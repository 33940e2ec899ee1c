package application

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/config"
	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
	"gitlab.com/timkado/api/alumni-chat-service/internal/domain/mock"
)

func signToken(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestAuthService_IssueThenVerify(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mock.NewMockUserDirectory(ctrl)
	alice := &domain.User{ID: 1, Username: "alice", FullName: "Alice A"}
	users.EXPECT().FindByUsername(gomock.Any(), "alice").Return(alice, nil)

	svc := NewAuthService(testLogger(t), config.NewStaticProvider(testConfig()), users)

	token, expiresAt, err := svc.IssueToken(*alice)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(10080*time.Minute), expiresAt, time.Minute)

	got, err := svc.VerifyToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, alice, got)
}

func TestAuthService_VerifyTokenRejects(t *testing.T) {
	cfg := testConfig()
	valid := jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{name: "empty", token: func(t *testing.T) string { return "" }},
		{name: "garbage", token: func(t *testing.T) string { return "not-a-jwt" }},
		{name: "wrong secret", token: func(t *testing.T) string {
			return signToken(t, jwt.SigningMethodHS256, "other-secret", valid)
		}},
		{name: "other hmac algorithm", token: func(t *testing.T) string {
			return signToken(t, jwt.SigningMethodHS512, cfg.Auth.SecretKey, valid)
		}},
		{name: "expired", token: func(t *testing.T) string {
			return signToken(t, jwt.SigningMethodHS256, cfg.Auth.SecretKey, jwt.RegisteredClaims{
				Subject:   "alice",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			})
		}},
		{name: "missing exp", token: func(t *testing.T) string {
			return signToken(t, jwt.SigningMethodHS256, cfg.Auth.SecretKey, jwt.RegisteredClaims{Subject: "alice"})
		}},
		{name: "missing subject", token: func(t *testing.T) string {
			return signToken(t, jwt.SigningMethodHS256, cfg.Auth.SecretKey, jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			})
		}},
		{name: "unsigned", token: func(t *testing.T) string {
			s, err := jwt.NewWithClaims(jwt.SigningMethodNone, valid).SignedString(jwt.UnsafeAllowNoneSignatureType)
			require.NoError(t, err)
			return s
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			users := mock.NewMockUserDirectory(ctrl)

			svc := NewAuthService(testLogger(t), config.NewStaticProvider(cfg), users)
			_, err := svc.VerifyToken(context.Background(), tt.token(t))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrAuthentication)
		})
	}
}

func TestAuthService_VerifyTokenUnknownSubject(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := testConfig()
	users := mock.NewMockUserDirectory(ctrl)
	users.EXPECT().FindByUsername(gomock.Any(), "ghost").Return(nil, domain.ErrUserNotFound)

	svc := NewAuthService(testLogger(t), config.NewStaticProvider(cfg), users)
	token := signToken(t, jwt.SigningMethodHS256, cfg.Auth.SecretKey, jwt.RegisteredClaims{
		Subject:   "ghost",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	_, err := svc.VerifyToken(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrAuthentication)
}

func TestAuthService_Authenticate(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	alice := &domain.User{ID: 1, Username: "alice", HashedPassword: hash}

	tests := []struct {
		name     string
		username string
		password string
		setup    func(users *mock.MockUserDirectory)
		wantErr  error
	}{
		{
			name: "valid credentials", username: "alice", password: "correct horse",
			setup: func(users *mock.MockUserDirectory) {
				users.EXPECT().FindByUsername(gomock.Any(), "alice").Return(alice, nil)
			},
		},
		{
			name: "wrong password", username: "alice", password: "battery staple",
			setup: func(users *mock.MockUserDirectory) {
				users.EXPECT().FindByUsername(gomock.Any(), "alice").Return(alice, nil)
			},
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name: "unknown user", username: "mallory", password: "x",
			setup: func(users *mock.MockUserDirectory) {
				users.EXPECT().FindByUsername(gomock.Any(), "mallory").Return(nil, domain.ErrUserNotFound)
			},
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name: "empty password", username: "alice", password: "",
			setup:   func(users *mock.MockUserDirectory) {},
			wantErr: domain.ErrInvalidCredentials,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			users := mock.NewMockUserDirectory(ctrl)
			tt.setup(users)

			svc := NewAuthService(testLogger(t), config.NewStaticProvider(testConfig()), users)
			got, err := svc.Authenticate(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, alice.ID, got.ID)
		})
	}
}
