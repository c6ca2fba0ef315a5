package services

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/avstack/console/internal/config"
	"github.com/avstack/console/internal/models"
	"github.com/avstack/console/internal/utils"
	"github.com/avstack/console/pkg/response"
	"gorm.io/gorm"
)

func init() {
	utils.SetJWTSecret("test-secret-key-for-auth-service")
}

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(db, &config.JWTConfig{
		Secret:        "test-secret-key-for-auth-service",
		ExpireMinutes: 60,
	})
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	user := createTestUser(t, db, "person@example.com", "correct-password", models.RoleUser)

	result, err := svc.Login(&LoginRequest{Email: "Person@Example.com", Password: "correct-password"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Token == "" {
		t.Fatal("Login() returned an empty token")
	}
	if result.User.ID != user.ID {
		t.Errorf("user id = %d, expected %d", result.User.ID, user.ID)
	}

	claims, err := utils.ParseToken(result.Token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email || claims.Role != models.RoleUser {
		t.Errorf("claims = %+v, expected the logged-in user's identity", claims)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	createTestUser(t, db, "person@example.com", "correct-password", models.RoleUser)

	tests := []struct {
		name string
		req  LoginRequest
	}{
		{"wrong password", LoginRequest{Email: "person@example.com", Password: "wrong-password"}},
		{"unknown email", LoginRequest{Email: "stranger@example.com", Password: "correct-password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(&tt.req)
			var appErr *response.AppError
			if !errors.As(err, &appErr) || appErr.HTTPStatus != http.StatusUnauthorized {
				t.Fatalf("expected unauthorized, got %v", err)
			}
			// Unknown account and wrong password must be indistinguishable.
			if appErr.Message != "invalid email or password" {
				t.Errorf("message = %q leaks account existence", appErr.Message)
			}
		})
	}
}

func TestLogin_SessionTimeoutFromSettings(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	createTestUser(t, db, "person@example.com", "correct-password", models.RoleUser)

	if _, err := NewSettingsService(db).Upsert(SettingSessionTimeoutMinutes, "15"); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	result, err := svc.Login(&LoginRequest{Email: "person@example.com", Password: "correct-password"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	expected := time.Now().Add(15 * time.Minute)
	diff := result.ExpireAt.Sub(expected)
	if diff < -time.Minute || diff > time.Minute {
		t.Errorf("ExpireAt = %v, expected about %v", result.ExpireAt, expected)
	}
}

func TestLogin_SessionTimeoutFallback(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	createTestUser(t, db, "person@example.com", "correct-password", models.RoleUser)

	result, err := svc.Login(&LoginRequest{Email: "person@example.com", Password: "correct-password"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// No override stored: the static config's 60 minutes apply.
	expected := time.Now().Add(60 * time.Minute)
	diff := result.ExpireAt.Sub(expected)
	if diff < -time.Minute || diff > time.Minute {
		t.Errorf("ExpireAt = %v, expected about %v", result.ExpireAt, expected)
	}
}

func TestAllowSelfRegistration(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	if !svc.AllowSelfRegistration() {
		t.Error("self-registration should default to open")
	}

	if _, err := NewSettingsService(db).Upsert(SettingAllowSelfRegistration, "false"); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if svc.AllowSelfRegistration() {
		t.Error("stored 'false' should close self-registration")
	}
}

func TestChangePassword(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	user := createTestUser(t, db, "person@example.com", "old-password-1", models.RoleUser)

	err := svc.ChangePassword(user.ID, &ChangePasswordRequest{
		OldPassword: "wrong-password",
		NewPassword: "new-password-1",
	})
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected bad request for wrong old password, got %v", err)
	}

	if err := svc.ChangePassword(user.ID, &ChangePasswordRequest{
		OldPassword: "old-password-1",
		NewPassword: "new-password-1",
	}); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	if _, err := svc.Login(&LoginRequest{Email: "person@example.com", Password: "new-password-1"}); err != nil {
		t.Errorf("login with the new password failed: %v", err)
	}
	if _, err := svc.Login(&LoginRequest{Email: "person@example.com", Password: "old-password-1"}); err == nil {
		t.Error("login with the old password should fail")
	}
}
