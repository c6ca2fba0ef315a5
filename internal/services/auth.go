package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/avstack/console/internal/config"
	"github.com/avstack/console/internal/models"
	"github.com/avstack/console/internal/utils"
	"github.com/avstack/console/pkg/response"
	"gorm.io/gorm"
)

type AuthService struct {
	db           *gorm.DB
	jwtConfig    *config.JWTConfig
	settings     *SettingsService
	registration *RegistrationService
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{
		db:           db,
		jwtConfig:    jwtCfg,
		settings:     NewSettingsService(db),
		registration: NewRegistrationService(db),
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token    string       `json:"token"`
	User     *models.User `json:"user"`
	ExpireAt time.Time    `json:"expire_at"`
}

// Login authenticates by email and password and issues a session token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(req *LoginRequest) (*LoginResult, error) {
	var user models.User
	err := s.db.Where("email = ?", NormalizeEmail(req.Email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewUnauthorized("invalid email or password")
	}
	if err != nil {
		return nil, err
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, response.NewUnauthorized("invalid email or password")
	}

	minutes := s.sessionTimeoutMinutes()
	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, minutes)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:    token,
		User:     &user,
		ExpireAt: time.Now().Add(time.Duration(minutes) * time.Minute),
	}, nil
}

// Register delegates to the registration gate.
func (s *AuthService) Register(input SignUpInput) (*models.User, error) {
	return s.registration.SignUp(input)
}

// AllowSelfRegistration reports the current self-registration policy.
func (s *AuthService) AllowSelfRegistration() bool {
	return s.settings.GetBoolean(SettingAllowSelfRegistration, true)
}

// GetUserByID retrieves a user by ID.
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func (s *AuthService) ChangePassword(userID uint, req *ChangePasswordRequest) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if !utils.CheckPassword(req.OldPassword, user.Password) {
		return response.NewBadRequest("incorrect old password")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	return s.db.Model(user).Update("password", hash).Error
}

// sessionTimeoutMinutes reads the session lifetime from the settings store,
// falling back to the static config when unset or unparsable.
func (s *AuthService) sessionTimeoutMinutes() int {
	fallback := s.jwtConfig.ExpireMinutes
	if fallback <= 0 {
		fallback = 120
	}

	setting, err := s.settings.Get(SettingSessionTimeoutMinutes)
	if err != nil {
		return fallback
	}
	minutes, err := strconv.Atoi(setting.Value)
	if err != nil || minutes <= 0 {
		return fallback
	}
	return minutes
}
