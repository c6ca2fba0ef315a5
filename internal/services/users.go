package services

import (
	"errors"
	"strings"

	"github.com/avstack/console/internal/models"
	"github.com/avstack/console/internal/utils"
	"github.com/avstack/console/pkg/logger"
	"github.com/avstack/console/pkg/response"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// ListForAdmin returns all users, newest-created-first.
func (s *UserService) ListForAdmin() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("created_at DESC, id DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewNotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) CountSuperusers() (int64, error) {
	var count int64
	err := s.db.Model(&models.User{}).Where("role = ?", models.RoleSuperuser).Count(&count).Error
	return count, err
}

// SetRole changes a user's role. Demotions run inside a transaction that
// re-checks the superuser count, and the final write matches on the role
// observed inside the transaction, so two concurrent demotions cannot both
// slip past the last-superuser guard.
func (s *UserService) SetRole(userID uint, role string) (*models.User, error) {
	if !models.IsValidRole(role) {
		return nil, response.NewBadRequest("invalid role, must be 'user' or 'superuser'")
	}

	var updated models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NewNotFound("user not found")
			}
			return err
		}

		if user.Role == models.RoleSuperuser && role != models.RoleSuperuser {
			var superusers int64
			if err := tx.Model(&models.User{}).
				Where("role = ?", models.RoleSuperuser).
				Count(&superusers).Error; err != nil {
				return err
			}
			if superusers <= 1 {
				return response.NewConflict("cannot remove the last superuser")
			}
		}

		result := tx.Model(&models.User{}).
			Where("id = ? AND role = ?", userID, user.Role).
			Update("role", role)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return response.NewConflict("user role changed concurrently, retry")
		}

		return tx.First(&updated, userID).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

type UpdateProfileInput struct {
	UserID uint
	Name   string
	Email  string
}

// UpdateProfile updates a user's own name and email.
func (s *UserService) UpdateProfile(input UpdateProfileInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if len(name) < 2 || len(name) > 64 {
		return nil, response.NewBadRequest("name must be between 2 and 64 characters")
	}

	email := NormalizeEmail(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, response.NewBadRequest("a valid email is required")
	}

	var user models.User
	if err := s.db.First(&user, input.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}

	if email != user.Email {
		var count int64
		if err := s.db.Model(&models.User{}).
			Where("email = ? AND id <> ?", email, user.ID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, response.NewConflict("email is already in use")
		}
	}

	updates := map[string]interface{}{"name": name, "email": email}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := s.db.First(&user, input.UserID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// EnsureSuperuser seeds the initial superuser on first start. When the
// account already exists it is promoted instead; when any superuser exists
// nothing happens.
func (s *UserService) EnsureSuperuser(email, name, password string) error {
	count, err := s.CountSuperusers()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email = NormalizeEmail(email)

	var existing models.User
	err = s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		logger.Infof("promoting %s to superuser", email)
		return s.db.Model(&existing).Update("role", models.RoleSuperuser).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	logger.Infof("creating initial superuser %s", email)
	return s.db.Create(&models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     models.RoleSuperuser,
	}).Error
}
