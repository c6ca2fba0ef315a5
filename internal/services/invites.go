package services

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/avstack/console/internal/models"
	"github.com/avstack/console/pkg/response"
	"gorm.io/gorm"
)

// inviteTokenBytes is the entropy of a freshly minted invite token.
// 24 bytes → 192 bits, base64url-encoded to 32 characters.
const inviteTokenBytes = 24

type InviteService struct {
	db *gorm.DB
}

func NewInviteService(db *gorm.DB) *InviteService {
	return &InviteService{db: db}
}

// NormalizeEmail lower-cases and trims an email address. All invite email
// comparisons use this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateInviteToken mints a URL-safe random token.
func generateInviteToken() (string, error) {
	buf := make([]byte, inviteTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

type CreateInviteInput struct {
	Email           string
	Role            string
	CreatedByUserID uint
	ExpiresAt       time.Time
}

// Create mints a new invite. The role defaults to the least-privileged role
// when unset. A token collision surfaces as a storage error; the caller may
// retry with a fresh token.
func (s *InviteService) Create(input CreateInviteInput) (*models.Invite, error) {
	email := NormalizeEmail(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, response.NewBadRequest("a valid invite email is required")
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	if !models.IsValidRole(role) {
		return nil, response.NewBadRequest("invalid invite role " + role)
	}

	token, err := generateInviteToken()
	if err != nil {
		return nil, err
	}

	invite := models.Invite{
		Token:           token,
		Email:           email,
		Role:            role,
		CreatedByUserID: input.CreatedByUserID,
		ExpiresAt:       input.ExpiresAt,
	}
	if err := s.db.Create(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// GetValidByToken returns the invite only while it is unused, unrevoked and
// unexpired. Expired, consumed, revoked and nonexistent tokens are all
// reported the same way so callers cannot probe which tokens exist.
func (s *InviteService) GetValidByToken(token string) (*models.Invite, error) {
	var invite models.Invite
	err := s.db.
		Where("token = ? AND used_at IS NULL AND revoked_at IS NULL AND expires_at > ?", token, time.Now()).
		First(&invite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

type ConsumeInviteInput struct {
	Token        string
	UsedByUserID *uint
	UsedByEmail  string
}

// ConsumeByToken marks an invite used. The validity conditions are part of
// the UPDATE's WHERE clause, so two concurrent consumers cannot both
// succeed: the row transitions at most once and the loser sees zero
// affected rows, reported as not-found.
func (s *InviteService) ConsumeByToken(input ConsumeInviteInput) (*models.Invite, error) {
	now := time.Now()
	result := s.db.Model(&models.Invite{}).
		Where("token = ? AND used_at IS NULL AND revoked_at IS NULL AND expires_at > ?", input.Token, now).
		Updates(map[string]interface{}{
			"used_at":         now,
			"used_by_user_id": input.UsedByUserID,
			"used_by_email":   NormalizeEmail(input.UsedByEmail),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, response.NewNotFound("invite not found")
	}

	var invite models.Invite
	if err := s.db.Where("token = ?", input.Token).First(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// RevokeByID stamps RevokedAt, permanently invalidating the invite. An
// already-used invite can still be revoked; that changes nothing about its
// effective validity. Unknown ids are not-found.
func (s *InviteService) RevokeByID(id uint) (*models.Invite, error) {
	result := s.db.Model(&models.Invite{}).
		Where("id = ?", id).
		Update("revoked_at", time.Now())
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, response.NewNotFound("invite not found")
	}

	var invite models.Invite
	if err := s.db.First(&invite, id).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// ListForAdmin returns all invites, newest-created-first.
func (s *InviteService) ListForAdmin() ([]models.Invite, error) {
	var invites []models.Invite
	if err := s.db.Order("created_at DESC, id DESC").Find(&invites).Error; err != nil {
		return nil, err
	}
	return invites, nil
}
