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

// Gate rejection messages. Sign-up clients branch on these, so they are
// part of the API contract. None of them reveals whether a token exists,
// is expired, used or revoked.
const (
	MsgRegistrationDisabled = "Registration is available only by invite link"
	MsgInviteInvalid        = "Invite link is invalid or expired"
	MsgInviteEmailMismatch  = "Invite link is bound to a different email"
)

// RegistrationService gates account sign-up on the self-registration
// setting and the invite registry. Policy is read from storage on every
// attempt; registration is rare enough that freshness beats latency here.
type RegistrationService struct {
	db       *gorm.DB
	settings *SettingsService
	invites  *InviteService
	audit    *AuditService
}

func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{
		db:       db,
		settings: NewSettingsService(db),
		invites:  NewInviteService(db),
		audit:    NewAuditService(db),
	}
}

type SignUpInput struct {
	Name        string
	Email       string
	Password    string
	InviteToken string
}

// SignUp runs the registration gate and, when it passes, creates the
// account.
//
// When self-registration is disabled the attempt must present a valid
// invite whose email matches the submitted one. After the account is
// created on the gated path, the invite is consumed; losing that
// consumption race does not undo the account -- it already exists and is
// usable, so the response stays successful and the loss is only logged.
func (s *RegistrationService) SignUp(input SignUpInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if len(name) < 2 || len(name) > 64 {
		return nil, response.NewBadRequest("name must be between 2 and 64 characters")
	}

	email := NormalizeEmail(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, response.NewBadRequest("a valid email is required")
	}

	if len(input.Password) < 8 {
		return nil, response.NewBadRequest("password must be at least 8 characters")
	}

	allowSelfRegistration := s.settings.GetBoolean(SettingAllowSelfRegistration, true)
	inviteToken := strings.TrimSpace(input.InviteToken)

	role := models.RoleUser
	if !allowSelfRegistration {
		if inviteToken == "" {
			return nil, response.NewForbidden(MsgRegistrationDisabled)
		}

		invite, err := s.invites.GetValidByToken(inviteToken)
		if err != nil {
			return nil, err
		}
		if invite == nil {
			return nil, response.NewForbidden(MsgInviteInvalid)
		}
		if email != invite.Email {
			return nil, response.NewForbidden(MsgInviteEmailMismatch)
		}
		role = invite.Role
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     role,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, response.NewConflict("an account with this email already exists")
		}
		return nil, err
	}

	if !allowSelfRegistration && inviteToken != "" {
		// Conditional consume; a lost race means another registration beat
		// us to the invite after our validity check. The account stands.
		if _, err := s.invites.ConsumeByToken(ConsumeInviteInput{
			Token:        inviteToken,
			UsedByUserID: &user.ID,
			UsedByEmail:  email,
		}); err != nil {
			logger.Warn().
				Err(err).
				Str("email", email).
				Msg("invite consumption lost after account creation")
		}
	}

	s.audit.Record(AuditInsertInput{
		Category:    models.AuditCategoryUser,
		Action:      "user.register",
		Title:       "User registered: " + email,
		Description: "A new account was created",
		Actor:       email,
		Metadata: map[string]string{
			"email":   email,
			"invited": boolString(!allowSelfRegistration),
		},
	})

	return &user, nil
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// isDuplicateErr detects unique-constraint violations across the supported
// drivers.
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
