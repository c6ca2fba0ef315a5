package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/avstack/console/internal/config"
	"github.com/avstack/console/internal/middleware"
	"github.com/avstack/console/internal/services"
	"github.com/avstack/console/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// InviteTokenHeader is the fallback location for the invite token when the
// sign-up body does not carry one.
const InviteTokenHeader = "X-Invite-Token"

type AuthHandler struct {
	authService   *services.AuthService
	inviteService *services.InviteService
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService:   services.NewAuthService(db, &cfg.JWT),
		inviteService: services.NewInviteService(db),
	}
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.NewBadRequest(err.Error()))
		return
	}

	result, err := h.authService.Login(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

type RegisterRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	InviteToken string `json:"invite_token"`
}

// Register handles account sign-up, gated by the self-registration policy.
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.NewBadRequest(err.Error()))
		return
	}

	inviteToken := strings.TrimSpace(req.InviteToken)
	if inviteToken == "" {
		inviteToken = strings.TrimSpace(c.GetHeader(InviteTokenHeader))
	}

	user, err := h.authService.Register(services.SignUpInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		InviteToken: inviteToken,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"user": user})
}

// RegistrationPolicy reports whether self-registration is open.
// GET /api/auth/registration
func (h *AuthHandler) RegistrationPolicy(c *gin.Context) {
	response.Success(c, gin.H{
		"allow_self_registration": h.authService.AllowSelfRegistration(),
	})
}

// InviteStatus reports whether a token is currently redeemable and, if so,
// the email it is bound to. Invalid, expired, used, revoked and unknown
// tokens all answer the same way.
// GET /api/auth/invite-status?token=
func (h *AuthHandler) InviteStatus(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		response.Error(c, response.NewBadRequest("token is required"))
		return
	}

	invite, err := h.inviteService.GetValidByToken(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	if invite == nil {
		response.Success(c, gin.H{"valid": false})
		return
	}

	response.Success(c, gin.H{
		"valid":      true,
		"email":      invite.Email,
		"expires_at": invite.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// GetCurrentUser returns the current logged-in user
// GET /api/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, err := h.authService.GetUserByID(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"user": user})
}

// Logout handles user logout (client-side token removal)
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

// ChangePassword updates the caller's password.
// POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.NewBadRequest(err.Error()))
		return
	}

	if err := h.authService.ChangePassword(middleware.GetUserID(c), &req); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "password changed"})
}
