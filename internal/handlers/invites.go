package handlers

import (
	"strconv"
	"time"

	"github.com/avstack/console/internal/middleware"
	"github.com/avstack/console/internal/models"
	"github.com/avstack/console/internal/services"
	"github.com/avstack/console/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type InviteHandler struct {
	inviteService *services.InviteService
	auditService  *services.AuditService
}

func NewInviteHandler(db *gorm.DB) *InviteHandler {
	return &InviteHandler{
		inviteService: services.NewInviteService(db),
		auditService:  services.NewAuditService(db),
	}
}

// List returns all invites, newest first.
// GET /api/admin/invites
func (h *InviteHandler) List(c *gin.Context) {
	invites, err := h.inviteService.ListForAdmin()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"items": invites})
}

type CreateInviteRequest struct {
	Email         string `json:"email" binding:"required"`
	ExpiresInDays int    `json:"expires_in_days"`
}

// Create mints a registration invite bound to an email. The expiry window
// is 1-30 days, defaulting to 7.
// POST /api/admin/invites
func (h *InviteHandler) Create(c *gin.Context) {
	var req CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.NewBadRequest(err.Error()))
		return
	}

	if req.ExpiresInDays == 0 {
		req.ExpiresInDays = 7
	}
	if req.ExpiresInDays < 1 || req.ExpiresInDays > 30 {
		response.Error(c, response.NewBadRequest("expires_in_days must be between 1 and 30"))
		return
	}

	invite, err := h.inviteService.Create(services.CreateInviteInput{
		Email:           req.Email,
		CreatedByUserID: middleware.GetUserID(c),
		ExpiresAt:       time.Now().Add(time.Duration(req.ExpiresInDays) * 24 * time.Hour),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	h.auditService.Record(services.AuditInsertInput{
		Category:    models.AuditCategoryUser,
		Action:      "invite.create",
		Title:       "Invite created: " + invite.Email,
		Description: "Admin created a registration invite link",
		Actor:       middleware.GetEmail(c),
		Metadata: map[string]string{
			"invite_id":  strconv.FormatUint(uint64(invite.ID), 10),
			"email":      invite.Email,
			"expires_at": invite.ExpiresAt.UTC().Format(time.RFC3339),
		},
	})

	response.Created(c, gin.H{"invite": invite})
}

// Revoke permanently invalidates an invite.
// POST /api/admin/invites/:id/revoke
func (h *InviteHandler) Revoke(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, response.NewBadRequest("invalid invite id"))
		return
	}

	invite, err := h.inviteService.RevokeByID(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	h.auditService.Record(services.AuditInsertInput{
		Category:    models.AuditCategoryUser,
		Action:      "invite.revoke",
		Title:       "Invite revoked: " + invite.Email,
		Description: "Admin revoked a registration invite link",
		Actor:       middleware.GetEmail(c),
		Metadata: map[string]string{
			"invite_id": strconv.FormatUint(uint64(invite.ID), 10),
			"email":     invite.Email,
		},
	})

	response.Success(c, gin.H{"invite": gin.H{
		"id":         invite.ID,
		"revoked_at": invite.RevokedAt,
	}})
}
