package handlers

import (
	"strconv"

	"github.com/avstack/console/internal/middleware"
	"github.com/avstack/console/internal/models"
	"github.com/avstack/console/internal/services"
	"github.com/avstack/console/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct {
	userService  *services.UserService
	auditService *services.AuditService
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{
		userService:  services.NewUserService(db),
		auditService: services.NewAuditService(db),
	}
}

// List returns all users for the admin console.
// GET /api/admin/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.ListForAdmin()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"items": users})
}

// AdminProfile returns the calling admin plus user statistics.
// GET /api/admin/profile
func (h *UserHandler) AdminProfile(c *gin.Context) {
	users, err := h.userService.ListForAdmin()
	if err != nil {
		response.Error(c, err)
		return
	}

	currentID := middleware.GetUserID(c)
	var current *models.User
	superusers := 0
	for i := range users {
		if users[i].ID == currentID {
			current = &users[i]
		}
		if users[i].Role == models.RoleSuperuser {
			superusers++
		}
	}

	response.Success(c, gin.H{
		"user": current,
		"stats": gin.H{
			"users_count":      len(users),
			"superusers_count": superusers,
		},
	})
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// SetRole changes a user's role. A superuser can never demote themselves,
// and the last remaining superuser can never be demoted.
// PUT /api/admin/users/:id/role
func (h *UserHandler) SetRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, response.NewBadRequest("invalid user id"))
		return
	}

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.NewBadRequest(err.Error()))
		return
	}

	currentID := middleware.GetUserID(c)
	if uint(id) == currentID && req.Role != models.RoleSuperuser {
		response.Error(c, response.NewConflict("you cannot remove your own superuser role"))
		return
	}

	target, err := h.userService.GetByID(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	oldRole := target.Role

	updated, err := h.userService.SetRole(uint(id), req.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.auditService.Record(services.AuditInsertInput{
		Category:    models.AuditCategoryUser,
		Action:      "role.change",
		Title:       "Role changed: " + updated.Email,
		Description: "Role changed from '" + oldRole + "' to '" + req.Role + "'",
		Actor:       middleware.GetEmail(c),
		Metadata: map[string]string{
			"user_id":  strconv.FormatUint(id, 10),
			"email":    updated.Email,
			"old_role": oldRole,
			"new_role": req.Role,
		},
	})

	response.Success(c, gin.H{"user": updated})
}
