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

type AccountHandler struct {
	userService  *services.UserService
	auditService *services.AuditService
}

func NewAccountHandler(db *gorm.DB) *AccountHandler {
	return &AccountHandler{
		userService:  services.NewUserService(db),
		auditService: services.NewAuditService(db),
	}
}

// GetProfile returns the caller's own account.
// GET /api/account/profile
func (h *AccountHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.GetByID(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"user": user})
}

type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

// UpdateProfile updates the caller's name and email.
// PUT /api/account/profile
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.NewBadRequest(err.Error()))
		return
	}

	userID := middleware.GetUserID(c)
	updated, err := h.userService.UpdateProfile(services.UpdateProfileInput{
		UserID: userID,
		Name:   req.Name,
		Email:  req.Email,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	h.auditService.Record(services.AuditInsertInput{
		Category:    models.AuditCategoryUser,
		Action:      "profile.update",
		Title:       "Profile updated: " + updated.Email,
		Description: "User profile information was updated",
		Actor:       middleware.GetEmail(c),
		Metadata: map[string]string{
			"user_id": strconv.FormatUint(uint64(userID), 10),
			"email":   updated.Email,
		},
	})

	response.Success(c, gin.H{"user": updated})
}
