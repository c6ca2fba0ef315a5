package handlers

import (
	"github.com/avstack/console/internal/middleware"
	"github.com/avstack/console/internal/models"
	"github.com/avstack/console/internal/services"
	"github.com/avstack/console/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SettingsHandler struct {
	settingsService *services.SettingsService
	auditService    *services.AuditService
}

func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{
		settingsService: services.NewSettingsService(db),
		auditService:    services.NewAuditService(db),
	}
}

// List returns the full settings registry with effective values.
// GET /api/admin/settings
func (h *SettingsHandler) List(c *gin.Context) {
	items, err := h.settingsService.ListWithMetadata()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"items": items})
}

type UpsertSettingRequest struct {
	Value string `json:"value"`
}

// Upsert stores an override for a registry key. Values are validated
// against the registry before anything is written.
// PUT /api/admin/settings/:key
func (h *SettingsHandler) Upsert(c *gin.Context) {
	key := c.Param("key")

	var req UpsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.NewBadRequest(err.Error()))
		return
	}

	setting, err := h.settingsService.Upsert(key, req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}

	valuePreview := req.Value
	if len(valuePreview) > 90 {
		valuePreview = valuePreview[:90] + "..."
	}

	h.auditService.Record(services.AuditInsertInput{
		Category:    models.AuditCategorySetting,
		Action:      "setting.update",
		Title:       "Setting changed: " + key,
		Description: "Setting value was updated",
		Actor:       middleware.GetEmail(c),
		Metadata: map[string]string{
			"key":           key,
			"value_preview": valuePreview,
		},
	})

	response.Success(c, gin.H{"setting": setting})
}

// Reset deletes the override for a key, reverting to the registry default.
// DELETE /api/admin/settings/:key
func (h *SettingsHandler) Reset(c *gin.Context) {
	key := c.Param("key")

	if err := h.settingsService.Remove(key); err != nil {
		response.Error(c, err)
		return
	}

	h.auditService.Record(services.AuditInsertInput{
		Category:    models.AuditCategorySetting,
		Action:      "setting.reset",
		Title:       "Setting reset: " + key,
		Description: "Setting was reset to default",
		Actor:       middleware.GetEmail(c),
		Metadata:    map[string]string{"key": key},
	})

	response.Success(c, gin.H{"ok": true})
}
