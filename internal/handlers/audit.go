package handlers

import (
	"time"

	"github.com/avstack/console/internal/services"
	"github.com/avstack/console/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// auditLogPageSize is how many recent entries the admin audit page shows.
const auditLogPageSize = 120

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(db *gorm.DB) *AuditHandler {
	return &AuditHandler{auditService: services.NewAuditService(db)}
}

type auditEntryView struct {
	ID          string            `json:"id"`
	Category    string            `json:"category"`
	Action      string            `json:"action"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Actor       string            `json:"actor"`
	Metadata    map[string]string `json:"metadata"`
	At          string            `json:"at"`
}

// List returns the most recent audit entries, newest first.
// GET /api/admin/audit-log
func (h *AuditHandler) List(c *gin.Context) {
	entries, err := h.auditService.List(auditLogPageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]auditEntryView, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		items = append(items, auditEntryView{
			ID:          entry.EntryID,
			Category:    entry.Category,
			Action:      entry.Action,
			Title:       entry.Title,
			Description: entry.Description,
			Actor:       entry.Actor,
			Metadata:    services.DecodeMetadata(entry),
			At:          entry.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	response.Success(c, gin.H{"items": items})
}
