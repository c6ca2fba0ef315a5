package models

import "time"

// Audit entry categories.
const (
	AuditCategoryUser    = "user"
	AuditCategorySetting = "setting"
)

// AuditEntry is an immutable record of an administrative action. Entries are
// only ever inserted; there is no update or delete path besides the
// retention sweep. EntryID is a uuid so entries stay addressable across
// database migrations and log shipping.
type AuditEntry struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	EntryID     string    `gorm:"uniqueIndex;size:36;not null" json:"id"`
	Category    string    `gorm:"size:50;index;not null" json:"category"` // user, setting
	Action      string    `gorm:"size:100;index;not null" json:"action"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Actor       string    `gorm:"size:255;not null" json:"actor"`
	Metadata    string    `gorm:"type:text" json:"-"` // JSON object, string values
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (AuditEntry) TableName() string { return "audit_log" }
