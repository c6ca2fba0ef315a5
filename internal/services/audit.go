package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/avstack/console/internal/models"
	"github.com/avstack/console/pkg/logger"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ErrAuditWrite wraps a failed audit insert. Audit records are trailing
// side effects of already-committed mutations; callers must surface this
// error in logs without letting it overturn the primary operation's result.
var ErrAuditWrite = fmt.Errorf("audit write failed")

type AuditService struct {
	db       *gorm.DB
	cleanup  *cron.Cron
	cleanupE cron.EntryID
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

type AuditInsertInput struct {
	Category    string
	Action      string
	Title       string
	Description string
	Actor       string
	Metadata    map[string]string
}

// Insert appends one audit entry. Required fields must be non-empty; there
// is no further validation. Storage failures come back wrapped in
// ErrAuditWrite.
func (s *AuditService) Insert(input AuditInsertInput) (*models.AuditEntry, error) {
	if input.Category == "" || input.Action == "" || input.Title == "" || input.Actor == "" {
		return nil, fmt.Errorf("%w: category, action, title and actor are required", ErrAuditWrite)
	}

	metadata := "{}"
	if len(input.Metadata) > 0 {
		encoded, err := json.Marshal(input.Metadata)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAuditWrite, err)
		}
		metadata = string(encoded)
	}

	entry := models.AuditEntry{
		EntryID:     uuid.NewString(),
		Category:    input.Category,
		Action:      input.Action,
		Title:       input.Title,
		Description: input.Description,
		Actor:       input.Actor,
		Metadata:    metadata,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuditWrite, err)
	}
	return &entry, nil
}

// Record is the fire-and-forget form of Insert used after a committed
// mutation: a failure is logged and dropped so it can never mask the
// primary operation's success.
func (s *AuditService) Record(input AuditInsertInput) {
	if _, err := s.Insert(input); err != nil {
		logger.Warn().
			Err(err).
			Str("category", input.Category).
			Str("action", input.Action).
			Msg("audit entry dropped")
	}
}

// List returns the most recent entries, newest-first. A non-positive limit
// falls back to 200.
func (s *AuditService) List(limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = 200
	}
	var entries []models.AuditEntry
	if err := s.db.Order("created_at DESC, id DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// DecodeMetadata unpacks the stored metadata JSON of an entry.
func DecodeMetadata(entry *models.AuditEntry) map[string]string {
	metadata := map[string]string{}
	if entry.Metadata != "" {
		_ = json.Unmarshal([]byte(entry.Metadata), &metadata)
	}
	return metadata
}

// CleanupOldEntries deletes audit entries older than retentionDays and
// returns the number of deleted rows. Non-positive retention disables the
// sweep entirely.
func (s *AuditService) CleanupOldEntries(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.AuditEntry{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// StartCleanupScheduler runs a nightly retention sweep. It is a no-op when
// retention is disabled.
func (s *AuditService) StartCleanupScheduler(retentionDays int) {
	if retentionDays <= 0 {
		logger.Info().Msg("audit retention sweep disabled")
		return
	}

	s.cleanup = cron.New()
	entryID, err := s.cleanup.AddFunc("30 3 * * *", func() {
		deleted, err := s.CleanupOldEntries(retentionDays)
		if err != nil {
			logger.Error().Err(err).Msg("audit retention sweep failed")
			return
		}
		if deleted > 0 {
			logger.Infof("audit retention sweep removed %d entries older than %d days", deleted, retentionDays)
		}
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to schedule audit retention sweep")
		return
	}
	s.cleanupE = entryID
	s.cleanup.Start()
}

// StopCleanupScheduler stops the retention sweep if it is running.
func (s *AuditService) StopCleanupScheduler() {
	if s.cleanup != nil {
		s.cleanup.Remove(s.cleanupE)
		s.cleanup.Stop()
	}
}
