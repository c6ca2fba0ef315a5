package services

import (
	"errors"
	"testing"
	"time"

	"github.com/avstack/console/internal/models"
)

func TestAuditInsert(t *testing.T) {
	svc := NewAuditService(setupTestDB(t))

	entry, err := svc.Insert(AuditInsertInput{
		Category:    models.AuditCategorySetting,
		Action:      "setting.update",
		Title:       "Setting updated: general.app_name",
		Description: "Value changed by an administrator",
		Actor:       "admin@example.com",
		Metadata:    map[string]string{"key": "general.app_name", "value": "Ops Console"},
	})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if entry.EntryID == "" {
		t.Error("EntryID should be assigned")
	}

	metadata := DecodeMetadata(entry)
	if metadata["key"] != "general.app_name" || metadata["value"] != "Ops Console" {
		t.Errorf("metadata round-trip failed: %v", metadata)
	}

	second, err := svc.Insert(AuditInsertInput{
		Category: models.AuditCategoryUser,
		Action:   "user.register",
		Title:    "User registered",
		Actor:    "person@example.com",
	})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if second.EntryID == entry.EntryID {
		t.Error("entries should get distinct ids")
	}
	if second.Metadata != "{}" {
		t.Errorf("empty metadata should be stored as {}, got %q", second.Metadata)
	}
}

func TestAuditInsert_RequiredFields(t *testing.T) {
	svc := NewAuditService(setupTestDB(t))

	inputs := []AuditInsertInput{
		{Action: "a", Title: "t", Actor: "x"},
		{Category: models.AuditCategoryUser, Title: "t", Actor: "x"},
		{Category: models.AuditCategoryUser, Action: "a", Actor: "x"},
		{Category: models.AuditCategoryUser, Action: "a", Title: "t"},
	}

	for _, input := range inputs {
		_, err := svc.Insert(input)
		if !errors.Is(err, ErrAuditWrite) {
			t.Errorf("Insert(%+v) error = %v, expected ErrAuditWrite", input, err)
		}
	}
}

func TestAuditRecord_DropsFailures(t *testing.T) {
	svc := NewAuditService(setupTestDB(t))

	// Missing required fields: the entry is dropped, not stored, no panic.
	svc.Record(AuditInsertInput{Action: "incomplete"})

	entries, err := svc.List(10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestAuditList(t *testing.T) {
	svc := NewAuditService(setupTestDB(t))

	for _, action := range []string{"first", "second", "third"} {
		if _, err := svc.Insert(AuditInsertInput{
			Category: models.AuditCategoryUser,
			Action:   action,
			Title:    "Entry " + action,
			Actor:    "admin@example.com",
		}); err != nil {
			t.Fatalf("Insert(%s) error = %v", action, err)
		}
	}

	entries, err := svc.List(2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Action != "third" || entries[1].Action != "second" {
		t.Errorf("entries not newest-first: %q, %q", entries[0].Action, entries[1].Action)
	}

	// Non-positive limits fall back to a sane default.
	all, err := svc.List(0)
	if err != nil {
		t.Fatalf("List(0) error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 entries with default limit, got %d", len(all))
	}
}

func TestCleanupOldEntries(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuditService(db)

	old, err := svc.Insert(AuditInsertInput{
		Category: models.AuditCategoryUser,
		Action:   "user.register",
		Title:    "Old entry",
		Actor:    "person@example.com",
	})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if _, err := svc.Insert(AuditInsertInput{
		Category: models.AuditCategoryUser,
		Action:   "user.register",
		Title:    "Fresh entry",
		Actor:    "person@example.com",
	}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	// Age the first entry past the retention window.
	stale := time.Now().AddDate(0, 0, -90)
	if err := db.Model(&models.AuditEntry{}).Where("id = ?", old.ID).Update("created_at", stale).Error; err != nil {
		t.Fatalf("backdate entry: %v", err)
	}

	deleted, err := svc.CleanupOldEntries(30)
	if err != nil {
		t.Fatalf("CleanupOldEntries() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, expected 1", deleted)
	}

	entries, err := svc.List(10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "Fresh entry" {
		t.Errorf("only the fresh entry should survive, got %d entries", len(entries))
	}
}

func TestCleanupOldEntries_Disabled(t *testing.T) {
	svc := NewAuditService(setupTestDB(t))

	deleted, err := svc.CleanupOldEntries(0)
	if err != nil {
		t.Fatalf("CleanupOldEntries(0) error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("disabled retention should delete nothing, got %d", deleted)
	}
}
