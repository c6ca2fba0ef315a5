package services

import (
	"errors"
	"fmt"

	"github.com/avstack/console/internal/models"
	"github.com/avstack/console/pkg/response"
	"gorm.io/gorm"
)

type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// GetAll returns every stored override, ordered by key.
func (s *SettingsService) GetAll() ([]models.Setting, error) {
	var settings []models.Setting
	if err := s.db.Order("key ASC").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// Get returns the stored override for key, or gorm.ErrRecordNotFound.
func (s *SettingsService) Get(key string) (*models.Setting, error) {
	var setting models.Setting
	if err := s.db.Where("key = ?", key).First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// GetBoolean returns the stored value of key parsed as a boolean, or
// defaultValue when no override exists. A storage failure also yields
// defaultValue: a broken settings read must never lock out authentication.
func (s *SettingsService) GetBoolean(key string, defaultValue bool) bool {
	setting, err := s.Get(key)
	if err != nil {
		return defaultValue
	}
	return setting.Value == "true"
}

// Upsert validates value against the registry definition for key and then
// creates or updates the override row. Validation failures never touch
// storage.
func (s *SettingsService) Upsert(key, value string) (*models.Setting, error) {
	if err := ValidateSettingValue(key, value); err != nil {
		return nil, response.NewBadRequest(err.Error())
	}

	var setting models.Setting
	err := s.db.Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = models.Setting{Key: key, Value: value}
		if err := s.db.Create(&setting).Error; err != nil {
			return nil, err
		}
		return &setting, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&setting).Update("value", value).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// Remove deletes the override row for key, reverting the effective value to
// the registry default. Removing a key with no override is not an error.
func (s *SettingsService) Remove(key string) error {
	if _, ok := GetSettingDefinition(key); !ok {
		return response.NewBadRequest(fmt.Sprintf("unknown setting key %q", key))
	}
	return s.db.Where("key = ?", key).Delete(&models.Setting{}).Error
}

// SettingView is a registry definition joined with its effective value.
type SettingView struct {
	SettingDefinition
	Value  string `json:"value"`
	Source string `json:"source"` // "database" or "default"
}

// ListWithMetadata returns the full registry with effective values, marking
// each entry as a stored override or a default.
func (s *SettingsService) ListWithMetadata() ([]SettingView, error) {
	stored, err := s.GetAll()
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]string, len(stored))
	for _, item := range stored {
		overrides[item.Key] = item.Value
	}

	views := make([]SettingView, 0, len(settingsRegistry))
	for _, def := range SettingsRegistry() {
		view := SettingView{SettingDefinition: def, Value: def.DefaultValue, Source: "default"}
		if value, ok := overrides[def.Key]; ok {
			view.Value = value
			view.Source = "database"
		}
		views = append(views, view)
	}
	return views, nil
}
