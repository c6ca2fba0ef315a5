package services

import (
	"fmt"
	"strconv"
	"strings"
)

// Setting value types.
const (
	SettingTypeText     = "text"
	SettingTypeTextarea = "textarea"
	SettingTypeBoolean  = "boolean"
	SettingTypeNumber   = "number"
	SettingTypeSelect   = "select"
)

// Well-known setting keys referenced from code.
const (
	SettingAllowSelfRegistration = "auth.allow_self_registration"
	SettingSessionTimeoutMinutes = "security.session_timeout_minutes"
)

// SettingOption is an allowed value of a select-typed setting.
type SettingOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SettingDefinition declares one entry of the fixed settings registry:
// its type, default value and validation constraints. Storage only ever
// holds overrides for keys defined here.
type SettingDefinition struct {
	Key          string          `json:"key"`
	Label        string          `json:"label"`
	Description  string          `json:"description"`
	Group        string          `json:"group"`
	Type         string          `json:"type"`
	DefaultValue string          `json:"default_value"`
	Min          *int            `json:"min,omitempty"`
	Max          *int            `json:"max,omitempty"`
	Options      []SettingOption `json:"options,omitempty"`
}

func intPtr(v int) *int { return &v }

// settingsRegistry is the authoritative list of settings the console
// exposes. Order here is the display order of the admin settings page.
var settingsRegistry = []SettingDefinition{
	{
		Key:          "general.app_name",
		Label:        "Application Name",
		Description:  "Displayed in browser title and admin shell.",
		Group:        "General",
		Type:         SettingTypeText,
		DefaultValue: "Admin Console",
	},
	{
		Key:          "general.project_name",
		Label:        "Project Name",
		Description:  "Name of the current project. Shown in dashboards and reports.",
		Group:        "General",
		Type:         SettingTypeText,
		DefaultValue: "",
	},
	{
		Key:          "general.support_email",
		Label:        "Support Email",
		Description:  "Primary contact email used in user-facing support blocks.",
		Group:        "General",
		Type:         SettingTypeText,
		DefaultValue: "support@example.com",
	},
	{
		Key:          SettingAllowSelfRegistration,
		Label:        "Allow Self Registration",
		Description:  "When disabled, users can sign in only if invited by admin.",
		Group:        "Auth",
		Type:         SettingTypeBoolean,
		DefaultValue: "true",
	},
	{
		Key:          SettingSessionTimeoutMinutes,
		Label:        "Session Timeout (minutes)",
		Description:  "Idle timeout before forcing re-authentication.",
		Group:        "Security",
		Type:         SettingTypeNumber,
		DefaultValue: "120",
		Min:          intPtr(15),
		Max:          intPtr(1440),
	},
	{
		Key:          "ui.default_language",
		Label:        "Default Language",
		Description:  "Used when user profile does not have language selected.",
		Group:        "UI",
		Type:         SettingTypeSelect,
		DefaultValue: "en",
		Options: []SettingOption{
			{Value: "en", Label: "English"},
			{Value: "ru", Label: "Russian"},
			{Value: "de", Label: "German"},
		},
	},
	{
		Key:          "marketing.homepage_hero_title",
		Label:        "Homepage Hero Title",
		Description:  "Main headline in landing hero section.",
		Group:        "Marketing",
		Type:         SettingTypeTextarea,
		DefaultValue: "Build faster with a production-grade platform.",
	},
}

var settingsByKey = func() map[string]*SettingDefinition {
	m := make(map[string]*SettingDefinition, len(settingsRegistry))
	for i := range settingsRegistry {
		m[settingsRegistry[i].Key] = &settingsRegistry[i]
	}
	return m
}()

// SettingsRegistry returns the registry in display order.
func SettingsRegistry() []SettingDefinition {
	return settingsRegistry
}

// GetSettingDefinition looks up a registry entry by key.
func GetSettingDefinition(key string) (*SettingDefinition, bool) {
	def, ok := settingsByKey[key]
	return def, ok
}

// ValidateSettingValue checks value against the registry constraints for
// key. It returns an error naming the offending key; no storage is touched.
func ValidateSettingValue(key, value string) error {
	def, ok := settingsByKey[key]
	if !ok {
		return fmt.Errorf("unknown setting key %q", key)
	}

	switch def.Type {
	case SettingTypeBoolean:
		if value != "true" && value != "false" {
			return fmt.Errorf("setting %q requires a boolean value of \"true\" or \"false\"", key)
		}
	case SettingTypeNumber:
		if !isDigits(value) {
			return fmt.Errorf("setting %q requires a non-negative integer value", key)
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("setting %q requires a non-negative integer value", key)
		}
		if def.Min != nil && n < *def.Min {
			return fmt.Errorf("setting %q must be at least %d", key, *def.Min)
		}
		if def.Max != nil && n > *def.Max {
			return fmt.Errorf("setting %q must be at most %d", key, *def.Max)
		}
	case SettingTypeSelect:
		for _, opt := range def.Options {
			if opt.Value == value {
				return nil
			}
		}
		return fmt.Errorf("setting %q does not allow value %q", key, value)
	default: // text, textarea
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("setting %q requires a non-empty value", key)
		}
	}

	return nil
}

// isDigits reports whether s is a non-empty string of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
