package services

import (
	"testing"
)

func TestSettingsRegistry_Stable(t *testing.T) {
	registry := SettingsRegistry()
	if len(registry) != 7 {
		t.Fatalf("registry has %d entries, expected 7", len(registry))
	}

	// First and last entry pin the display order.
	if registry[0].Key != "general.app_name" {
		t.Errorf("first registry key = %q, expected general.app_name", registry[0].Key)
	}
	if registry[len(registry)-1].Key != "marketing.homepage_hero_title" {
		t.Errorf("last registry key = %q, expected marketing.homepage_hero_title", registry[len(registry)-1].Key)
	}

	for _, def := range registry {
		if def.Key == "" || def.Label == "" || def.Type == "" {
			t.Errorf("registry entry %+v is missing key, label or type", def)
		}
	}
}

func TestGetSettingDefinition(t *testing.T) {
	def, ok := GetSettingDefinition(SettingSessionTimeoutMinutes)
	if !ok {
		t.Fatal("session timeout definition not found")
	}
	if def.Type != SettingTypeNumber {
		t.Errorf("type = %q, expected number", def.Type)
	}
	if def.Min == nil || *def.Min != 15 {
		t.Errorf("min = %v, expected 15", def.Min)
	}
	if def.Max == nil || *def.Max != 1440 {
		t.Errorf("max = %v, expected 1440", def.Max)
	}

	if _, ok := GetSettingDefinition("no.such.key"); ok {
		t.Error("unknown key should not resolve to a definition")
	}
}

func TestValidateSettingValue(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{"boolean true", SettingAllowSelfRegistration, "true", false},
		{"boolean false", SettingAllowSelfRegistration, "false", false},
		{"boolean literal only", SettingAllowSelfRegistration, "yes", true},
		{"boolean empty", SettingAllowSelfRegistration, "", true},
		{"boolean capitalized", SettingAllowSelfRegistration, "True", true},
		{"number in range", SettingSessionTimeoutMinutes, "120", false},
		{"number at min", SettingSessionTimeoutMinutes, "15", false},
		{"number at max", SettingSessionTimeoutMinutes, "1440", false},
		{"number below min", SettingSessionTimeoutMinutes, "5", true},
		{"number above max", SettingSessionTimeoutMinutes, "1441", true},
		{"number negative", SettingSessionTimeoutMinutes, "-60", true},
		{"number decimal", SettingSessionTimeoutMinutes, "12.5", true},
		{"number not a number", SettingSessionTimeoutMinutes, "soon", true},
		{"select allowed", "ui.default_language", "ru", false},
		{"select not allowed", "ui.default_language", "fr", true},
		{"text ok", "general.app_name", "My Console", false},
		{"text empty", "general.app_name", "", true},
		{"text whitespace only", "general.app_name", "   ", true},
		{"textarea ok", "marketing.homepage_hero_title", "Ship faster.", false},
		{"unknown key", "no.such.key", "anything", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSettingValue(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSettingValue(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestIsDigits(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"0", true},
		{"120", true},
		{"", false},
		{"+5", false},
		{"-5", false},
		{"1 2", false},
		{"12a", false},
	}

	for _, tt := range tests {
		if got := isDigits(tt.input); got != tt.expected {
			t.Errorf("isDigits(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}
