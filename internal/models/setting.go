package models

import "time"

// Setting is an explicit stored override of a registry-defined setting.
// Absence of a row means the registry default applies.
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Key       string    `gorm:"column:key;uniqueIndex;size:100;not null" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string { return "app_settings" }
