package models

import "time"

// Invite is a single-use, time-bounded registration token bound to an email.
// An invite is valid iff UsedAt and RevokedAt are null and ExpiresAt is in
// the future. Once consumed or revoked it can never become valid again.
type Invite struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Token           string     `gorm:"uniqueIndex;size:64;not null" json:"token"`
	Email           string     `gorm:"index;size:255;not null" json:"email"`
	Role            string     `gorm:"size:50;default:user" json:"role"`
	CreatedByUserID uint       `gorm:"not null" json:"created_by_user_id"`
	CreatedAt       time.Time  `json:"created_at"`
	ExpiresAt       time.Time  `gorm:"index;not null" json:"expires_at"`
	UsedAt          *time.Time `json:"used_at"`
	UsedByUserID    *uint      `json:"used_by_user_id"`
	UsedByEmail     string     `gorm:"size:255" json:"used_by_email"`
	RevokedAt       *time.Time `json:"revoked_at"`
}

func (Invite) TableName() string { return "user_invites" }

// IsValid reports whether the invite can still authorize a registration.
func (i *Invite) IsValid(now time.Time) bool {
	return i.UsedAt == nil && i.RevokedAt == nil && i.ExpiresAt.After(now)
}
