package models

import (
	"time"

	"gorm.io/gorm"
)

// EmailVerification backs the passwordless sign-in flow. The code is stored
// as a bcrypt hash; the magic-link token is random enough to store as-is.
type EmailVerification struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	Email            string         `json:"email" gorm:"index;not null"`
	Token            string         `json:"-" gorm:"uniqueIndex;not null"`
	CodeHash         string         `json:"-" gorm:"not null"`
	VerificationType string         `json:"verification_type" gorm:"not null"` // magic_link, token, both
	ExpiresAt        time.Time      `json:"expires_at" gorm:"not null"`
	ConsumedAt       *time.Time     `json:"consumed_at"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}
