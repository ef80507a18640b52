package models

import (
	"time"
)

// ScenarioGroupItem fixes a configuration's position within a group. Order is
// caller-supplied; duplicate or gapped orders are allowed.
type ScenarioGroupItem struct {
	ID                   uint      `json:"id" gorm:"primaryKey"`
	ScenarioGroupID      uint      `json:"scenario_group_id" gorm:"not null;index"`
	TrainConfigurationID uint      `json:"train_configuration_id" gorm:"not null;index"`
	Order                int       `json:"order" gorm:"not null"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	// Relationships
	TrainConfiguration TrainConfiguration `json:"train_configuration,omitempty"`
}
