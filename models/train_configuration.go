package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Tile is one cell of the seating grid shown to participants.
type Tile struct {
	Type        string  `json:"type"` // seat, floor, barrier
	Occupied    bool    `json:"occupied"`
	Person      *string `json:"person"` // man, woman, child, neutral
	IsDoor      *bool   `json:"isDoor,omitempty"`
	IsStanchion *bool   `json:"isStanchion,omitempty"`
}

// TileMatrix stores the full grid as a JSON column.
type TileMatrix [][]Tile

func (m TileMatrix) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *TileMatrix) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("unsupported tile matrix column type")
	}
}

type TrainConfiguration struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name"`
	Title     string         `json:"title"`
	Height    int            `json:"height" gorm:"not null"`
	Width     int            `json:"width" gorm:"not null"`
	Tiles     TileMatrix     `json:"tiles" gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Responses []UserResponse         `json:"responses,omitempty" gorm:"foreignKey:TrainConfigurationID"`
	Questions []PostResponseQuestion `json:"questions,omitempty" gorm:"foreignKey:TrainConfigurationID"`
}
