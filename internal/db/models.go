package db

import (
	"time"

	"gorm.io/datatypes"
)

// Game is a catalog entry. Only administrators create, edit or remove games;
// API consumers read them through the public catalog.
type Game struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Title     string `gorm:"size:255;index" json:"title"`
	Developer string `gorm:"size:255" json:"developer"`
	Platform  string `gorm:"size:128" json:"platform"`

	Price  float64 `json:"price"`
	Rating float64 `json:"rating"`
}

func (Game) TableName() string { return "games" }

// GameFields carries the editable columns of a game.
type GameFields struct {
	Title     string  `json:"title"`
	Developer string  `json:"developer"`
	Platform  string  `json:"platform"`
	Price     float64 `json:"price"`
	Rating    float64 `json:"rating"`
}

// SystemLog is one row of the audit trail. Rows are only ever appended.
type SystemLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Action is a short code such as LOGIN_SUCCESS or GAME_ADD.
	Action  string `gorm:"size:64;index;not null" json:"action"`
	Details string `gorm:"type:text" json:"details"`

	// Meta records who triggered the event and from where, when known.
	Meta datatypes.JSONMap `json:"meta,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (SystemLog) TableName() string { return "system_logs" }

// Stats is the admin dashboard snapshot. The three counts are read
// independently and may be momentarily inconsistent with each other.
type Stats struct {
	Users int64 `json:"users"`
	Keys  int64 `json:"keys"`
	Games int64 `json:"games"`
}
