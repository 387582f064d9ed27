package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation stores a saved practice transcript. Recent transcripts are fed
// to the topic generator as personalization context.
type Conversation struct {
	gorm.Model
	UserID     uint      `json:"user_id" gorm:"index;not null"`
	Transcript string    `json:"transcript" gorm:"type:text"`
	Timestamp  time.Time `json:"timestamp" gorm:"index"`
	IsDeleted  bool      `gorm:"default:false"`
}
