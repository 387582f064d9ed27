package course

import (
	"time"

	"gorm.io/gorm"
)

// Session kinds. Practice and roleplay draw from daily pools, call from a
// lifetime pool.
const (
	SessionKindPractice = "practice"
	SessionKindRoleplay = "roleplay"
	SessionKindCall     = "call"
)

// SpeakingSession is an append-only log of time-boxed attempts. At most one
// open session (EndTime IS NULL) may exist per user; a partial unique index
// created alongside the migrations enforces this at the database level.
type SpeakingSession struct {
	gorm.Model
	UserID          uint       `json:"user_id" gorm:"index;not null"`
	CourseID        uint       `json:"course_id" gorm:"index"`
	Kind            string     `json:"kind" gorm:"size:16;not null"`
	RoomName        string     `json:"room_name" gorm:"size:64;index"`
	Date            string     `json:"date" gorm:"size:10;index;not null"` // YYYY-MM-DD, UTC
	StartTime       time.Time  `json:"start_time" gorm:"not null"`
	EndTime         *time.Time `json:"end_time"`
	DurationSeconds int        `json:"duration_seconds" gorm:"default:0"`
	AutoCompleted   bool       `json:"auto_completed" gorm:"default:false"`
}
