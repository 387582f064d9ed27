package course

import (
	"time"

	"gorm.io/gorm"
)

// DailyProgress is one row per (user, calendar date). Completion flags are
// monotonic: once true they are never reset by normal flow. Week/day numbers
// are denormalized at write time; reads recompute them from the course start
// date so the stored values never become the source of truth.
type DailyProgress struct {
	gorm.Model
	UserID   uint   `json:"user_id" gorm:"not null;uniqueIndex:idx_user_progress_date"`
	CourseID uint   `json:"course_id" gorm:"index"`
	Date     string `json:"date" gorm:"size:10;not null;uniqueIndex:idx_user_progress_date"` // YYYY-MM-DD, UTC

	WeekNumber int `json:"week_number"`
	DayNumber  int `json:"day_number"`

	SpeakingCompleted       bool       `json:"speaking_completed" gorm:"default:false"`
	SpeakingStartedAt       *time.Time `json:"speaking_started_at"`
	SpeakingEndedAt         *time.Time `json:"speaking_ended_at"`
	SpeakingDurationSeconds int        `json:"speaking_duration_seconds" gorm:"default:0"`

	SpeakingQuizCompleted bool `json:"speaking_quiz_completed" gorm:"default:false"`
	SpeakingQuizScore     int  `json:"speaking_quiz_score" gorm:"default:0"`

	ListeningCompleted       bool `json:"listening_completed" gorm:"default:false"`
	ListeningDurationSeconds int  `json:"listening_duration_seconds" gorm:"default:0"`

	ListeningQuizCompleted bool `json:"listening_quiz_completed" gorm:"default:false"`
	ListeningQuizScore     int  `json:"listening_quiz_score" gorm:"default:0"`

	RoleplayCompleted       bool       `json:"roleplay_completed" gorm:"default:false"`
	RoleplayStartedAt       *time.Time `json:"roleplay_started_at"`
	RoleplayEndedAt         *time.Time `json:"roleplay_ended_at"`
	RoleplayDurationSeconds int        `json:"roleplay_duration_seconds" gorm:"default:0"`

	TotalTimeSeconds int `json:"total_time_seconds" gorm:"default:0"`
}
