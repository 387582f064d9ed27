package course

import "gorm.io/gorm"

// WeeklyExam is one record per (user, course, week), created when the week's
// exam day is completed. Completing the same week twice is rejected.
type WeeklyExam struct {
	gorm.Model
	UserID              uint   `json:"user_id" gorm:"not null;uniqueIndex:idx_user_course_week"`
	CourseID            uint   `json:"course_id" gorm:"not null;uniqueIndex:idx_user_course_week"`
	WeekNumber          int    `json:"week_number" gorm:"not null;uniqueIndex:idx_user_course_week"`
	ExamCompleted       bool   `json:"exam_completed" gorm:"default:false"`
	ExamScore           int    `json:"exam_score" gorm:"default:0"`
	ExamDurationSeconds int    `json:"exam_duration_seconds" gorm:"default:0"`
	ExamDate            string `json:"exam_date" gorm:"size:10"` // YYYY-MM-DD, UTC
}
