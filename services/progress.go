package services

import (
	"context"
	"log"
	"time"

	"talktivity/config"
	"talktivity/models"
	courseModels "talktivity/models/course"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressService records quiz, listening and exam completions and serves
// the per-day progress view with the activity gates applied.
type ProgressService struct {
	db    *gorm.DB
	cfg   *config.Config
	clock Clock
	batch *BatchService
}

func NewProgressService(db *gorm.DB, cfg *config.Config, clock Clock, batch *BatchService) *ProgressService {
	return &ProgressService{db: db, cfg: cfg, clock: clock, batch: batch}
}

// ensureDailyProgress creates the (user, date) row if absent and returns it.
// The insert ignores conflicts on the unique index so concurrent callers
// converge on the same row.
func ensureDailyProgress(db *gorm.DB, userID, courseID uint, date string) (*courseModels.DailyProgress, error) {
	row := courseModels.DailyProgress{
		UserID:   userID,
		CourseID: courseID,
		Date:     date,
	}
	var course courseModels.Course
	if err := db.First(&course, courseID).Error; err == nil {
		asOf, perr := ParseDate(date)
		if perr == nil {
			p := CalculateProgress(course.StartDate, asOf)
			row.WeekNumber = p.Week
			row.DayNumber = p.Day
		}
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}
	var out courseModels.DailyProgress
	if err := db.Where("user_id = ? AND date = ?", userID, date).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// dayContext bundles everything a completion call needs about "today".
type dayContext struct {
	course   *courseModels.Course
	date     string
	progress CourseProgress
	dayType  DayType
	row      *courseModels.DailyProgress
}

func (s *ProgressService) today(userID uint) (*dayContext, error) {
	course, err := getActiveCourse(s.db, userID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	date := DateString(now)
	progress := CalculateProgress(course.StartDate, now)
	row, err := ensureDailyProgress(s.db, userID, course.ID, date)
	if err != nil {
		return nil, err
	}
	return &dayContext{
		course:   course,
		date:     date,
		progress: progress,
		dayType:  DayTypeFor(progress.Day),
		row:      row,
	}, nil
}

func (s *ProgressService) update(row *courseModels.DailyProgress, updates map[string]interface{}) error {
	return s.db.Model(&courseModels.DailyProgress{}).Where("id = ?", row.ID).Updates(updates).Error
}

// runBatchCheck fires the batch orchestrator after a completion. Failures
// are logged, never surfaced: the completion itself already succeeded.
func (s *ProgressService) runBatchCheck(userID uint) {
	if s.batch == nil {
		return
	}
	if _, err := s.batch.CheckAndTriggerNextBatch(context.Background(), userID); err != nil {
		log.Printf("[PROGRESS] Batch check failed for user %d: %v", userID, err)
	}
}

// CompleteSpeakingQuiz records the post-speaking quiz for a regular day.
func (s *ProgressService) CompleteSpeakingQuiz(userID uint, score int) (*courseModels.DailyProgress, error) {
	day, err := s.today(userID)
	if err != nil {
		return nil, err
	}
	if day.row.SpeakingQuizCompleted {
		return nil, NewConflictError("quiz already completed today")
	}
	if !IsQuizAvailable(day.dayType, day.row) {
		if day.dayType == DayTypeSpeakingExam {
			return nil, NewConflictError("today is an exam day; take the weekly exam instead")
		}
		return nil, NewConflictError("complete the speaking activity before taking the quiz")
	}
	if err := s.update(day.row, map[string]interface{}{
		"speaking_quiz_completed": true,
		"speaking_quiz_score":     score,
	}); err != nil {
		return nil, err
	}
	s.runBatchCheck(userID)
	return getDailyProgressRow(s.db, userID, day.date)
}

// CompleteListening records the listening activity with its play time.
func (s *ProgressService) CompleteListening(userID uint, durationSeconds int) (*courseModels.DailyProgress, error) {
	day, err := s.today(userID)
	if err != nil {
		return nil, err
	}
	if day.row.ListeningCompleted {
		return nil, NewConflictError("listening already completed today")
	}
	if !IsListeningAvailable(day.dayType, day.row) {
		if day.dayType == DayTypeSpeakingExam {
			return nil, NewConflictError("listening is not available on exam days")
		}
		return nil, NewConflictError("complete the quiz before the listening activity")
	}
	if durationSeconds < 0 {
		durationSeconds = 0
	}
	if err := s.update(day.row, map[string]interface{}{
		"listening_completed":        true,
		"listening_duration_seconds": gorm.Expr("listening_duration_seconds + ?", durationSeconds),
		"total_time_seconds":         gorm.Expr("total_time_seconds + ?", durationSeconds),
	}); err != nil {
		return nil, err
	}
	s.runBatchCheck(userID)
	return getDailyProgressRow(s.db, userID, day.date)
}

// CompleteListeningQuiz records the quiz that follows the listening activity.
// This is the last step of a regular day, so the batch check runs after it.
func (s *ProgressService) CompleteListeningQuiz(userID uint, score int) (*courseModels.DailyProgress, error) {
	day, err := s.today(userID)
	if err != nil {
		return nil, err
	}
	if day.row.ListeningQuizCompleted {
		return nil, NewConflictError("listening quiz already completed today")
	}
	if !IsListeningQuizAvailable(day.dayType, day.row) {
		if day.dayType == DayTypeSpeakingExam {
			return nil, NewConflictError("the listening quiz is not available on exam days")
		}
		return nil, NewConflictError("complete the listening activity before its quiz")
	}
	if err := s.update(day.row, map[string]interface{}{
		"listening_quiz_completed": true,
		"listening_quiz_score":     score,
	}); err != nil {
		return nil, err
	}
	s.runBatchCheck(userID)
	return getDailyProgressRow(s.db, userID, day.date)
}

// CompleteExam records the weekly speaking exam on a day-7. The exam is
// stored both on the daily row (as the day's quiz step) and in the weekly
// exam table, which is unique per (user, course, week).
func (s *ProgressService) CompleteExam(userID uint, score, durationSeconds int) (*courseModels.DailyProgress, error) {
	day, err := s.today(userID)
	if err != nil {
		return nil, err
	}
	if day.dayType != DayTypeSpeakingExam {
		return nil, NewConflictError("the weekly exam is only available on day 7")
	}
	if !IsExamAvailable(day.dayType, day.row) {
		if day.row.SpeakingQuizCompleted {
			return nil, NewConflictError("exam already completed this week")
		}
		return nil, NewConflictError("complete the speaking activity before the exam")
	}
	if durationSeconds < 0 {
		durationSeconds = 0
	}

	var existing courseModels.WeeklyExam
	err = s.db.Where("user_id = ? AND course_id = ? AND week_number = ?",
		userID, day.course.ID, day.progress.Week).First(&existing).Error
	if err == nil {
		return nil, NewConflictError("exam already recorded for this week")
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	exam := courseModels.WeeklyExam{
		UserID:              userID,
		CourseID:            day.course.ID,
		WeekNumber:          day.progress.Week,
		ExamCompleted:       true,
		ExamScore:           score,
		ExamDurationSeconds: durationSeconds,
		ExamDate:            day.date,
	}
	// A racing request can still slip past the pre-check; the unique index on
	// (user_id, course_id, week_number) rejects it here.
	if err := s.db.Create(&exam).Error; err != nil {
		return nil, err
	}

	if err := s.update(day.row, map[string]interface{}{
		"speaking_quiz_completed": true,
		"speaking_quiz_score":     score,
		"total_time_seconds":      gorm.Expr("total_time_seconds + ?", durationSeconds),
	}); err != nil {
		return nil, err
	}
	s.runBatchCheck(userID)
	return getDailyProgressRow(s.db, userID, day.date)
}

// DailyView is the progress endpoint payload: the raw row plus gates and
// pool remainders computed for the requested date.
type DailyView struct {
	Date                     string                      `json:"date"`
	Week                     int                         `json:"week"`
	Day                      int                         `json:"day"`
	DayType                  DayType                     `json:"dayType"`
	Progress                 *courseModels.DailyProgress `json:"progress"`
	Gates                    Gates                       `json:"gates"`
	SpeakingSecondsRemaining int                         `json:"speakingSecondsRemaining"`
	RoleplaySecondsRemaining int                         `json:"roleplaySecondsRemaining"`
	IsDayComplete            bool                        `json:"isDayComplete"`
}

// GetDailyProgress returns the day's row, gates and remaining pool seconds.
// dateStr empty means today in UTC.
func (s *ProgressService) GetDailyProgress(userID uint, dateStr string) (*DailyView, error) {
	course, err := getActiveCourse(s.db, userID)
	if err != nil {
		return nil, err
	}
	asOf := s.clock.Now()
	if dateStr != "" {
		asOf, err = ParseDate(dateStr)
		if err != nil {
			return nil, err
		}
	}
	date := DateString(asOf)
	progress := CalculateProgress(course.StartDate, asOf)
	dayType := DayTypeFor(progress.Day)

	row, err := getDailyProgressRow(s.db, userID, date)
	if err != nil {
		return nil, err
	}

	practiceUsed, err := sessionDailyUsage(s.db, userID, courseModels.SessionKindPractice, date)
	if err != nil {
		return nil, err
	}
	speakingRemaining := s.cfg.PracticeDailyCapSeconds - practiceUsed
	if speakingRemaining < 0 {
		speakingRemaining = 0
	}

	plan, err := activePlanType(s.db, userID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	roleplayCap := s.cfg.RoleplayBasicCapSeconds
	if plan == models.PlanTypePro {
		roleplayCap = s.cfg.RoleplayProCapSeconds
	}
	roleplayUsed, err := sessionDailyUsage(s.db, userID, courseModels.SessionKindRoleplay, date)
	if err != nil {
		return nil, err
	}
	roleplayRemaining := roleplayCap - roleplayUsed
	if roleplayRemaining < 0 {
		roleplayRemaining = 0
	}

	return &DailyView{
		Date:                     date,
		Week:                     progress.Week,
		Day:                      progress.Day,
		DayType:                  dayType,
		Progress:                 row,
		Gates:                    GatesFor(dayType, row, speakingRemaining),
		SpeakingSecondsRemaining: speakingRemaining,
		RoleplaySecondsRemaining: roleplayRemaining,
		IsDayComplete:            IsDayComplete(dayType, row),
	}, nil
}

// touchSpeakingStart stamps the first speaking activity of the day.
func touchSpeakingStart(db *gorm.DB, row *courseModels.DailyProgress, at time.Time) error {
	if row.SpeakingStartedAt != nil {
		return nil
	}
	return db.Model(&courseModels.DailyProgress{}).Where("id = ?", row.ID).
		Update("speaking_started_at", at).Error
}
