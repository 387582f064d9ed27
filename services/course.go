package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"talktivity/config"
	"talktivity/models"
	courseModels "talktivity/models/course"

	"gorm.io/gorm"
)

// CourseService owns the course lifecycle: initialization after the
// pre-course milestones, current status, and the full timeline view.
type CourseService struct {
	db    *gorm.DB
	cfg   *config.Config
	gen   TopicGenerator
	clock Clock
}

func NewCourseService(db *gorm.DB, cfg *config.Config, gen TopicGenerator, clock Clock) *CourseService {
	return &CourseService{db: db, cfg: cfg, gen: gen, clock: clock}
}

// getActiveCourse loads the single active course for a user.
func getActiveCourse(db *gorm.DB, userID uint) (*courseModels.Course, error) {
	var course courseModels.Course
	err := db.Where("user_id = ? AND is_active = true", userID).First(&course).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("Active course")
		}
		return nil, err
	}
	return &course, nil
}

// getDailyProgressRow loads the progress row for a date, or nil when the day
// has not been touched yet.
func getDailyProgressRow(db *gorm.DB, userID uint, date string) (*courseModels.DailyProgress, error) {
	var row courseModels.DailyProgress
	err := db.Where("user_id = ? AND date = ?", userID, date).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// InitializeCourse creates the 12-week course once onboarding and all
// lifecycle milestones are done. Idempotent: an existing active course with
// topics is returned as-is. Prior active courses are deactivated and courses
// that never received topics are cleaned up.
func (s *CourseService) InitializeCourse(ctx context.Context, userID uint) (*courseModels.Course, error) {
	var existing courseModels.Course
	err := s.db.Where("user_id = ? AND is_active = true", userID).First(&existing).Error
	if err == nil && len(existing.Topics) > 0 {
		return &existing, nil
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}

	var profile models.OnboardingProfile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewValidationError("Onboarding data not found. Please complete onboarding first.", "onboarding")
		}
		return nil, err
	}
	if missing := profile.MissingFields(); len(missing) > 0 {
		return nil, NewValidationError(
			fmt.Sprintf("Onboarding incomplete. Missing fields: %s. Please complete onboarding first.", strings.Join(missing, ", ")),
			"onboarding")
	}

	var lifecycle models.UserLifecycle
	if err := s.db.Where("user_id = ?", userID).First(&lifecycle).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewValidationError("User lifecycle not found. Please complete onboarding first.", "lifecycle")
		}
		return nil, err
	}
	if incomplete := lifecycle.IncompleteMilestones(); len(incomplete) > 0 {
		return nil, NewValidationError(
			fmt.Sprintf("Lifecycle incomplete. Please complete: %s.", strings.Join(incomplete, ", ")),
			"lifecycle")
	}

	// Deactivate previous active courses and drop ones that never got topics.
	if err := s.db.Model(&courseModels.Course{}).
		Where("user_id = ? AND is_active = true", userID).
		Update("is_active", false).Error; err != nil {
		return nil, err
	}
	var stale []courseModels.Course
	if err := s.db.Where("user_id = ?", userID).Find(&stale).Error; err != nil {
		return nil, err
	}
	for _, c := range stale {
		if len(c.Topics) == 0 {
			if err := s.db.Delete(&courseModels.Course{}, c.ID).Error; err != nil {
				return nil, err
			}
		}
	}

	conversations, err := recentTranscripts(s.db, userID, 5)
	if err != nil {
		return nil, err
	}

	genCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.LLMTimeoutSecs)*time.Second)
	defer cancel()
	topics, err := s.gen.GenerateTopics(genCtx, &profile, conversations, nil)
	if err != nil {
		if _, ok := err.(*GenerationError); ok {
			return nil, err
		}
		return nil, &GenerationError{Message: "failed to generate personalized course", Err: err}
	}
	valid := ValidateTopics(topics, nil)
	if len(valid) < s.cfg.MinValidTopics {
		return nil, &GenerationError{
			Message: fmt.Sprintf("generator returned only %d valid topics (minimum %d)", len(valid), s.cfg.MinValidTopics),
		}
	}

	startDate := UTCMidnight(s.clock.Now())
	course := courseModels.Course{
		UserID:      userID,
		StartDate:   startDate,
		EndDate:     startDate.AddDate(0, 0, s.cfg.CourseTotalWeeks*DaysPerWeek),
		IsActive:    true,
		BatchNumber: 1,
		Topics:      valid,
	}
	if err := s.db.Create(&course).Error; err != nil {
		return nil, err
	}

	log.Printf("[COURSE] Created course %d for user %d with %d topics", course.ID, userID, len(valid))
	return &course, nil
}

// CourseStatus is the status snapshot served to clients.
type CourseStatus struct {
	Course StatusCourse `json:"course"`
	Today  StatusToday  `json:"today"`
}

type StatusCourse struct {
	ID                  uint                      `json:"id"`
	CurrentWeek         int                       `json:"currentWeek"`
	CurrentDay          int                       `json:"currentDay"`
	DayType             DayType                   `json:"dayType"`
	TotalWeeks          int                       `json:"totalWeeks"`
	TotalDays           int                       `json:"totalDays"`
	BatchNumber         int                       `json:"batchNumber"`
	BatchStatus         *courseModels.BatchStatus `json:"batchStatus,omitempty"`
	TodayTopic          *courseModels.Topic       `json:"todayTopic,omitempty"`
	TodayListeningTopic ListeningTopic            `json:"todayListeningTopic"`
}

type StatusToday struct {
	Date             string                      `json:"date"`
	Progress         *courseModels.DailyProgress `json:"progress"`
	SecondsRemaining int                         `json:"secondsRemaining"`
	Gates            Gates                       `json:"gates"`
}

// GetStatus returns the course position, today's progress and activity gates.
// asOfDate (YYYY-MM-DD) is optional; empty means today in UTC.
func (s *CourseService) GetStatus(userID uint, asOfDate string) (*CourseStatus, error) {
	course, err := getActiveCourse(s.db, userID)
	if err != nil {
		return nil, err
	}

	asOf, err := s.resolveAsOf(asOfDate)
	if err != nil {
		return nil, err
	}
	date := DateString(asOf)

	progress := CalculateProgress(course.StartDate, asOf)
	dayType := DayTypeFor(progress.Day)

	todayProgress, err := getDailyProgressRow(s.db, userID, date)
	if err != nil {
		return nil, err
	}

	used, err := sessionDailyUsage(s.db, userID, courseModels.SessionKindPractice, date)
	if err != nil {
		return nil, err
	}
	remaining := s.cfg.PracticeDailyCapSeconds - used
	if remaining < 0 {
		remaining = 0
	}

	return &CourseStatus{
		Course: StatusCourse{
			ID:                  course.ID,
			CurrentWeek:         progress.Week,
			CurrentDay:          progress.Day,
			DayType:             dayType,
			TotalWeeks:          s.cfg.CourseTotalWeeks,
			TotalDays:           s.cfg.CourseTotalWeeks * DaysPerWeek,
			BatchNumber:         course.BatchNumber,
			BatchStatus:         course.BatchStatus,
			TodayTopic:          course.TopicForDayIndex(DayIndex(progress.Week, progress.Day)),
			TodayListeningTopic: ListeningTopicForDay(progress.Day),
		},
		Today: StatusToday{
			Date:             date,
			Progress:         todayProgress,
			SecondsRemaining: remaining,
			Gates:            GatesFor(dayType, todayProgress, remaining),
		},
	}, nil
}

// TimelineEntry is one of the 84 days in the course timeline.
type TimelineEntry struct {
	Week                    int                 `json:"week"`
	Day                     int                 `json:"day"`
	DayIndex                int                 `json:"dayIndex"`
	Date                    string              `json:"date"`
	DayType                 DayType             `json:"dayType"`
	IsCompleted             bool                `json:"isCompleted"`
	IsCurrentDay            bool                `json:"isCurrentDay"`
	IsPast                  bool                `json:"isPast"`
	Topic                   *courseModels.Topic `json:"topic,omitempty"`
	SpeakingDurationSeconds int                 `json:"speakingDurationSeconds"`
}

// Timeline is the complete course view with overall completion.
type Timeline struct {
	Entries         []TimelineEntry `json:"timeline"`
	TotalWeeks      int             `json:"totalWeeks"`
	CurrentWeek     int             `json:"currentWeek"`
	CurrentDay      int             `json:"currentDay"`
	ProgressPercent int             `json:"progress"`
}

// GetTimeline builds the ordered 84-day sequence with per-day progress merged
// in. dateStr optionally overrides "today".
func (s *CourseService) GetTimeline(userID uint, dateStr string) (*Timeline, error) {
	course, err := getActiveCourse(s.db, userID)
	if err != nil {
		return nil, err
	}

	asOf, err := s.resolveAsOf(dateStr)
	if err != nil {
		return nil, err
	}
	todayISO := DateString(asOf)

	totalDays := s.cfg.CourseTotalWeeks * DaysPerWeek
	courseStart := UTCMidnight(course.StartDate)

	// One query for the whole course window.
	var rows []courseModels.DailyProgress
	startISO := DateString(courseStart)
	endISO := DateString(courseStart.AddDate(0, 0, totalDays-1))
	if err := s.db.Where("user_id = ? AND date >= ? AND date <= ?", userID, startISO, endISO).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	byDate := make(map[string]*courseModels.DailyProgress, len(rows))
	for i := range rows {
		byDate[rows[i].Date] = &rows[i]
	}

	entries := make([]TimelineEntry, 0, totalDays)
	completedDays := 0
	currentWeek, currentDay := 1, 1
	matched := false

	for dayIndex := 0; dayIndex < totalDays; dayIndex++ {
		dateISO := DateString(courseStart.AddDate(0, 0, dayIndex))
		week := dayIndex/DaysPerWeek + 1
		day := dayIndex%DaysPerWeek + 1
		dayType := DayTypeFor(day)

		row := byDate[dateISO]
		completed := IsDayComplete(dayType, row)
		if completed {
			completedDays++
		}

		isCurrent := dateISO == todayISO
		if isCurrent {
			currentWeek, currentDay = week, day
			matched = true
		}

		entry := TimelineEntry{
			Week:         week,
			Day:          day,
			DayIndex:     dayIndex,
			Date:         dateISO,
			DayType:      dayType,
			IsCompleted:  completed,
			IsCurrentDay: isCurrent,
			IsPast:       dateISO < todayISO,
			Topic:        course.TopicForDayIndex(dayIndex),
		}
		if row != nil {
			entry.SpeakingDurationSeconds = row.SpeakingDurationSeconds
		}
		entries = append(entries, entry)
	}

	// If today falls outside the course window, fall back to clamped
	// arithmetic so callers still get a sensible position.
	if !matched {
		days := DaysSinceStart(courseStart, asOf)
		if days > totalDays-1 {
			days = totalDays - 1
		}
		currentWeek = days/DaysPerWeek + 1
		currentDay = days%DaysPerWeek + 1
	}

	return &Timeline{
		Entries:         entries,
		TotalWeeks:      s.cfg.CourseTotalWeeks,
		CurrentWeek:     currentWeek,
		CurrentDay:      currentDay,
		ProgressPercent: int(float64(completedDays) / float64(totalDays) * 100),
	}, nil
}

func (s *CourseService) resolveAsOf(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return s.clock.Now(), nil
	}
	return ParseDate(dateStr)
}
