package services

import (
	"talktivity/config"
	courseModels "talktivity/models/course"

	"gorm.io/gorm"
)

// OverviewService aggregates streaks, XP, level and badges from the daily
// progress history. Everything here is derived; nothing is stored.
type OverviewService struct {
	db    *gorm.DB
	cfg   *config.Config
	clock Clock
}

func NewOverviewService(db *gorm.DB, cfg *config.Config, clock Clock) *OverviewService {
	return &OverviewService{db: db, cfg: cfg, clock: clock}
}

// Badge is a named achievement. Progress is the ratio toward the earning
// threshold, capped at 1.
type Badge struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Earned      bool    `json:"earned"`
	Progress    float64 `json:"progress"`
}

func badgeProgress(value, threshold int) float64 {
	if value >= threshold {
		return 1
	}
	if value <= 0 {
		return 0
	}
	return float64(value) / float64(threshold)
}

// Overview is the gamification snapshot for a user.
type Overview struct {
	StreakDays          int     `json:"streakDays"`
	TotalXP             int     `json:"totalXp"`
	Level               int     `json:"level"`
	XPIntoLevel         int     `json:"xpIntoLevel"`
	XPToNextLevel       int     `json:"xpToNextLevel"`
	TotalPracticeMin    int     `json:"totalPracticeMinutes"`
	FullSessions        int     `json:"fullSessions"`
	QuizzesCompleted    int     `json:"quizzesCompleted"`
	ExamsCompleted      int     `json:"examsCompleted"`
	DaysCompleted       int     `json:"daysCompleted"`
	CompletionPercent   float64 `json:"completionPercent"`
	AverageQuizScore    float64 `json:"averageQuizScore"`
	Badges              []Badge `json:"badges"`
	CourseWeek          int     `json:"courseWeek"`
	CourseDay           int     `json:"courseDay"`
}

// dayCompleteForStreak applies the day-completion predicate using the stored
// day number, so past exam days count by their own rule.
func dayCompleteForStreak(row *courseModels.DailyProgress) bool {
	return IsDayComplete(DayTypeFor(row.DayNumber), row)
}

// calculateStreak walks backwards from today (or yesterday, when today is
// not yet complete) counting consecutive complete days. Any gap resets to 0.
func (s *OverviewService) calculateStreak(rows []courseModels.DailyProgress) int {
	byDate := make(map[string]*courseModels.DailyProgress, len(rows))
	for i := range rows {
		byDate[rows[i].Date] = &rows[i]
	}

	today := UTCMidnight(s.clock.Now())
	cursor := today
	if row := byDate[DateString(today)]; row == nil || !dayCompleteForStreak(row) {
		cursor = today.AddDate(0, 0, -1)
	}

	streak := 0
	for {
		row := byDate[DateString(cursor)]
		if row == nil || !dayCompleteForStreak(row) {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

// GetOverview computes the full gamification snapshot.
func (s *OverviewService) GetOverview(userID uint) (*Overview, error) {
	course, err := getActiveCourse(s.db, userID)
	if err != nil {
		return nil, err
	}

	var rows []courseModels.DailyProgress
	if err := s.db.Where("user_id = ?", userID).Order("date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	var exams []courseModels.WeeklyExam
	if err := s.db.Where("user_id = ? AND exam_completed = true", userID).Find(&exams).Error; err != nil {
		return nil, err
	}

	totalPracticeSeconds := 0
	fullSessions := 0
	quizzes := 0
	daysCompleted := 0
	scoreSum := 0
	scoreCount := 0

	for i := range rows {
		row := &rows[i]
		totalPracticeSeconds += row.SpeakingDurationSeconds
		if row.SpeakingCompleted {
			fullSessions++
		}
		isExamDay := DayTypeFor(row.DayNumber) == DayTypeSpeakingExam
		if row.SpeakingQuizCompleted && !isExamDay {
			quizzes++
			scoreSum += row.SpeakingQuizScore
			scoreCount++
		}
		if row.ListeningQuizCompleted {
			quizzes++
			scoreSum += row.ListeningQuizScore
			scoreCount++
		}
		if dayCompleteForStreak(row) {
			daysCompleted++
		}
	}
	for i := range exams {
		scoreSum += exams[i].ExamScore
		scoreCount++
	}

	streak := s.calculateStreak(rows)
	practiceMinutes := totalPracticeSeconds / 60

	xp := practiceMinutes*s.cfg.XPPerPracticeMinute +
		fullSessions*s.cfg.XPPerFullSession +
		quizzes*s.cfg.XPPerQuiz +
		len(exams)*s.cfg.XPPerExam +
		streak*s.cfg.XPPerStreakDay

	level := xp/100 + 1
	xpIntoLevel := xp % 100

	totalDays := s.cfg.CourseTotalWeeks * DaysPerWeek
	progress := CalculateProgress(course.StartDate, s.clock.Now())

	avgScore := 0.0
	if scoreCount > 0 {
		avgScore = float64(scoreSum) / float64(scoreCount)
	}

	return &Overview{
		StreakDays:        streak,
		TotalXP:           xp,
		Level:             level,
		XPIntoLevel:       xpIntoLevel,
		XPToNextLevel:     100 - xpIntoLevel,
		TotalPracticeMin:  practiceMinutes,
		FullSessions:      fullSessions,
		QuizzesCompleted:  quizzes,
		ExamsCompleted:    len(exams),
		DaysCompleted:     daysCompleted,
		CompletionPercent: float64(daysCompleted) / float64(totalDays) * 100,
		AverageQuizScore:  avgScore,
		Badges:            s.badges(streak, fullSessions, quizzes, len(exams), daysCompleted, practiceMinutes),
		CourseWeek:        progress.Week,
		CourseDay:         progress.Day,
	}, nil
}

// badges evaluates the declarative badge rules against the aggregates.
func (s *OverviewService) badges(streak, fullSessions, quizzes, exams, daysCompleted, practiceMinutes int) []Badge {
	return []Badge{
		{ID: "first-steps", Name: "First Steps", Description: "Complete your first full speaking session", Earned: fullSessions >= 1, Progress: badgeProgress(fullSessions, 1)},
		{ID: "quiz-rookie", Name: "Quiz Rookie", Description: "Complete 5 quizzes", Earned: quizzes >= 5, Progress: badgeProgress(quizzes, 5)},
		{ID: "on-fire", Name: "On Fire", Description: "Reach a 3-day streak", Earned: streak >= 3, Progress: badgeProgress(streak, 3)},
		{ID: "week-warrior", Name: "Week Warrior", Description: "Keep a 7-day streak going", Earned: streak >= 7, Progress: badgeProgress(streak, 7)},
		{ID: "examiner", Name: "Examiner", Description: "Pass your first weekly exam", Earned: exams >= 1, Progress: badgeProgress(exams, 1)},
		{ID: "marathoner", Name: "Marathoner", Description: "Practice speaking for 60 minutes total", Earned: practiceMinutes >= 60, Progress: badgeProgress(practiceMinutes, 60)},
		{ID: "halfway-there", Name: "Halfway There", Description: "Complete 42 course days", Earned: daysCompleted >= 42, Progress: badgeProgress(daysCompleted, 42)},
	}
}
