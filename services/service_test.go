package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"talktivity/config"
	"talktivity/models"
	courseModels "talktivity/models/course"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.OnboardingProfile{},
		&models.UserLifecycle{},
		&models.Conversation{},
		&courseModels.Course{},
		&courseModels.DailyProgress{},
		&courseModels.SpeakingSession{},
		&courseModels.WeeklyExam{},
	))
	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		CourseTotalWeeks:        12,
		TopicsPerBatch:          7,
		MinValidTopics:          3,
		PracticeDailyCapSeconds: 300,
		RoleplayBasicCapSeconds: 300,
		RoleplayProCapSeconds:   3300,
		CallLifetimeCapSeconds:  120,
		XPPerPracticeMinute:     2,
		XPPerFullSession:        10,
		XPPerQuiz:               15,
		XPPerExam:               50,
		XPPerStreakDay:          5,
		LLMTimeoutSecs:          5,
	}
}

// fakeGenerator returns canned topics or a fixed error.
type fakeGenerator struct {
	topics []courseModels.Topic
	err    error
	calls  int
}

func (f *fakeGenerator) GenerateTopics(_ context.Context, _ *models.OnboardingProfile, _ []string, _ []string) ([]courseModels.Topic, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.topics, nil
}

func makeTopics(n int, prefix string) []courseModels.Topic {
	topics := make([]courseModels.Topic, 0, n)
	for i := 0; i < n; i++ {
		topics = append(topics, courseModels.Topic{
			ID:          fmt.Sprintf("%s-%d", prefix, i+1),
			Title:       fmt.Sprintf("%s topic %d", prefix, i+1),
			Prompt:      "Talk about it in depth.",
			FirstPrompt: "Let's get started. What comes to mind first?",
			Category:    "conversation",
		})
	}
	return topics
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := models.User{
		Name:     "Test Learner",
		Email:    fmt.Sprintf("learner-%d@example.com", time.Now().UnixNano()),
		Password: "hashed",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedCourse(t *testing.T, db *gorm.DB, userID uint, startDate time.Time, batchNumber, topicCount int) *courseModels.Course {
	t.Helper()
	course := courseModels.Course{
		UserID:      userID,
		StartDate:   UTCMidnight(startDate),
		EndDate:     UTCMidnight(startDate).AddDate(0, 0, 84),
		IsActive:    true,
		BatchNumber: batchNumber,
		Topics:      makeTopics(topicCount, "seed"),
	}
	require.NoError(t, db.Create(&course).Error)
	return &course
}

func seedOnboarding(t *testing.T, db *gorm.DB, userID uint) {
	t.Helper()
	profile := models.OnboardingProfile{
		UserID:                 userID,
		SkillToImprove:         "fluency",
		LanguageStatement:      "I freeze in meetings",
		Industry:               "software",
		SpeakingFeelings:       "nervous",
		SpeakingFrequency:      "daily",
		MainGoal:               "confident presentations",
		Gender:                 "other",
		CurrentLearningMethods: "apps",
		CurrentLevel:           "B1",
		NativeLanguage:         "Spanish",
		KnownWords1:            "deadline",
		KnownWords2:            "roadmap",
		Interests:              "cycling",
		EnglishStyle:           "business",
		TutorStyle:             "encouraging",
	}
	require.NoError(t, db.Create(&profile).Error)
}

func seedLifecycle(t *testing.T, db *gorm.DB, userID uint, complete bool) {
	t.Helper()
	lifecycle := models.UserLifecycle{
		UserID:              userID,
		OnboardingCompleted: complete,
		CallCompleted:       complete,
		ReportCompleted:     complete,
		UpgradeCompleted:    complete,
	}
	require.NoError(t, db.Create(&lifecycle).Error)
}

func utcDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
