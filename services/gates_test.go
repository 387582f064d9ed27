package services

import (
	"testing"

	courseModels "talktivity/models/course"

	"github.com/stretchr/testify/assert"
)

func TestDayTypeFor(t *testing.T) {
	for day := 1; day <= 6; day++ {
		assert.Equal(t, DayTypeAllActivities, DayTypeFor(day), "day %d", day)
	}
	assert.Equal(t, DayTypeSpeakingExam, DayTypeFor(7))
}

func TestGatesUntouchedRegularDay(t *testing.T) {
	g := GatesFor(DayTypeAllActivities, nil, 300)

	assert.True(t, g.SpeakingAvailable)
	assert.False(t, g.QuizAvailable)
	assert.False(t, g.ListeningAvailable)
	assert.False(t, g.ListeningQuizAvailable)
	assert.False(t, g.ExamAvailable)
}

func TestGatesRegularDayOrdering(t *testing.T) {
	progress := &courseModels.DailyProgress{}

	progress.SpeakingCompleted = true
	g := GatesFor(DayTypeAllActivities, progress, 0)
	assert.False(t, g.SpeakingAvailable)
	assert.True(t, g.QuizAvailable)
	assert.False(t, g.ListeningAvailable)

	progress.SpeakingQuizCompleted = true
	g = GatesFor(DayTypeAllActivities, progress, 0)
	assert.False(t, g.QuizAvailable)
	assert.True(t, g.ListeningAvailable)
	assert.False(t, g.ListeningQuizAvailable)

	progress.ListeningCompleted = true
	g = GatesFor(DayTypeAllActivities, progress, 0)
	assert.False(t, g.ListeningAvailable)
	assert.True(t, g.ListeningQuizAvailable)

	progress.ListeningQuizCompleted = true
	g = GatesFor(DayTypeAllActivities, progress, 0)
	assert.False(t, g.ListeningQuizAvailable)
	assert.True(t, IsDayComplete(DayTypeAllActivities, progress))
}

func TestGatesExamDay(t *testing.T) {
	g := GatesFor(DayTypeSpeakingExam, nil, 300)
	assert.True(t, g.SpeakingAvailable)
	assert.False(t, g.QuizAvailable)
	assert.False(t, g.ListeningAvailable)
	assert.False(t, g.ListeningQuizAvailable)
	assert.False(t, g.ExamAvailable)

	progress := &courseModels.DailyProgress{SpeakingCompleted: true}
	g = GatesFor(DayTypeSpeakingExam, progress, 0)
	assert.True(t, g.ExamAvailable)
	assert.False(t, g.QuizAvailable, "regular quiz never unlocks on exam days")
	assert.False(t, g.ListeningAvailable, "listening never unlocks on exam days")

	progress.SpeakingQuizCompleted = true
	g = GatesFor(DayTypeSpeakingExam, progress, 0)
	assert.False(t, g.ExamAvailable)
	assert.True(t, IsDayComplete(DayTypeSpeakingExam, progress))
}

func TestSpeakingGateFollowsQuota(t *testing.T) {
	assert.True(t, IsSpeakingAvailable(nil, 1))
	assert.False(t, IsSpeakingAvailable(nil, 0))

	done := &courseModels.DailyProgress{SpeakingCompleted: true}
	assert.False(t, IsSpeakingAvailable(done, 300))
}

func TestIsDayCompletePartial(t *testing.T) {
	assert.False(t, IsDayComplete(DayTypeAllActivities, nil))

	partial := &courseModels.DailyProgress{
		SpeakingCompleted:     true,
		SpeakingQuizCompleted: true,
		ListeningCompleted:    true,
	}
	assert.False(t, IsDayComplete(DayTypeAllActivities, partial))

	// The same flags are enough on an exam day.
	assert.True(t, IsDayComplete(DayTypeSpeakingExam, partial))
}
