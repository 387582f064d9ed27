package services

import (
	"testing"
	"time"

	"talktivity/models"
	courseModels "talktivity/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProgressFixture(t *testing.T, asOf time.Time) (*ProgressService, *FixedClock, *models.User, *courseModels.Course) {
	t.Helper()
	db := newTestDB(t)
	clock := &FixedClock{Time: asOf}
	user := seedUser(t, db)
	course := seedCourse(t, db, user.ID, utcDate(2025, time.March, 3), 1, 7)
	svc := NewProgressService(db, newTestConfig(), clock, nil)
	return svc, clock, user, course
}

func markSpeakingDone(t *testing.T, svc *ProgressService, userID, courseID uint, date string) {
	t.Helper()
	row, err := ensureDailyProgress(svc.db, userID, courseID, date)
	require.NoError(t, err)
	require.NoError(t, svc.db.Model(&courseModels.DailyProgress{}).Where("id = ?", row.ID).
		Update("speaking_completed", true).Error)
}

func TestEnsureDailyProgressIdempotent(t *testing.T) {
	svc, _, user, course := newProgressFixture(t, utcDate(2025, time.March, 5).Add(9*time.Hour))

	a, err := ensureDailyProgress(svc.db, user.ID, course.ID, "2025-03-05")
	require.NoError(t, err)
	b, err := ensureDailyProgress(svc.db, user.ID, course.ID, "2025-03-05")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)

	var count int64
	require.NoError(t, svc.db.Model(&courseModels.DailyProgress{}).
		Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	assert.Equal(t, 1, a.WeekNumber)
	assert.Equal(t, 3, a.DayNumber)
}

func TestCompleteSpeakingQuizRequiresSpeaking(t *testing.T) {
	svc, _, user, _ := newProgressFixture(t, utcDate(2025, time.March, 5).Add(9*time.Hour))

	_, err := svc.CompleteSpeakingQuiz(user.ID, 80)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestCompleteSpeakingQuiz(t *testing.T) {
	svc, _, user, course := newProgressFixture(t, utcDate(2025, time.March, 5).Add(9*time.Hour))
	markSpeakingDone(t, svc, user.ID, course.ID, "2025-03-05")

	row, err := svc.CompleteSpeakingQuiz(user.ID, 85)
	require.NoError(t, err)
	assert.True(t, row.SpeakingQuizCompleted)
	assert.Equal(t, 85, row.SpeakingQuizScore)

	// A second attempt is rejected.
	_, err = svc.CompleteSpeakingQuiz(user.ID, 90)
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestListeningFlowOrdering(t *testing.T) {
	svc, _, user, course := newProgressFixture(t, utcDate(2025, time.March, 5).Add(9*time.Hour))
	markSpeakingDone(t, svc, user.ID, course.ID, "2025-03-05")

	// Listening before the quiz is blocked.
	_, err := svc.CompleteListening(user.ID, 60)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)

	_, err = svc.CompleteSpeakingQuiz(user.ID, 70)
	require.NoError(t, err)

	// Listening quiz before listening is blocked.
	_, err = svc.CompleteListeningQuiz(user.ID, 90)
	require.ErrorAs(t, err, &conflict)

	row, err := svc.CompleteListening(user.ID, 60)
	require.NoError(t, err)
	assert.True(t, row.ListeningCompleted)
	assert.Equal(t, 60, row.ListeningDurationSeconds)

	row, err = svc.CompleteListeningQuiz(user.ID, 90)
	require.NoError(t, err)
	assert.True(t, row.ListeningQuizCompleted)
	assert.Equal(t, 90, row.ListeningQuizScore)
	assert.True(t, IsDayComplete(DayTypeAllActivities, row))
}

func TestExamDayBlocksRegularActivities(t *testing.T) {
	// 2025-03-09 is day 7 of week 1.
	svc, _, user, course := newProgressFixture(t, utcDate(2025, time.March, 9).Add(9*time.Hour))
	markSpeakingDone(t, svc, user.ID, course.ID, "2025-03-09")

	var conflict *ConflictError
	_, err := svc.CompleteSpeakingQuiz(user.ID, 80)
	require.ErrorAs(t, err, &conflict)
	_, err = svc.CompleteListening(user.ID, 60)
	require.ErrorAs(t, err, &conflict)
	_, err = svc.CompleteListeningQuiz(user.ID, 60)
	require.ErrorAs(t, err, &conflict)
}

func TestCompleteExam(t *testing.T) {
	svc, _, user, course := newProgressFixture(t, utcDate(2025, time.March, 9).Add(9*time.Hour))

	// Speaking first.
	var conflict *ConflictError
	_, err := svc.CompleteExam(user.ID, 88, 240)
	require.ErrorAs(t, err, &conflict)

	markSpeakingDone(t, svc, user.ID, course.ID, "2025-03-09")

	row, err := svc.CompleteExam(user.ID, 88, 240)
	require.NoError(t, err)
	assert.True(t, row.SpeakingQuizCompleted)
	assert.Equal(t, 88, row.SpeakingQuizScore)
	assert.True(t, IsDayComplete(DayTypeSpeakingExam, row))

	var exam courseModels.WeeklyExam
	require.NoError(t, svc.db.Where("user_id = ?", user.ID).First(&exam).Error)
	assert.Equal(t, 1, exam.WeekNumber)
	assert.Equal(t, 88, exam.ExamScore)
	assert.Equal(t, "2025-03-09", exam.ExamDate)

	// Once per week.
	_, err = svc.CompleteExam(user.ID, 95, 100)
	require.ErrorAs(t, err, &conflict)
}

func TestCompleteExamRejectsExistingWeeklyRecord(t *testing.T) {
	svc, _, user, course := newProgressFixture(t, utcDate(2025, time.March, 9).Add(9*time.Hour))
	markSpeakingDone(t, svc, user.ID, course.ID, "2025-03-09")

	// A week-1 exam row already on file, even without the daily flags set,
	// must surface as a conflict rather than a storage error.
	require.NoError(t, svc.db.Create(&courseModels.WeeklyExam{
		UserID:        user.ID,
		CourseID:      course.ID,
		WeekNumber:    1,
		ExamCompleted: true,
		ExamScore:     70,
		ExamDate:      "2025-03-09",
	}).Error)

	_, err := svc.CompleteExam(user.ID, 88, 240)
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestCompleteExamOnRegularDay(t *testing.T) {
	svc, _, user, course := newProgressFixture(t, utcDate(2025, time.March, 5).Add(9*time.Hour))
	markSpeakingDone(t, svc, user.ID, course.ID, "2025-03-05")

	_, err := svc.CompleteExam(user.ID, 88, 240)
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestGetDailyProgress(t *testing.T) {
	svc, _, user, course := newProgressFixture(t, utcDate(2025, time.March, 5).Add(9*time.Hour))

	view, err := svc.GetDailyProgress(user.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-05", view.Date)
	assert.Equal(t, 1, view.Week)
	assert.Equal(t, 3, view.Day)
	assert.Equal(t, DayTypeAllActivities, view.DayType)
	assert.Nil(t, view.Progress)
	assert.Equal(t, 300, view.SpeakingSecondsRemaining)
	assert.True(t, view.Gates.SpeakingAvailable)
	assert.False(t, view.IsDayComplete)

	markSpeakingDone(t, svc, user.ID, course.ID, "2025-03-05")
	view, err = svc.GetDailyProgress(user.ID, "2025-03-05")
	require.NoError(t, err)
	require.NotNil(t, view.Progress)
	assert.True(t, view.Gates.QuizAvailable)
}

func TestGetDailyProgressBadDate(t *testing.T) {
	svc, _, user, _ := newProgressFixture(t, utcDate(2025, time.March, 5))

	_, err := svc.GetDailyProgress(user.ID, "05-03-2025")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
