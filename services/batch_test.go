package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"talktivity/models"
	courseModels "talktivity/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBatchFixture(t *testing.T, gen *fakeGenerator) (*BatchService, *FixedClock, *models.User, *courseModels.Course) {
	t.Helper()
	db := newTestDB(t)
	clock := &FixedClock{Time: utcDate(2025, time.March, 5)}
	user := seedUser(t, db)
	seedOnboarding(t, db, user.ID)
	course := seedCourse(t, db, user.ID, utcDate(2025, time.March, 3), 1, 7)
	svc := NewBatchService(db, newTestConfig(), gen, clock)
	return svc, clock, user, course
}

func TestBatchCheckUpToDateMidWeek(t *testing.T) {
	gen := &fakeGenerator{topics: makeTopics(7, "next")}
	svc, _, user, _ := newBatchFixture(t, gen)

	// Week 1 day 3, batch 1: nothing to do.
	result, err := svc.CheckAndTriggerNextBatch(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, result.Triggered)
	assert.Equal(t, "up_to_date", result.Reason)
	assert.Equal(t, 0, gen.calls)
}

func TestBatchCheckFiresOnFirstDayOfNewWeek(t *testing.T) {
	gen := &fakeGenerator{topics: makeTopics(7, "next")}
	svc, clock, user, course := newBatchFixture(t, gen)

	clock.Time = utcDate(2025, time.March, 10) // week 2 day 1

	result, err := svc.CheckAndTriggerNextBatch(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, result.Triggered)
	assert.Equal(t, "batch_generated", result.Reason)
	assert.Equal(t, 2, result.BatchNumber)
	assert.Equal(t, 7, result.TopicsAdded)
	assert.Equal(t, 1, gen.calls)

	var reloaded courseModels.Course
	require.NoError(t, svc.db.First(&reloaded, course.ID).Error)
	assert.Equal(t, 2, reloaded.BatchNumber)
	assert.Len(t, reloaded.Topics, 14)
	assert.Nil(t, reloaded.BatchStatus)
}

func TestBatchCheckNoDoubleAppendOnWeekStart(t *testing.T) {
	gen := &fakeGenerator{topics: makeTopics(7, "next")}
	svc, clock, user, course := newBatchFixture(t, gen)

	clock.Time = utcDate(2025, time.March, 10) // week 2 day 1

	first, err := svc.CheckAndTriggerNextBatch(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, first.Triggered)

	// Same day, batch number already caught up: a re-check is a no-op.
	second, err := svc.CheckAndTriggerNextBatch(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, second.Triggered)
	assert.Equal(t, "up_to_date", second.Reason)
	assert.Equal(t, 1, gen.calls)

	var reloaded courseModels.Course
	require.NoError(t, svc.db.First(&reloaded, course.ID).Error)
	assert.Equal(t, 2, reloaded.BatchNumber)
	assert.Len(t, reloaded.Topics, 14)
}

func TestBatchCheckCatchesUpMidWeek(t *testing.T) {
	gen := &fakeGenerator{topics: makeTopics(7, "late")}
	svc, clock, user, _ := newBatchFixture(t, gen)

	// Week 2 day 4 with batch 1: the learner skipped day 1, catch up now.
	clock.Time = utcDate(2025, time.March, 13)

	result, err := svc.CheckAndTriggerNextBatch(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, result.Triggered)
	assert.Equal(t, 2, result.BatchNumber)
}

func TestBatchCheckIdempotentWithinWeek(t *testing.T) {
	gen := &fakeGenerator{topics: makeTopics(7, "next")}
	svc, clock, user, _ := newBatchFixture(t, gen)

	clock.Time = utcDate(2025, time.March, 10)
	_, err := svc.CheckAndTriggerNextBatch(context.Background(), user.ID)
	require.NoError(t, err)

	// Day moves on, batch 2 already covers week 2: no second generation.
	clock.Time = utcDate(2025, time.March, 11)
	result, err := svc.CheckAndTriggerNextBatch(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, result.Triggered)
	assert.Equal(t, "up_to_date", result.Reason)
	assert.Equal(t, 1, gen.calls)
}

func TestBatchCheckFinalWeekCompletesCourse(t *testing.T) {
	gen := &fakeGenerator{topics: makeTopics(7, "next")}
	svc, clock, user, course := newBatchFixture(t, gen)
	require.NoError(t, svc.db.Model(course).Update("batch_number", 11).Error)

	clock.Time = utcDate(2025, time.May, 19) // week 12 day 1

	result, err := svc.CheckAndTriggerNextBatch(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, result.Triggered)
	assert.Equal(t, "course_completed", result.Reason)
	assert.Equal(t, 0, gen.calls)

	var reloaded courseModels.Course
	require.NoError(t, svc.db.First(&reloaded, course.ID).Error)
	require.NotNil(t, reloaded.BatchStatus)
	assert.Equal(t, courseModels.BatchActionCourseCompleted, reloaded.BatchStatus.Action)
}

func TestBatchGenerationFailureLeavesCourseUntouched(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("provider down")}
	svc, clock, user, course := newBatchFixture(t, gen)

	clock.Time = utcDate(2025, time.March, 10)

	_, err := svc.CheckAndTriggerNextBatch(context.Background(), user.ID)
	require.Error(t, err)
	assert.True(t, IsRetryable(err))

	var reloaded courseModels.Course
	require.NoError(t, svc.db.First(&reloaded, course.ID).Error)
	assert.Equal(t, 1, reloaded.BatchNumber)
	assert.Len(t, reloaded.Topics, 7)
	require.NotNil(t, reloaded.BatchStatus)
	assert.Equal(t, courseModels.BatchActionGenerateNext, reloaded.BatchStatus.Action)
}

func TestBatchRetryAfterFailureClearsPendingStatus(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("provider down")}
	svc, clock, user, course := newBatchFixture(t, gen)

	clock.Time = utcDate(2025, time.March, 10)
	_, err := svc.CheckAndTriggerNextBatch(context.Background(), user.ID)
	require.Error(t, err)

	gen.err = nil
	gen.topics = makeTopics(7, "retry")
	result, err := svc.CheckAndTriggerNextBatch(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, result.Triggered)

	var reloaded courseModels.Course
	require.NoError(t, svc.db.First(&reloaded, course.ID).Error)
	assert.Equal(t, 2, reloaded.BatchNumber)
	assert.Nil(t, reloaded.BatchStatus)
}

func TestBatchRejectsTooFewValidTopics(t *testing.T) {
	// 2 usable topics, 5 junk. Below the minimum of 3.
	topics := makeTopics(2, "ok")
	for i := 0; i < 5; i++ {
		topics = append(topics, courseModels.Topic{Title: "missing everything else"})
	}
	gen := &fakeGenerator{topics: topics}
	svc, clock, user, _ := newBatchFixture(t, gen)

	clock.Time = utcDate(2025, time.March, 10)

	_, err := svc.CheckAndTriggerNextBatch(context.Background(), user.ID)
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
}

func TestAppendBatchConcurrencyGuard(t *testing.T) {
	gen := &fakeGenerator{topics: makeTopics(7, "next")}
	svc, _, _, course := newBatchFixture(t, gen)

	// Someone else already appended: the stale in-memory batch number loses.
	require.NoError(t, svc.db.Model(&courseModels.Course{}).
		Where("id = ?", course.ID).Update("batch_number", 2).Error)

	err := svc.appendBatch(course, makeTopics(7, "stale"))
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestRecentTranscriptsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	base := utcDate(2025, time.March, 1)
	for i := 0; i < 7; i++ {
		require.NoError(t, db.Create(&models.Conversation{
			UserID:     user.ID,
			Transcript: string(rune('a' + i)),
			Timestamp:  base.AddDate(0, 0, i),
		}).Error)
	}
	require.NoError(t, db.Model(&models.Conversation{}).
		Where("transcript = ?", "g").Update("is_deleted", true).Error)

	got, err := recentTranscripts(db, user.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"f", "e", "d", "c", "b"}, got)
}
