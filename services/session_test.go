package services

import (
	"testing"
	"time"

	"talktivity/models"
	courseModels "talktivity/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionFixture(t *testing.T) (*SessionService, *FixedClock, *models.User, *courseModels.Course) {
	t.Helper()
	db := newTestDB(t)
	cfg := newTestConfig()
	clock := &FixedClock{Time: time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC)}
	user := seedUser(t, db)
	course := seedCourse(t, db, user.ID, utcDate(2025, time.March, 3), 1, 7)
	svc := NewSessionService(db, cfg, clock, nil)
	return svc, clock, user, course
}

func TestStartSessionCreatesOpenSession(t *testing.T) {
	svc, _, user, _ := newSessionFixture(t)

	state, err := svc.StartSession(user.ID, courseModels.SessionKindPractice)
	require.NoError(t, err)
	assert.NotZero(t, state.SessionID)
	assert.NotEmpty(t, state.RoomName)
	assert.Equal(t, 300, state.SecondsRemaining)
	assert.Equal(t, "2025-03-05", state.Date)
}

func TestStartSessionRejectsSecondOpen(t *testing.T) {
	svc, _, user, _ := newSessionFixture(t)

	_, err := svc.StartSession(user.ID, courseModels.SessionKindPractice)
	require.NoError(t, err)

	_, err = svc.StartSession(user.ID, courseModels.SessionKindRoleplay)
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestStartSessionUnknownKind(t *testing.T) {
	svc, _, user, _ := newSessionFixture(t)

	_, err := svc.StartSession(user.ID, "karaoke")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestStartSessionWithoutCourse(t *testing.T) {
	db := newTestDB(t)
	clock := &FixedClock{Time: time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC)}
	svc := NewSessionService(db, newTestConfig(), clock, nil)
	user := seedUser(t, db)

	_, err := svc.StartSession(user.ID, courseModels.SessionKindPractice)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestEndSessionRecordsElapsed(t *testing.T) {
	svc, clock, user, _ := newSessionFixture(t)

	_, err := svc.StartSession(user.ID, courseModels.SessionKindPractice)
	require.NoError(t, err)

	clock.Time = clock.Time.Add(100 * time.Second)
	result, err := svc.EndSession(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, result.DurationSeconds)
	assert.Equal(t, 200, result.SecondsRemaining)
	assert.False(t, result.PoolExhausted)
}

func TestEndSessionClampsToPoolRemaining(t *testing.T) {
	svc, clock, user, _ := newSessionFixture(t)

	_, err := svc.StartSession(user.ID, courseModels.SessionKindPractice)
	require.NoError(t, err)

	// Ran 400s against a 300s pool: only 300 may be recorded.
	clock.Time = clock.Time.Add(400 * time.Second)
	result, err := svc.EndSession(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 300, result.DurationSeconds)
	assert.Equal(t, 0, result.SecondsRemaining)
	assert.True(t, result.PoolExhausted)
}

func TestEndSessionNoOpen(t *testing.T) {
	svc, _, user, _ := newSessionFixture(t)

	_, err := svc.EndSession(user.ID)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestPracticePoolExhaustionMarksSpeakingComplete(t *testing.T) {
	svc, clock, user, _ := newSessionFixture(t)

	_, err := svc.StartSession(user.ID, courseModels.SessionKindPractice)
	require.NoError(t, err)
	clock.Time = clock.Time.Add(300 * time.Second)
	_, err = svc.EndSession(user.ID)
	require.NoError(t, err)

	row, err := getDailyProgressRow(svc.db, user.ID, "2025-03-05")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.True(t, row.SpeakingCompleted)
	assert.Equal(t, 300, row.SpeakingDurationSeconds)
	assert.NotNil(t, row.SpeakingEndedAt)

	// The pool is dry for the rest of the day.
	_, err = svc.StartSession(user.ID, courseModels.SessionKindPractice)
	var quota *QuotaExceededError
	assert.ErrorAs(t, err, &quota)
}

func TestPracticePoolSpansMultipleSessions(t *testing.T) {
	svc, clock, user, _ := newSessionFixture(t)

	for _, chunk := range []int{120, 120} {
		_, err := svc.StartSession(user.ID, courseModels.SessionKindPractice)
		require.NoError(t, err)
		clock.Time = clock.Time.Add(time.Duration(chunk) * time.Second)
		_, err = svc.EndSession(user.ID)
		require.NoError(t, err)
	}

	// 240s used, 60s left: a 90s attempt gets clamped.
	state, err := svc.StartSession(user.ID, courseModels.SessionKindPractice)
	require.NoError(t, err)
	assert.Equal(t, 60, state.SecondsRemaining)

	clock.Time = clock.Time.Add(90 * time.Second)
	result, err := svc.EndSession(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, result.DurationSeconds)
	assert.True(t, result.PoolExhausted)
}

func TestRoleplayCapDependsOnPlan(t *testing.T) {
	svc, clock, user, _ := newSessionFixture(t)

	state, err := svc.StartSession(user.ID, courseModels.SessionKindRoleplay)
	require.NoError(t, err)
	assert.Equal(t, 300, state.CapSeconds)
	clock.Time = clock.Time.Add(10 * time.Second)
	_, err = svc.EndSession(user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.db.Create(&models.Subscription{
		UserID:    user.ID,
		PlanType:  models.PlanTypePro,
		Status:    "active",
		StartDate: clock.Time.AddDate(0, 0, -1),
		EndDate:   clock.Time.AddDate(0, 1, 0),
	}).Error)

	state, err = svc.StartSession(user.ID, courseModels.SessionKindRoleplay)
	require.NoError(t, err)
	assert.Equal(t, 3300, state.CapSeconds)
	assert.Equal(t, 3290, state.SecondsRemaining)
}

func TestCallPoolIsLifetime(t *testing.T) {
	svc, clock, user, _ := newSessionFixture(t)
	seedLifecycle(t, svc.db, user.ID, false)

	_, err := svc.StartSession(user.ID, courseModels.SessionKindCall)
	require.NoError(t, err)
	clock.Time = clock.Time.Add(130 * time.Second)
	result, err := svc.EndSession(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, result.DurationSeconds)
	assert.True(t, result.PoolExhausted)

	var lifecycle models.UserLifecycle
	require.NoError(t, svc.db.Where("user_id = ?", user.ID).First(&lifecycle).Error)
	assert.True(t, lifecycle.CallCompleted)

	// Still exhausted tomorrow: the call pool never resets.
	clock.Time = clock.Time.AddDate(0, 0, 1)
	_, err = svc.StartSession(user.ID, courseModels.SessionKindCall)
	var quota *QuotaExceededError
	assert.ErrorAs(t, err, &quota)
}

func TestCheckTime(t *testing.T) {
	svc, clock, user, _ := newSessionFixture(t)

	_, err := svc.CheckTime(user.ID)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)

	_, err = svc.StartSession(user.ID, courseModels.SessionKindPractice)
	require.NoError(t, err)

	clock.Time = clock.Time.Add(120 * time.Second)
	state, err := svc.CheckTime(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, state.ElapsedSeconds)
	assert.Equal(t, 180, state.SecondsRemaining)
	assert.False(t, state.AutoCompleted)
}

func TestCheckTimeAutoCompletesAtCap(t *testing.T) {
	svc, clock, user, _ := newSessionFixture(t)

	start, err := svc.StartSession(user.ID, courseModels.SessionKindPractice)
	require.NoError(t, err)

	// 400s into a 300s pool: the poll itself closes the session at the cap.
	clock.Time = clock.Time.Add(400 * time.Second)
	state, err := svc.CheckTime(user.ID)
	require.NoError(t, err)
	assert.True(t, state.AutoCompleted)
	assert.Equal(t, 0, state.SecondsRemaining)

	var session courseModels.SpeakingSession
	require.NoError(t, svc.db.First(&session, start.SessionID).Error)
	require.NotNil(t, session.EndTime)
	assert.True(t, session.AutoCompleted)
	assert.Equal(t, 300, session.DurationSeconds)

	// The row is closed, so a second poll finds nothing open.
	_, err = svc.CheckTime(user.ID)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestCheckTimeAutoCompleteHonorsPriorUsage(t *testing.T) {
	svc, clock, user, _ := newSessionFixture(t)

	_, err := svc.StartSession(user.ID, courseModels.SessionKindPractice)
	require.NoError(t, err)
	clock.Time = clock.Time.Add(250 * time.Second)
	_, err = svc.EndSession(user.ID)
	require.NoError(t, err)

	// 50s left in the pool; a 60s-old session is already over.
	_, err = svc.StartSession(user.ID, courseModels.SessionKindPractice)
	require.NoError(t, err)
	clock.Time = clock.Time.Add(60 * time.Second)
	state, err := svc.CheckTime(user.ID)
	require.NoError(t, err)
	assert.True(t, state.AutoCompleted)

	used, err := sessionDailyUsage(svc.db, user.ID, courseModels.SessionKindPractice, "2025-03-05")
	require.NoError(t, err)
	assert.Equal(t, 300, used)
}

func TestSweepExpiredSessions(t *testing.T) {
	svc, clock, user, _ := newSessionFixture(t)

	_, err := svc.StartSession(user.ID, courseModels.SessionKindPractice)
	require.NoError(t, err)

	// Inside cap+grace: untouched.
	clock.Time = clock.Time.Add(200 * time.Second)
	closed, err := svc.SweepExpiredSessions()
	require.NoError(t, err)
	assert.Equal(t, 0, closed)

	// Past cap+grace: force-closed and clamped.
	clock.Time = clock.Time.Add(200 * time.Second)
	closed, err = svc.SweepExpiredSessions()
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	var session courseModels.SpeakingSession
	require.NoError(t, svc.db.Where("user_id = ?", user.ID).First(&session).Error)
	assert.NotNil(t, session.EndTime)
	assert.True(t, session.AutoCompleted)
	assert.Equal(t, 300, session.DurationSeconds)
}
