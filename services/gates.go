package services

import (
	courseModels "talktivity/models/course"
)

// DayType classifies a curriculum day and determines which activities are
// gated on it.
type DayType string

const (
	// DayTypeAllActivities: speaking -> speaking quiz -> listening ->
	// listening quiz, strictly ordered.
	DayTypeAllActivities DayType = "all_activities"
	// DayTypeSpeakingExam: speaking -> exam quiz only. Listening never
	// applies.
	DayTypeSpeakingExam DayType = "speaking_exam"
)

// DayTypeFor returns the day type for a day number in [1,7].
func DayTypeFor(day int) DayType {
	if day == DaysPerWeek {
		return DayTypeSpeakingExam
	}
	return DayTypeAllActivities
}

// Gates is the availability snapshot for today's activities.
type Gates struct {
	SpeakingAvailable      bool `json:"speakingAvailable"`
	QuizAvailable          bool `json:"quizAvailable"`
	ListeningAvailable     bool `json:"listeningAvailable"`
	ListeningQuizAvailable bool `json:"listeningQuizAvailable"`
	ExamAvailable          bool `json:"examAvailable"`
}

// IsSpeakingAvailable: speaking may start while quota remains and the day's
// speaking is not already marked complete.
func IsSpeakingAvailable(progress *courseModels.DailyProgress, secondsRemaining int) bool {
	if secondsRemaining <= 0 {
		return false
	}
	return progress == nil || !progress.SpeakingCompleted
}

// IsQuizAvailable: the speaking quiz unlocks once speaking is done on a
// regular day. Exam days use the exam gate instead.
func IsQuizAvailable(dayType DayType, progress *courseModels.DailyProgress) bool {
	if dayType == DayTypeSpeakingExam {
		return false
	}
	if progress == nil {
		// Must speak first on a full-activity day.
		return false
	}
	if progress.SpeakingQuizCompleted {
		return false
	}
	return progress.SpeakingCompleted
}

// IsListeningAvailable: listening unlocks after the speaking quiz on
// full-activity days only.
func IsListeningAvailable(dayType DayType, progress *courseModels.DailyProgress) bool {
	if dayType != DayTypeAllActivities {
		return false
	}
	if progress == nil {
		return false
	}
	return progress.SpeakingQuizCompleted && !progress.ListeningCompleted
}

// IsListeningQuizAvailable: the listening quiz unlocks after listening.
func IsListeningQuizAvailable(dayType DayType, progress *courseModels.DailyProgress) bool {
	if dayType != DayTypeAllActivities {
		return false
	}
	if progress == nil {
		return false
	}
	return progress.ListeningCompleted && !progress.ListeningQuizCompleted
}

// IsExamAvailable: the weekly exam unlocks on exam days once speaking is done.
// Exam completion is recorded in the speaking quiz flags of the exam day.
func IsExamAvailable(dayType DayType, progress *courseModels.DailyProgress) bool {
	if dayType != DayTypeSpeakingExam {
		return false
	}
	if progress == nil {
		return false
	}
	return progress.SpeakingCompleted && !progress.SpeakingQuizCompleted
}

// GatesFor assembles the full availability snapshot for a day.
func GatesFor(dayType DayType, progress *courseModels.DailyProgress, speakingSecondsRemaining int) Gates {
	return Gates{
		SpeakingAvailable:      IsSpeakingAvailable(progress, speakingSecondsRemaining),
		QuizAvailable:          IsQuizAvailable(dayType, progress),
		ListeningAvailable:     IsListeningAvailable(dayType, progress),
		ListeningQuizAvailable: IsListeningQuizAvailable(dayType, progress),
		ExamAvailable:          IsExamAvailable(dayType, progress),
	}
}

// IsDayComplete reports whether all of the day's required activities are done.
func IsDayComplete(dayType DayType, progress *courseModels.DailyProgress) bool {
	if progress == nil {
		return false
	}
	switch dayType {
	case DayTypeAllActivities:
		return progress.SpeakingCompleted &&
			progress.SpeakingQuizCompleted &&
			progress.ListeningCompleted &&
			progress.ListeningQuizCompleted
	case DayTypeSpeakingExam:
		return progress.SpeakingCompleted && progress.SpeakingQuizCompleted
	}
	return false
}
