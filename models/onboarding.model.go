package models

import "gorm.io/gorm"

// OnboardingProfile holds the learner profile collected during onboarding.
// All fields must be filled before a course can be initialized.
type OnboardingProfile struct {
	gorm.Model
	UserID                 uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	SkillToImprove         string `json:"skill_to_improve"`
	LanguageStatement      string `json:"language_statement"`
	Industry               string `json:"industry"`
	SpeakingFeelings       string `json:"speaking_feelings"`
	SpeakingFrequency      string `json:"speaking_frequency"`
	MainGoal               string `json:"main_goal"`
	Gender                 string `json:"gender"`
	CurrentLearningMethods string `json:"current_learning_methods"`
	CurrentLevel           string `json:"current_level"`
	NativeLanguage         string `json:"native_language"`
	KnownWords1            string `json:"known_words_1"`
	KnownWords2            string `json:"known_words_2"`
	Interests              string `json:"interests"`
	EnglishStyle           string `json:"english_style"`
	TutorStyle             string `json:"tutor_style"`
}

// MissingFields returns the names of required onboarding fields that are empty.
func (p *OnboardingProfile) MissingFields() []string {
	checks := []struct {
		name  string
		value string
	}{
		{"skill_to_improve", p.SkillToImprove},
		{"language_statement", p.LanguageStatement},
		{"industry", p.Industry},
		{"speaking_feelings", p.SpeakingFeelings},
		{"speaking_frequency", p.SpeakingFrequency},
		{"main_goal", p.MainGoal},
		{"gender", p.Gender},
		{"current_learning_methods", p.CurrentLearningMethods},
		{"current_level", p.CurrentLevel},
		{"native_language", p.NativeLanguage},
		{"known_words_1", p.KnownWords1},
		{"known_words_2", p.KnownWords2},
		{"interests", p.Interests},
		{"english_style", p.EnglishStyle},
		{"tutor_style", p.TutorStyle},
	}

	var missing []string
	for _, c := range checks {
		if c.value == "" {
			missing = append(missing, c.name)
		}
	}
	return missing
}

// UserLifecycle tracks the pre-course milestones. All four must be completed
// before course initialization is allowed.
type UserLifecycle struct {
	gorm.Model
	UserID              uint `json:"user_id" gorm:"uniqueIndex;not null"`
	OnboardingCompleted bool `json:"onboarding_completed" gorm:"default:false"`
	CallCompleted       bool `json:"call_completed" gorm:"default:false"`
	ReportCompleted     bool `json:"report_completed" gorm:"default:false"`
	UpgradeCompleted    bool `json:"upgrade_completed" gorm:"default:false"`
}

// IncompleteMilestones returns labels of lifecycle steps not yet completed.
func (l *UserLifecycle) IncompleteMilestones() []string {
	var incomplete []string
	if !l.OnboardingCompleted {
		incomplete = append(incomplete, "Onboarding")
	}
	if !l.CallCompleted {
		incomplete = append(incomplete, "Call")
	}
	if !l.ReportCompleted {
		incomplete = append(incomplete, "Report")
	}
	if !l.UpgradeCompleted {
		incomplete = append(incomplete, "Upgrade")
	}
	return incomplete
}
