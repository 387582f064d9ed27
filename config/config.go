package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	// LLM provider (Groq / OpenAI compatible chat completions)
	LLMApiURL        string
	LLMApiKey        string
	LLMModel         string
	LLMFallbackModel string
	LLMTimeoutSecs   int

	// Course shape
	CourseTotalWeeks int
	TopicsPerBatch   int
	MinValidTopics   int

	// Session quota caps (seconds)
	PracticeDailyCapSeconds int
	RoleplayBasicCapSeconds int
	RoleplayProCapSeconds   int
	CallLifetimeCapSeconds  int

	// XP weights (formula shape is fixed, weights are tunable)
	XPPerPracticeMinute int
	XPPerFullSession    int
	XPPerQuiz           int
	XPPerExam           int
	XPPerStreakDay      int

	EmailSender string
	Password    string // SMTP Password
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		LLMApiURL:        getEnv("LLM_API_URL", "https://api.groq.com/openai/v1/chat/completions"),
		LLMApiKey:        getEnv("LLM_API_KEY", ""),
		LLMModel:         getEnv("LLM_MODEL", "openai/gpt-oss-120b"),
		LLMFallbackModel: getEnv("LLM_FALLBACK_MODEL", "openai/gpt-oss-120b"),
		LLMTimeoutSecs:   getEnvInt("LLM_TIMEOUT_SECONDS", 60),

		CourseTotalWeeks: getEnvInt("COURSE_TOTAL_WEEKS", 12),
		TopicsPerBatch:   getEnvInt("TOPICS_PER_BATCH", 7),
		MinValidTopics:   getEnvInt("MIN_VALID_TOPICS", 3),

		PracticeDailyCapSeconds: getEnvInt("PRACTICE_DAILY_CAP_SECONDS", 300),
		RoleplayBasicCapSeconds: getEnvInt("ROLEPLAY_BASIC_CAP_SECONDS", 300),
		RoleplayProCapSeconds:   getEnvInt("ROLEPLAY_PRO_CAP_SECONDS", 3300),
		CallLifetimeCapSeconds:  getEnvInt("CALL_LIFETIME_CAP_SECONDS", 120),

		XPPerPracticeMinute: getEnvInt("XP_PER_PRACTICE_MINUTE", 2),
		XPPerFullSession:    getEnvInt("XP_PER_FULL_SESSION", 10),
		XPPerQuiz:           getEnvInt("XP_PER_QUIZ", 15),
		XPPerExam:           getEnvInt("XP_PER_EXAM", 50),
		XPPerStreakDay:      getEnvInt("XP_PER_STREAK_DAY", 5),

		EmailSender: getEnv("EMAIL_SENDER", ""),
		Password:    getEnv("PASSWORD", ""),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.LLMApiKey == "" {
		log.Println("Warning: LLM_API_KEY is not set. Topic generation will fail until it is configured.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
