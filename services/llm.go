package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"talktivity/config"
	"talktivity/models"
	courseModels "talktivity/models/course"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// TopicGenerator produces a batch of personalized speaking topics. The live
// implementation calls an OpenAI-compatible chat completions API; tests
// substitute a fake.
type TopicGenerator interface {
	GenerateTopics(ctx context.Context, profile *models.OnboardingProfile, conversations []string, excludedTopics []string) ([]courseModels.Topic, error)
}

const courseGenerationPrompt = `You are a senior English speaking curriculum designer. Create a personalized 7-day speaking course from the learner's onboarding profile and conversation history.

OUTPUT RULES:
1. Return ONLY a valid JSON array, no markdown, no extra text.
2. EXACTLY 7 topic objects with this structure:
{"id":"unique-id","title":"Topic Title","imageUrl":"https://placehold.co/400x600/1a202c/ffffff?text=Topic+Title","prompt":"Conversational topic description","firstPrompt":"A natural opening message","isCustom":false,"category":"Personalized Topics"}
3. If excludedTopics are provided you MUST generate completely new and different topics, never variations of excluded ones.
4. Topics should be modern, diverse, conversation-driven. No quizzes, interview question lists, grammar lessons or vocabulary drills.
5. skill_to_improve shapes the speaking focus, main_goal the communication style, current_level the complexity.`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GroqGenerator calls a Groq/OpenAI-compatible chat completions endpoint.
// Single attempt per model; the primary model falls back once to the
// configured fallback. No retry loops here; retrying is the caller's call.
type GroqGenerator struct {
	client *resty.Client
	cfg    *config.Config
}

// NewGroqGenerator builds the production topic generator from configuration.
func NewGroqGenerator(cfg *config.Config) *GroqGenerator {
	client := resty.New().
		SetTimeout(time.Duration(cfg.LLMTimeoutSecs) * time.Second).
		SetHeader("Content-Type", "application/json")
	return &GroqGenerator{client: client, cfg: cfg}
}

// GenerateTopics requests a 7-topic batch and validates it at the boundary,
// converting the untrusted payload into typed topics before it can enter the
// course aggregate.
func (g *GroqGenerator) GenerateTopics(ctx context.Context, profile *models.OnboardingProfile, conversations []string, excludedTopics []string) ([]courseModels.Topic, error) {
	if g.cfg.LLMApiKey == "" {
		return nil, &GenerationError{Message: "LLM_API_KEY not configured"}
	}

	userPayload := map[string]interface{}{
		"onboarding":    profile,
		"conversations": conversations,
	}
	if len(excludedTopics) > 0 {
		userPayload["excludedTopics"] = excludedTopics
	}
	payloadJSON, err := json.Marshal(userPayload)
	if err != nil {
		return nil, &GenerationError{Message: "failed to encode generation payload", Err: err}
	}

	content, err := g.complete(ctx, g.cfg.LLMModel, string(payloadJSON))
	if err != nil {
		log.Printf("[LLM] Primary model failed: %v. Trying fallback model.", err)
		content, err = g.complete(ctx, g.cfg.LLMFallbackModel, string(payloadJSON))
		if err != nil {
			return nil, &GenerationError{Message: "topic generation failed", Err: err}
		}
	}

	topics, err := parseTopicArray(content)
	if err != nil {
		return nil, &GenerationError{Message: "AI returned malformed topics", Err: err}
	}
	return topics, nil
}

func (g *GroqGenerator) complete(ctx context.Context, model, userMessage string) (string, error) {
	req := chatRequest{
		Model:       model,
		Temperature: 0.2,
		Messages: []chatMessage{
			{Role: "system", Content: courseGenerationPrompt},
			{Role: "user", Content: userMessage},
		},
	}

	var out chatResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(g.cfg.LLMApiKey).
		SetBody(req).
		SetResult(&out).
		Post(g.cfg.LLMApiURL)
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("LLM API returned status %d: %s", resp.StatusCode(), resp.String())
	}
	if out.Error != nil {
		return "", fmt.Errorf("LLM API error: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("LLM API returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

// parseTopicArray extracts the JSON array from a model response that may be
// wrapped in markdown fences or prose.
func parseTopicArray(content string) ([]courseModels.Topic, error) {
	jsonStr := content
	if strings.Contains(jsonStr, "```json") {
		parts := strings.SplitN(jsonStr, "```json", 2)
		jsonStr = parts[1]
	} else if strings.Contains(jsonStr, "```") {
		parts := strings.SplitN(jsonStr, "```", 3)
		if len(parts) >= 2 {
			jsonStr = parts[1]
		}
	}

	start := strings.Index(jsonStr, "[")
	end := strings.LastIndex(jsonStr, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array found in response")
	}
	jsonStr = jsonStr[start : end+1]

	var topics []courseModels.Topic
	if err := json.Unmarshal([]byte(jsonStr), &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

// ValidateTopics filters a generated batch down to topics with all required
// content fields present. A missing ID is not fatal: one is minted, since the
// ID only has to be unique within the course. Titles colliding with excluded
// ones are kept but logged: the generator works from fuzzy instructions, so
// occasional duplication is expected rather than fatal.
func ValidateTopics(topics []courseModels.Topic, excludedTitles []string) []courseModels.Topic {
	excluded := make(map[string]bool, len(excludedTitles))
	for _, t := range excludedTitles {
		excluded[strings.ToLower(strings.TrimSpace(t))] = true
	}

	valid := make([]courseModels.Topic, 0, len(topics))
	for _, t := range topics {
		if strings.TrimSpace(t.Title) == "" ||
			strings.TrimSpace(t.Prompt) == "" ||
			strings.TrimSpace(t.FirstPrompt) == "" {
			log.Printf("[LLM] Dropping invalid topic (missing required fields): %+v", t)
			continue
		}
		if strings.TrimSpace(t.ID) == "" {
			t.ID = uuid.NewString()
		}
		if excluded[strings.ToLower(strings.TrimSpace(t.Title))] {
			log.Printf("[LLM] Warning: generated topic %q collides with an excluded title", t.Title)
		}
		valid = append(valid, t)
	}
	return valid
}
