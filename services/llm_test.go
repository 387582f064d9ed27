package services

import (
	"testing"

	courseModels "talktivity/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTopicsDropsIncompleteContent(t *testing.T) {
	topics := makeTopics(3, "ok")
	topics = append(topics,
		courseModels.Topic{ID: "x", Title: "no prompts"},
		courseModels.Topic{ID: "y", Prompt: "no title", FirstPrompt: "still no title"},
	)

	valid := ValidateTopics(topics, nil)
	require.Len(t, valid, 3)
	assert.Equal(t, "ok-1", valid[0].ID)
}

func TestValidateTopicsMintsMissingID(t *testing.T) {
	topics := makeTopics(2, "ok")
	topics[1].ID = "  "

	valid := ValidateTopics(topics, nil)
	require.Len(t, valid, 2)
	assert.Equal(t, "ok-1", valid[0].ID)
	assert.NotEmpty(t, valid[1].ID)
	assert.NotEqual(t, "  ", valid[1].ID)
}

func TestParseTopicArrayUnwrapsMarkdownFences(t *testing.T) {
	content := "Here you go:\n```json\n[{\"id\":\"a\",\"title\":\"T\",\"prompt\":\"p\",\"firstPrompt\":\"f\"}]\n```"
	topics, err := parseTopicArray(content)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "a", topics[0].ID)
}
