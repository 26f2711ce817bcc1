package ai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careercompass/backend/internal/service/ai/aitest"
)

func TestPromptRendersTemplateAndTrims(t *testing.T) {
	chatModel := aitest.New("  an answer \n")
	p, err := NewPrompt(testContext(t), "test", chatModel, "Context:\n{context}\nQuestion: {query}")
	require.NoError(t, err)

	got, err := p.Complete(testContext(t), map[string]any{
		"context": `{"title":"raw json with braces"}`,
		"query":   "what now?",
	})
	require.NoError(t, err)

	assert.Equal(t, "an answer", got)
	assert.Equal(t, 1, chatModel.Calls())
	assert.Equal(t, "Context:\n{\"title\":\"raw json with braces\"}\nQuestion: what now?", chatModel.Prompt(0))
}

func TestPromptWrapsModelError(t *testing.T) {
	boom := errors.New("connection reset")
	p, err := NewPrompt(testContext(t), "test", aitest.NewWithReplies(aitest.Reply{Err: boom}), "{query}")
	require.NoError(t, err)

	_, err = p.Complete(testContext(t), map[string]any{"query": "hi"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestNewPromptRequiresModel(t *testing.T) {
	_, err := NewPrompt(testContext(t), "test", nil, "{query}")
	assert.Error(t, err)
}
