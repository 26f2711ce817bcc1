package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// ErrEmptyCompletion is returned when the model answers with no text.
var ErrEmptyCompletion = errors.New("empty completion")

// Prompt is a compiled single-turn chain: the template is rendered into one
// user message and sent to the chat model. Template placeholders use the
// {name} syntax, so literal braces must not appear in the template text.
type Prompt struct {
	name  string
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewPrompt compiles template against chatModel.
func NewPrompt(ctx context.Context, name string, chatModel model.BaseChatModel, template string) (*Prompt, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%s prompt: chat model is required", name)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.UserMessage(template),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s chain: %w", name, err)
	}

	return &Prompt{name: name, chain: runnable}, nil
}

// Name identifies the prompt in logs and metrics.
func (p *Prompt) Name() string { return p.name }

// Complete renders the template with vars, runs the model, and returns the
// trimmed completion text. A blank completion is returned as-is with no
// error; callers that cannot use one check for it.
func (p *Prompt) Complete(ctx context.Context, vars map[string]any) (string, error) {
	msg, err := p.chain.Invoke(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("failed to run %s chain: %w", p.name, err)
	}
	if msg == nil {
		return "", nil
	}
	return strings.TrimSpace(msg.Content), nil
}
