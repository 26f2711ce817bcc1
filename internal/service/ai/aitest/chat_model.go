// Package aitest provides a scripted chat model for tests.
package aitest

import (
	"context"
	"errors"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ErrExhausted is returned once every scripted reply has been consumed.
var ErrExhausted = errors.New("aitest: no scripted reply left")

// Reply is one scripted model answer.
type Reply struct {
	Content string
	Err     error
}

// ChatModel replays scripted replies in order and records every prompt it
// received. It is safe for concurrent use.
type ChatModel struct {
	mu      sync.Mutex
	replies []Reply
	calls   [][]*schema.Message
}

var _ model.ChatModel = (*ChatModel)(nil)

// New returns a ChatModel that answers with contents in order.
func New(contents ...string) *ChatModel {
	m := &ChatModel{}
	for _, c := range contents {
		m.replies = append(m.replies, Reply{Content: c})
	}
	return m
}

// NewWithReplies returns a ChatModel scripted with explicit replies.
func NewWithReplies(replies ...Reply) *ChatModel {
	return &ChatModel{replies: append([]Reply(nil), replies...)}
}

func (m *ChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, input)
	if len(m.replies) == 0 {
		return nil, ErrExhausted
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	if reply.Err != nil {
		return nil, reply.Err
	}
	return schema.AssistantMessage(reply.Content, nil), nil
}

func (m *ChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *ChatModel) BindTools(_ []*schema.ToolInfo) error { return nil }

// Calls returns how many times the model was invoked.
func (m *ChatModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Prompt returns the concatenated message contents of the i-th call.
func (m *ChatModel) Prompt(i int) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i < 0 || i >= len(m.calls) {
		return ""
	}
	var out string
	for j, msg := range m.calls[i] {
		if j > 0 {
			out += "\n"
		}
		out += msg.Content
	}
	return out
}
