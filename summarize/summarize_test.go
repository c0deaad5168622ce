package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	prompts  []string
	response string
	err      error
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, msg := range messages {
		if msg.Role != llms.ChatMessageTypeHuman {
			continue
		}
		for _, part := range msg.Parts {
			if tc, ok := part.(llms.TextContent); ok {
				m.prompts = append(m.prompts, tc.Text)
			}
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.response}},
	}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", errors.New("not implemented")
}

func TestSummarize(t *testing.T) {
	m := &fakeModel{response: "  A short summary.\n"}
	s := New(m, 10)

	summary, err := s.Summarize(context.Background(), "0123456789abcdef")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary != "A short summary." {
		t.Errorf("unexpected summary: %q", summary)
	}
	if len(m.prompts) != 1 || m.prompts[0] != "summarize: 0123456789" {
		t.Errorf("unexpected prompts: %q", m.prompts)
	}
}

func TestSummarizeTruncatesByRune(t *testing.T) {
	m := &fakeModel{response: "ok"}
	s := New(m, 3)
	if _, err := s.Summarize(context.Background(), "héllo"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.prompts[0] != "summarize: hél" {
		t.Errorf("unexpected prompt: %q", m.prompts[0])
	}
}

func TestSummarizeWithoutModel(t *testing.T) {
	s := New(nil, 0)
	summary, err := s.Summarize(context.Background(), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary != ModelUnavailableSummary {
		t.Errorf("expected %q, got %q", ModelUnavailableSummary, summary)
	}
	if _, err = s.Answer(context.Background(), "text", "why?"); err == nil {
		t.Error("expected error answering without a model")
	}
}

func TestSummarizeErrors(t *testing.T) {
	tests := []struct {
		name  string
		model *fakeModel
	}{
		{
			name:  "model errors are returned",
			model: &fakeModel{err: errors.New("model down")},
		},
		{
			name:  "empty completions are errors",
			model: &fakeModel{response: "   "},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.model, 0)
			if _, err := s.Summarize(context.Background(), "text"); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestAnswer(t *testing.T) {
	m := &fakeModel{response: "Because."}
	s := New(m, 0)

	answer, err := s.Answer(context.Background(), "the transcript", "Why?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "Because." {
		t.Errorf("unexpected answer: %q", answer)
	}
	if !strings.Contains(m.prompts[0], "the transcript") || !strings.Contains(m.prompts[0], "Why?") {
		t.Errorf("expected prompt to include transcript and question, got %q", m.prompts[0])
	}
}
