// Package summarize uses an LLM to summarise transcripts and answer
// questions about them.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

const ModelUnavailableSummary = "Summarization model not available."

const DefaultMaxInputChars = 16384

const systemPrompt = `You summarise video transcripts and answer questions about them. You only use the transcript you are given. If the transcript does not contain the answer, you say that you don't know.`

const answerPrompt = `Here is the transcript of a video:

%s

Answer this question about the video: %s`

var ErrEmptyCompletion = errors.New("summarize: model returned no content")

func New(llm llms.Model, maxInputChars int) *Summarizer {
	if maxInputChars <= 0 {
		maxInputChars = DefaultMaxInputChars
	}
	return &Summarizer{
		llm:           llm,
		maxInputChars: maxInputChars,
	}
}

type Summarizer struct {
	llm           llms.Model
	maxInputChars int
}

func (s *Summarizer) Summarize(ctx context.Context, text string) (summary string, err error) {
	if s.llm == nil {
		return ModelUnavailableSummary, nil
	}
	return s.generate(ctx, "summarize: "+truncate(text, s.maxInputChars))
}

func (s *Summarizer) Answer(ctx context.Context, transcript, question string) (answer string, err error) {
	if s.llm == nil {
		return "", errors.New("summarize: no model configured")
	}
	return s.generate(ctx, fmt.Sprintf(answerPrompt, truncate(transcript, s.maxInputChars), question))
}

func (s *Summarizer) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := s.llm.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	})
	if err != nil {
		return "", fmt.Errorf("summarize: failed to generate content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	content := strings.TrimSpace(resp.Choices[0].Content)
	if content == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}

func truncate(s string, maxChars int) string {
	r := []rune(s)
	if len(r) <= maxChars {
		return s
	}
	return string(r[:maxChars])
}
