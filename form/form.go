// Package form submits a video URL and question to a videoqa server and
// writes the summary and answer back to the caller's output targets.
package form

import (
	"context"
	"log/slog"
	"sync"

	"github.com/a-h/videoqa/models"
)

const (
	FallbackSummary = "No summary available."
	FallbackAnswer  = "No answer available."
	AlertMessage    = "Failed to process the video. Please check the console for details."
)

// Field is an input that is read when the form is submitted.
type Field interface {
	Value() string
}

// Output receives text when a submission succeeds.
type Output interface {
	SetText(text string)
}

// Alerter notifies the user that a submission failed.
type Alerter interface {
	Alert(message string)
}

// AlerterFunc adapts a function to the Alerter interface.
type AlerterFunc func(message string)

func (f AlerterFunc) Alert(message string) { f(message) }

// Processor sends a form submission to the server.
type Processor interface {
	ProcessVideo(ctx context.Context, req models.ProcessVideoRequest) (models.ProcessVideoResponse, error)
}

// StaticField is a Field with a fixed value.
type StaticField string

func (f StaticField) Value() string { return string(f) }

// Text is a Field and Output that is safe for concurrent use.
type Text struct {
	m    sync.Mutex
	text string
}

func (t *Text) Value() string {
	t.m.Lock()
	defer t.m.Unlock()
	return t.text
}

func (t *Text) SetText(text string) {
	t.m.Lock()
	defer t.m.Unlock()
	t.text = text
}

// New creates a Form that reads from url and question and writes to summary and answer.
func New(log *slog.Logger, processor Processor, url, question Field, summary, answer Output, alerter Alerter) *Form {
	return &Form{
		log:       log,
		processor: processor,
		url:       url,
		question:  question,
		summary:   summary,
		answer:    answer,
		alerter:   alerter,
	}
}

// Form submits a video URL and question and displays the result.
type Form struct {
	log       *slog.Logger
	processor Processor
	url       Field
	question  Field
	summary   Output
	answer    Output
	alerter   Alerter
}

// Submit runs a single request/response cycle. On failure the outputs are
// left untouched, the error is logged, the user is alerted, and the error
// is returned.
func (f *Form) Submit(ctx context.Context) (err error) {
	req := models.ProcessVideoRequest{
		URL:      f.url.Value(),
		Question: f.question.Value(),
	}
	resp, err := f.processor.ProcessVideo(ctx, req)
	if err != nil {
		f.log.Error("error fetching data", slog.Any("error", err))
		f.alerter.Alert(AlertMessage)
		return err
	}
	f.summary.SetText(valueOrDefault(resp.Summary, FallbackSummary))
	f.answer.SetText(valueOrDefault(resp.Answer, FallbackAnswer))
	return nil
}

// Start runs Submit in the background. The returned channel receives the
// result once the request settles. Concurrent submissions are not
// coordinated; whichever settles last determines the output text.
func (f *Form) Start(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- f.Submit(ctx)
	}()
	return done
}

func valueOrDefault(v, d string) string {
	if v == "" {
		return d
	}
	return v
}
