package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/a-h/videoqa/client"
	"github.com/a-h/videoqa/form"
)

type AskCommand struct {
	URL          string `help:"The URL of the video." required:""`
	Question     string `help:"The question to ask about the video." default:""`
	ServerURL    string `help:"The URL of the videoqa server." env:"VIDEOQA_SERVER_URL" default:"http://127.0.0.1:5000"`
	ServerAPIKey string `help:"The API key for the videoqa server." env:"VIDEOQA_SERVER_API_KEY" default:""`
	LogLevel     string `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func (c AskCommand) Run(ctx context.Context) (err error) {
	return c.run(ctx, os.Stdout, os.Stderr)
}

func (c AskCommand) run(ctx context.Context, stdout, stderr io.Writer) (err error) {
	log := newLogger(stderr, c.LogLevel)
	var summary, answer form.Text
	alert := form.AlerterFunc(func(msg string) {
		fmt.Fprintln(stderr, msg)
	})
	f := form.New(log, client.New(c.ServerURL, c.ServerAPIKey), form.StaticField(c.URL), form.StaticField(c.Question), &summary, &answer, alert)
	if err = f.Submit(ctx); err != nil {
		return fmt.Errorf("%s request failed: %w", client.Classify(err), err)
	}
	fmt.Fprintf(stdout, "Summary:\n%s\n\nAnswer:\n%s\n", summary.Value(), answer.Value())
	return nil
}
