package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

type CLI struct {
	Ask     AskCommand     `cmd:"ask" help:"Summarise a video and answer a question about it."`
	TUI     TUICommand     `cmd:"tui" help:"Open the interactive video summary form."`
	Serve   ServeCommand   `cmd:"serve" help:"Start the video processing server."`
	History HistoryCommand `cmd:"history" help:"List recently processed videos."`
	Version VersionCommand `cmd:"version" help:"Print the version of videoqa."`
}

func main() {
	var cli CLI
	ctx := context.Background()
	kctx := kong.Parse(&cli, kong.UsageOnError(), kong.BindTo(ctx, (*context.Context)(nil)))
	if err := kctx.Run(); err != nil {
		log := getLogger("error")
		log.Error("error", slog.Any("error", err))
		os.Exit(1)
	}
}

func getLogger(level string) *slog.Logger {
	return newLogger(os.Stderr, level)
}

func newLogger(w io.Writer, level string) *slog.Logger {
	ll := slog.LevelInfo
	switch level {
	case "debug":
		ll = slog.LevelDebug
	case "info":
		ll = slog.LevelInfo
	case "warn":
		ll = slog.LevelWarn
	case "error":
		ll = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ll,
	}))
}
