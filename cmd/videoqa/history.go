package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/a-h/videoqa/db"
)

type HistoryCommand struct {
	RqliteURL string `help:"The URL of the rqlite server." env:"RQLITE_URL" default:"http://localhost:4001"`
	Limit     int    `help:"The maximum number of videos to list." default:"10"`
	Pretty    bool   `help:"Pretty print the JSON output." default:"true"`
	LogLevel  string `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

type historyEntry struct {
	ID        string    `json:"id"`
	User      string    `json:"user,omitempty"`
	VideoID   string    `json:"videoId"`
	URL       string    `json:"url"`
	Question  string    `json:"question,omitempty"`
	Summary   string    `json:"summary"`
	Answer    string    `json:"answer,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c HistoryCommand) Run(ctx context.Context) (err error) {
	conn, err := db.Open(c.RqliteURL)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer conn.Close()
	videos, err := db.New(conn).VideoList(ctx, c.Limit)
	if err != nil {
		return fmt.Errorf("failed to list videos: %w", err)
	}
	return writeHistory(os.Stdout, videos, c.Pretty)
}

func writeHistory(w io.Writer, videos []db.Video, pretty bool) error {
	entries := make([]historyEntry, len(videos))
	for i, v := range videos {
		entries[i] = historyEntry{
			ID:        v.ID,
			User:      v.User,
			VideoID:   v.VideoID,
			URL:       v.URL,
			Question:  v.Question,
			Summary:   v.Summary,
			Answer:    v.Answer,
			CreatedAt: v.CreatedAt,
		}
	}
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(entries)
}
