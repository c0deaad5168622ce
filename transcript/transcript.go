// Package transcript downloads the captions of a YouTube video.
package transcript

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const DefaultBaseURL = "https://www.youtube.com/api/timedtext"

var ErrNoTranscript = errors.New("transcript: no captions available")

func New(log *slog.Logger, client *http.Client, baseURL, language string) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{
		log:      log,
		client:   client,
		baseURL:  baseURL,
		language: language,
	}
}

type Fetcher struct {
	log      *slog.Logger
	client   *http.Client
	baseURL  string
	language string
}

func (f *Fetcher) Fetch(ctx context.Context, videoID string) (transcript string, err error) {
	u, err := url.Parse(f.baseURL)
	if err != nil {
		return "", fmt.Errorf("transcript: failed to parse base URL: %w", err)
	}
	q := u.Query()
	q.Set("v", videoID)
	q.Set("lang", f.language)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("transcript: failed to create request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcript: failed to fetch captions: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcript: unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("transcript: failed to parse captions: %w", err)
	}
	var lines []string
	doc.Find("text").Each(func(_ int, s *goquery.Selection) {
		// Caption text is escaped twice, e.g. &amp;#39;
		line := strings.TrimSpace(html.UnescapeString(s.Text()))
		if line != "" {
			lines = append(lines, line)
		}
	})
	if len(lines) == 0 {
		return "", ErrNoTranscript
	}
	f.log.Debug("fetched transcript", slog.String("videoID", videoID), slog.Int("lines", len(lines)))
	return strings.Join(lines, " "), nil
}
