package post

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/respond"
	"github.com/a-h/videoqa/auth"
	"github.com/a-h/videoqa/db"
	"github.com/a-h/videoqa/models"
	"github.com/a-h/videoqa/video"
)

const UnableToAnswer = "Unable to answer the question."

type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
	Answer(ctx context.Context, transcript, question string) (string, error)
}

type Recorder interface {
	VideoPut(ctx context.Context, v db.Video) (id string, err error)
}

// New creates the handler. The recorder is optional.
func New(log *slog.Logger, transcripts TranscriptFetcher, summarizer Summarizer, recorder Recorder) Handler {
	return Handler{
		log:         log,
		transcripts: transcripts,
		summarizer:  summarizer,
		recorder:    recorder,
		now:         time.Now,
	}
}

type Handler struct {
	log         *slog.Logger
	transcripts TranscriptFetcher
	summarizer  Summarizer
	recorder    Recorder
	now         func() time.Time
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.log.Info("processing video")

	var req models.ProcessVideoRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		h.log.Error("failed to decode body", slog.Any("error", err))
		respond.WithError(w, "failed to decode body", http.StatusBadRequest)
		return
	}

	if req.URL == "" {
		h.log.Error("no URL provided")
		respond.WithError(w, "URL is required", http.StatusBadRequest)
		return
	}

	videoID, ok := video.ExtractID(req.URL)
	if !ok {
		h.log.Error("invalid YouTube URL", slog.String("url", req.URL))
		respond.WithError(w, "Invalid YouTube URL", http.StatusBadRequest)
		return
	}
	h.log.Info("extracted video ID", slog.String("videoID", videoID))

	transcript, err := h.transcripts.Fetch(r.Context(), videoID)
	if err != nil {
		h.log.Error("failed to fetch transcript", slog.String("videoID", videoID), slog.Any("error", err))
		respond.WithError(w, "Unable to fetch or generate transcript", http.StatusBadRequest)
		return
	}
	cleaned := video.CleanText(transcript)
	var resp models.ProcessVideoResponse
	resp.Summary, err = h.summarizer.Summarize(r.Context(), cleaned)
	if err != nil {
		h.log.Error("failed to summarize transcript", slog.String("videoID", videoID), slog.Any("error", err))
		respond.WithError(w, "Unable to summarize transcript", http.StatusBadRequest)
		return
	}

	if req.Question != "" {
		h.log.Info("answering question", slog.String("question", req.Question))
		resp.Answer, err = h.summarizer.Answer(r.Context(), cleaned, req.Question)
		if err != nil {
			h.log.Error("failed to answer question", slog.Any("error", err))
			resp.Answer = UnableToAnswer
		}
	}

	h.record(r, videoID, req, resp)

	h.log.Info("video processed", slog.String("videoID", videoID))
	respond.WithJSON(w, resp, http.StatusOK)
}

func (h Handler) record(r *http.Request, videoID string, req models.ProcessVideoRequest, resp models.ProcessVideoResponse) {
	if h.recorder == nil {
		return
	}
	user, _ := auth.GetUser(r)
	id, err := h.recorder.VideoPut(r.Context(), db.Video{
		User:      user,
		VideoID:   videoID,
		URL:       req.URL,
		Question:  req.Question,
		Summary:   resp.Summary,
		Answer:    resp.Answer,
		CreatedAt: h.now(),
	})
	if err != nil {
		h.log.Error("failed to record video history", slog.String("videoID", videoID), slog.Any("error", err))
		return
	}
	h.log.Debug("recorded video history", slog.String("id", id))
}
