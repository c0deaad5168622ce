package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/videoqa/auth"
	"github.com/a-h/videoqa/db"
	processvideopost "github.com/a-h/videoqa/handlers/processvideo/post"
	"github.com/a-h/videoqa/summarize"
	"github.com/a-h/videoqa/transcript"
	"github.com/rs/cors"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

type ServeCommand struct {
	OllamaURL      string `help:"The URL of the Ollama server." env:"OLLAMA_URL" default:"http://127.0.0.1:11434/"`
	ChatModel      string `help:"The model used to summarise transcripts and answer questions." env:"CHAT_MODEL" default:"mistral-nemo"`
	NoModel        bool   `help:"Run without a model. Summaries report that the model is unavailable." env:"NO_MODEL" default:"false"`
	MaxInputChars  int    `help:"The maximum number of transcript characters sent to the model." env:"MAX_INPUT_CHARS" default:"16384"`
	TranscriptURL  string `help:"The URL of the caption service." env:"TRANSCRIPT_URL" default:"https://www.youtube.com/api/timedtext"`
	TranscriptLang string `help:"The caption language to fetch." env:"TRANSCRIPT_LANG" default:"en"`
	RqliteURL      string `help:"The URL of an rqlite server used to record processed videos. History is disabled if empty." env:"RQLITE_URL" default:""`
	ListenAddr     string `help:"The address to listen on." env:"LISTEN_ADDR" default:"127.0.0.1:5000"`
	TLSCertFile    string `help:"The TLS certificate file." env:"TLS_CERT_FILE" default:""`
	TLSKeyFile     string `help:"The TLS key file." env:"TLS_KEY_FILE" default:""`
	APIKeysFile    string `help:"A YAML file mapping API keys to usernames. Authentication is disabled if empty." env:"API_KEYS_FILE" default:""`
	LogLevel       string `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func (c ServeCommand) Run(ctx context.Context) (err error) {
	log := getLogger(c.LogLevel)

	var recorder processvideopost.Recorder
	if c.RqliteURL != "" {
		log.Info("connecting to history database")
		conn, err := db.Open(c.RqliteURL)
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer conn.Close()
		recorder = db.New(conn)
	}

	httpClient := &http.Client{}
	llmc := c.newModel(log, httpClient)

	transcripts := transcript.New(log, httpClient, c.TranscriptURL, c.TranscriptLang)
	summarizer := summarize.New(llmc, c.MaxInputChars)

	mux := http.NewServeMux()
	mux.Handle("POST /process_video", processvideopost.New(log, transcripts, summarizer, recorder))

	var handler http.Handler = mux
	if c.APIKeysFile != "" {
		apiKeyToUserName, err := auth.LoadFromFile(c.APIKeysFile)
		if err != nil {
			return fmt.Errorf("failed to load API keys: %w", err)
		}
		log.Info("API key authentication enabled", slog.Int("keys", len(apiKeyToUserName)))
		handler = auth.New(apiKeyToUserName, handler)
	}
	handler = cors.AllowAll().Handler(handler)

	log.Info("Listening", slog.String("addr", c.ListenAddr))
	s := &http.Server{
		Addr:    c.ListenAddr,
		Handler: handler,
	}
	if c.TLSCertFile != "" && c.TLSKeyFile != "" {
		log.Info("Enabling TLS mode")
		var cert tls.Certificate
		cert, err = tls.LoadX509KeyPair(c.TLSCertFile, c.TLSKeyFile)
		if err != nil {
			return fmt.Errorf("failed to load cert: %w", err)
		}
		s.TLSConfig = &tls.Config{
			MinVersion:   tls.VersionTLS12,
			Certificates: []tls.Certificate{cert},
		}
		return s.ListenAndServeTLS(c.TLSCertFile, c.TLSKeyFile)
	}
	return s.ListenAndServe()
}

// newModel returns nil when no model should be used, so that summaries
// fall back to reporting that the model is unavailable.
func (c ServeCommand) newModel(log *slog.Logger, httpClient *http.Client) llms.Model {
	if c.NoModel {
		log.Warn("running without a model")
		return nil
	}
	log.Info("creating LLM client", slog.String("model", c.ChatModel))
	llmc, err := ollama.New(
		ollama.WithModel(c.ChatModel),
		ollama.WithHTTPClient(httpClient),
		ollama.WithServerURL(c.OllamaURL))
	if err != nil {
		log.Warn("failed to create LLM, running without a model", slog.Any("error", err))
		return nil
	}
	return llmc
}
