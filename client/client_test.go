package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/a-h/videoqa/models"
	"github.com/google/go-cmp/cmp"
)

type capturedRequest struct {
	Method        string
	Path          string
	ContentType   string
	Authorization string
	Body          string
}

type recorder struct {
	m        sync.Mutex
	requests []capturedRequest
}

func (r *recorder) Requests() []capturedRequest {
	r.m.Lock()
	defer r.m.Unlock()
	return slices.Clone(r.requests)
}

func newServer(t *testing.T, status int, body string) (*httptest.Server, *recorder) {
	t.Helper()
	captured := &recorder{}
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed to read body: %v", err)
		}
		captured.m.Lock()
		defer captured.m.Unlock()
		captured.requests = append(captured.requests, capturedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			ContentType:   r.Header.Get("Content-Type"),
			Authorization: r.Header.Get("Authorization"),
			Body:          string(b),
		})
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(s.Close)
	return s, captured
}

func TestProcessVideoRequest(t *testing.T) {
	s, captured := newServer(t, http.StatusOK, `{"summary":"S","answer":"A"}`)

	c := New(s.URL, "")
	_, err := c.ProcessVideo(context.Background(), models.ProcessVideoRequest{
		URL:      "http://example.com",
		Question: "What happens?",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []capturedRequest{
		{
			Method:      http.MethodPost,
			Path:        "/process_video",
			ContentType: "application/json",
			Body:        `{"url":"http://example.com","question":"What happens?"}`,
		},
	}
	if diff := cmp.Diff(expected, captured.Requests()); diff != "" {
		t.Error(diff)
	}
}

func TestProcessVideoSendsEmptyValues(t *testing.T) {
	s, captured := newServer(t, http.StatusOK, `{}`)

	c := New(s.URL+"/", "")
	if _, err := c.ProcessVideo(context.Background(), models.ProcessVideoRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	requests := captured.Requests()
	if len(requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(requests))
	}
	got := requests[0]
	if got.Path != "/process_video" {
		t.Errorf("expected path /process_video, got %q", got.Path)
	}
	var body map[string]string
	if err := json.Unmarshal([]byte(got.Body), &body); err != nil {
		t.Fatalf("failed to unmarshal body: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"url": "", "question": ""}, body); diff != "" {
		t.Error(diff)
	}
}

func TestProcessVideoAPIKey(t *testing.T) {
	s, captured := newServer(t, http.StatusOK, `{}`)

	c := New(s.URL, "secret")
	if _, err := c.ProcessVideo(context.Background(), models.ProcessVideoRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auth := captured.Requests()[0].Authorization; auth != "Bearer secret" {
		t.Errorf("expected bearer token, got %q", auth)
	}
}

func TestProcessVideoResponses(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		body            string
		expected        models.ProcessVideoResponse
		expectedFailure Failure
		expectedInError []string
	}{
		{
			name:     "both fields are returned",
			status:   http.StatusOK,
			body:     `{"summary":"S","answer":"A"}`,
			expected: models.ProcessVideoResponse{Summary: "S", Answer: "A"},
		},
		{
			name:     "missing fields are left empty",
			status:   http.StatusOK,
			body:     `{}`,
			expected: models.ProcessVideoResponse{},
		},
		{
			name:     "unknown fields are ignored",
			status:   http.StatusCreated,
			body:     `{"summary":"S","extra":123}`,
			expected: models.ProcessVideoResponse{Summary: "S"},
		},
		{
			name:            "non-2xx statuses include the status and body",
			status:          http.StatusInternalServerError,
			body:            "boom",
			expectedFailure: FailureStatus,
			expectedInError: []string{"500", "boom"},
		},
		{
			name:            "a JSON body with an error status is still a failure",
			status:          http.StatusBadRequest,
			body:            `{"summary":"S"}`,
			expectedFailure: FailureStatus,
			expectedInError: []string{"400"},
		},
		{
			name:            "invalid JSON is a decode failure",
			status:          http.StatusOK,
			body:            "<html>",
			expectedFailure: FailureDecode,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newServer(t, tt.status, tt.body)
			c := New(s.URL, "")

			actual, err := c.ProcessVideo(context.Background(), models.ProcessVideoRequest{URL: "u", Question: "q"})
			if failure := Classify(err); failure != tt.expectedFailure {
				t.Fatalf("expected failure %v, got %v (%v)", tt.expectedFailure, failure, err)
			}
			for _, s := range tt.expectedInError {
				if !strings.Contains(err.Error(), s) {
					t.Errorf("expected error %q to contain %q", err.Error(), s)
				}
			}
			if diff := cmp.Diff(tt.expected, actual); diff != "" {
				t.Error(diff)
			}
		})
	}
}

func TestProcessVideoStatusErrorDetails(t *testing.T) {
	s, _ := newServer(t, http.StatusInternalServerError, "boom")
	c := New(s.URL, "")

	_, err := c.ProcessVideo(context.Background(), models.ProcessVideoRequest{})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected a StatusError, got %T: %v", err, err)
	}
	if se.Status != http.StatusInternalServerError || se.Body != "boom" {
		t.Errorf("unexpected status error: %+v", se)
	}
}

func TestProcessVideoConnectionRefused(t *testing.T) {
	s := httptest.NewServer(http.NotFoundHandler())
	url := s.URL
	s.Close()

	c := New(url, "")
	_, err := c.ProcessVideo(context.Background(), models.ProcessVideoRequest{})
	if Classify(err) != FailureTransport {
		t.Fatalf("expected transport failure, got %v", err)
	}
	if !errors.Is(err, ErrTransport) {
		t.Errorf("expected error to wrap ErrTransport")
	}
}

func TestProcessVideoInvalidBaseURL(t *testing.T) {
	c := New("", "")
	_, err := c.ProcessVideo(context.Background(), models.ProcessVideoRequest{})
	if err == nil {
		t.Fatal("expected error for empty base URL")
	}
	if Classify(err) != FailureUnknown {
		t.Errorf("expected unknown failure, got %v", Classify(err))
	}
}

func TestProcessVideoWithoutAPIKeyOmitsAuthorization(t *testing.T) {
	s, captured := newServer(t, http.StatusOK, `{}`)

	c := New(s.URL, "")
	if _, err := c.ProcessVideo(context.Background(), models.ProcessVideoRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auth := captured.Requests()[0].Authorization; auth != "" {
		t.Errorf("expected no authorization header, got %q", auth)
	}
}

func TestProcessVideoDecodeFailureWrapsErrDecode(t *testing.T) {
	s, _ := newServer(t, http.StatusOK, "<html>")
	c := New(s.URL, "")

	_, err := c.ProcessVideo(context.Background(), models.ProcessVideoRequest{})
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected error to wrap ErrDecode, got %v", err)
	}
	if errors.Is(err, ErrTransport) {
		t.Errorf("decode failures must not be reported as transport failures")
	}
	var se *StatusError
	if errors.As(err, &se) {
		t.Errorf("decode failures must not be reported as status errors")
	}
}
