package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/a-h/jsonapi"
	"github.com/a-h/videoqa/models"
)

// DefaultBaseURL is the address of a locally running videoqa server.
const DefaultBaseURL = "http://127.0.0.1:5000"

var (
	ErrTransport = errors.New("transport failure")
	ErrDecode    = errors.New("decode failure")
)

// StatusError is returned when the server responds with a status outside
// of the 2xx range.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d, message: %s", e.Status, e.Body)
}

type Failure int

const (
	FailureNone Failure = iota
	FailureStatus
	FailureTransport
	FailureDecode
	FailureUnknown
)

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureStatus:
		return "status"
	case FailureTransport:
		return "transport"
	case FailureDecode:
		return "decode"
	}
	return "unknown"
}

// Classify returns the kind of failure an error returned by the client
// represents.
func Classify(err error) Failure {
	if err == nil {
		return FailureNone
	}
	var se *StatusError
	switch {
	case errors.As(err, &se):
		return FailureStatus
	case errors.Is(err, ErrTransport):
		return FailureTransport
	case errors.Is(err, ErrDecode):
		return FailureDecode
	}
	return FailureUnknown
}

func New(baseURL, apiKey string) Client {
	return Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
	}
}

type Client struct {
	baseURL string
	apiKey  string
}

func (c Client) ProcessVideo(ctx context.Context, req models.ProcessVideoRequest) (resp models.ProcessVideoResponse, err error) {
	url, err := jsonapi.URL(c.baseURL).Path("process_video").String()
	if err != nil {
		return resp, err
	}
	if c.apiKey != "" {
		resp, err = jsonapi.Post[models.ProcessVideoRequest, models.ProcessVideoResponse](ctx, url, req, jsonapi.WithRequestHeader("Authorization", "Bearer "+c.apiKey))
	} else {
		resp, err = jsonapi.Post[models.ProcessVideoRequest, models.ProcessVideoResponse](ctx, url, req)
	}
	return resp, classifyError(err)
}

func classifyError(err error) error {
	if err == nil {
		return nil
	}
	var ise jsonapi.InvalidStatusError
	if errors.As(err, &ise) {
		return &StatusError{Status: ise.Status, Body: ise.Body}
	}
	var ije jsonapi.InvalidJSONError
	if errors.As(err, &ije) {
		return fmt.Errorf("%w: failed to decode response: %w", ErrDecode, err)
	}
	return fmt.Errorf("%w: failed to perform HTTP request: %w", ErrTransport, err)
}
