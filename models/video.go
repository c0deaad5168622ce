package models

type ProcessVideoRequest struct {
	// URL of the video to process.
	URL string `json:"url"`

	// Question to answer from the video transcript. May be empty.
	Question string `json:"question"`
}

type ProcessVideoResponse struct {
	Summary string `json:"summary"`
	Answer  string `json:"answer,omitempty"`
}
