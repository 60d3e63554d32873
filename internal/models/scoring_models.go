package models

// ScoreBatchRequest is the payload sent to an external scoring service by the
// remote engine.
type ScoreBatchRequest struct {
	Texts []string `json:"texts"`
}

// ScoreBatchResponse is the external scoring service's reply; scores are
// aligned by index with the request texts.
type ScoreBatchResponse struct {
	Scores []Score `json:"scores"`
}
