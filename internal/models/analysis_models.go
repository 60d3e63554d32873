package models

// Node is a named topic with the keyword triggers used for classification.
type Node struct {
	ID       string   `json:"id" dynamodbav:"id"`
	Name     string   `json:"name" dynamodbav:"name"`
	Keywords []string `json:"keywords" dynamodbav:"keywords"`
}

// Polarity categories attached to every result.
const (
	PolarityPositive = "positive"
	PolarityNeutral  = "neutral"
	PolarityNegative = "negative"
)

// KPIScores holds the six dashboard dimensions, each in [-1.0, +1.0].
type KPIScores struct {
	Trust       float64 `json:"trust"`
	Optimism    float64 `json:"optimism"`
	Frustration float64 `json:"frustration"`
	Clarity     float64 `json:"clarity"`
	Access      float64 `json:"access"`
	Fairness    float64 `json:"fairness"`
}

// NeutralKPIScores returns the stand-in KPI record used until an engine
// produces real per-dimension values.
func NeutralKPIScores() KPIScores {
	return KPIScores{
		Trust:       0.5,
		Optimism:    0.5,
		Frustration: 0.5,
		Clarity:     0.5,
		Access:      0.5,
		Fairness:    0.5,
	}
}

// Score is what a sentiment engine produces for one text, before the
// classifier attaches the matched node.
type Score struct {
	Polarity      string    `json:"polarity"`
	PolarityScore float64   `json:"polarityScore"`
	Confidence    float64   `json:"confidence"`
	KPIScores     KPIScores `json:"kpiScores"`
}

// SentimentResult is the per-text record returned to the dashboard.
type SentimentResult struct {
	Text          string    `json:"text"`
	NodeID        string    `json:"nodeId"`
	NodeName      string    `json:"nodeName"`
	Polarity      string    `json:"polarity"`
	PolarityScore float64   `json:"polarityScore"`
	KPIScores     KPIScores `json:"kpiScores"`
	Confidence    float64   `json:"confidence"`
}

// AnalyzeRequest is the analyze-sentiment request body.
type AnalyzeRequest struct {
	Texts []string `json:"texts"`
	Nodes []Node   `json:"nodes"`
}

// AnalyzeResponse is the success envelope.
type AnalyzeResponse struct {
	Results []SentimentResult `json:"results"`
}

// AnalyzeErrorResponse is the failure envelope. Results is always an empty
// array, never null, so the dashboard can render it unconditionally.
type AnalyzeErrorResponse struct {
	Error   string            `json:"error"`
	Results []SentimentResult `json:"results"`
}

// NewAnalyzeErrorResponse builds the failure envelope with a non-nil result
// slice.
func NewAnalyzeErrorResponse(msg string) AnalyzeErrorResponse {
	return AnalyzeErrorResponse{
		Error:   msg,
		Results: []SentimentResult{},
	}
}
