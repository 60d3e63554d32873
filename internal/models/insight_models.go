package models

// PolarityCounts is the per-node histogram over the three polarity categories.
type PolarityCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// NodeAnalysis is the per-node aggregate the dashboard's insight views render.
// It is derived downstream from a collection of SentimentResult and never
// computed inside the classifier.
type NodeAnalysis struct {
	NodeID           string         `json:"nodeId"`
	NodeName         string         `json:"nodeName"`
	TextCount        int            `json:"textCount"`
	AvgPolarityScore float64        `json:"avgPolarityScore"`
	AvgKPIScores     KPIScores      `json:"avgKpiScores"`
	PolarityCounts   PolarityCounts `json:"polarityCounts"`
}

// InsightsRequest carries previously returned results back for aggregation.
type InsightsRequest struct {
	Results []SentimentResult `json:"results"`
}

// InsightsResponse is the aggregation envelope.
type InsightsResponse struct {
	Nodes []NodeAnalysis `json:"nodes"`
}
