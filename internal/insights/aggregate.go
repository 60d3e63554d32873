package insights

import (
	"github.com/vennlabs/pulseboard/internal/models"
)

type nodeAccumulator struct {
	nodeName    string
	textCount   int
	sumPolarity float64
	sumKPI      models.KPIScores
	counts      models.PolarityCounts
}

// Aggregate rolls per-text results up into one NodeAnalysis per node.
// Nodes appear in the order their first result does, so dashboards render
// stably across refreshes.
func Aggregate(results []models.SentimentResult) []models.NodeAnalysis {
	accumulators := make(map[string]*nodeAccumulator)
	var order []string

	for _, r := range results {
		acc, ok := accumulators[r.NodeID]
		if !ok {
			acc = &nodeAccumulator{nodeName: r.NodeName}
			accumulators[r.NodeID] = acc
			order = append(order, r.NodeID)
		}

		acc.textCount++
		acc.sumPolarity += r.PolarityScore
		acc.sumKPI.Trust += r.KPIScores.Trust
		acc.sumKPI.Optimism += r.KPIScores.Optimism
		acc.sumKPI.Frustration += r.KPIScores.Frustration
		acc.sumKPI.Clarity += r.KPIScores.Clarity
		acc.sumKPI.Access += r.KPIScores.Access
		acc.sumKPI.Fairness += r.KPIScores.Fairness

		switch r.Polarity {
		case models.PolarityPositive:
			acc.counts.Positive++
		case models.PolarityNegative:
			acc.counts.Negative++
		default:
			acc.counts.Neutral++
		}
	}

	analyses := make([]models.NodeAnalysis, 0, len(order))
	for _, nodeID := range order {
		acc := accumulators[nodeID]
		n := float64(acc.textCount)
		analyses = append(analyses, models.NodeAnalysis{
			NodeID:           nodeID,
			NodeName:         acc.nodeName,
			TextCount:        acc.textCount,
			AvgPolarityScore: acc.sumPolarity / n,
			AvgKPIScores: models.KPIScores{
				Trust:       acc.sumKPI.Trust / n,
				Optimism:    acc.sumKPI.Optimism / n,
				Frustration: acc.sumKPI.Frustration / n,
				Clarity:     acc.sumKPI.Clarity / n,
				Access:      acc.sumKPI.Access / n,
				Fairness:    acc.sumKPI.Fairness / n,
			},
			PolarityCounts: acc.counts,
		})
	}
	return analyses
}
