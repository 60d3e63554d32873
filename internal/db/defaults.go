package db

import (
	"time"

	"github.com/vennlabs/pulseboard/internal/models"
)

// DefaultProject ships with the dashboard so a fresh install can analyze
// text before anyone configures their own node layout. The first node is the
// catch-all bucket for unmatched text.
func DefaultProject() models.Project {
	return models.Project{
		ID:          "community-pulse",
		Name:        "Community Pulse",
		Description: "General-purpose layout for public service feedback",
		Nodes: []models.Node{
			{
				ID:   "general",
				Name: "General",
				Keywords: []string{
					"overall",
					"in general",
					"experience",
				},
			},
			{
				ID:   "services",
				Name: "Services",
				Keywords: []string{
					"service",
					"appointment",
					"application",
					"permit",
					"form",
				},
			},
			{
				ID:   "staff",
				Name: "Staff",
				Keywords: []string{
					"staff",
					"agent",
					"employee",
					"representative",
					"clerk",
				},
			},
			{
				ID:   "wait-times",
				Name: "Wait Times",
				Keywords: []string{
					"wait",
					"queue",
					"delay",
					"slow",
					"hours",
				},
			},
			{
				ID:   "communication",
				Name: "Communication",
				Keywords: []string{
					"email",
					"phone",
					"call",
					"response",
					"update",
					"notified",
				},
			},
			{
				ID:   "accessibility",
				Name: "Accessibility",
				Keywords: []string{
					"website",
					"online",
					"login",
					"accessible",
					"parking",
					"location",
				},
			},
		},
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}
