package models

import "time"

// Project is a saved node-set definition the dashboard's project selector
// offers. Selecting a project only decides which nodes the UI sends with the
// next analyze request; the classifier itself is project-agnostic.
type Project struct {
	ID          string    `json:"id" dynamodbav:"project_id"`
	Name        string    `json:"name" dynamodbav:"name"`
	Description string    `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Nodes       []Node    `json:"nodes" dynamodbav:"nodes"`
	CreatedAt   time.Time `json:"createdAt" dynamodbav:"created_at,unixtime"`
}

// ProjectsResponse lists stored projects for the selector.
type ProjectsResponse struct {
	Projects []Project `json:"projects"`
}
