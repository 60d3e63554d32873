package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/vennlabs/pulseboard/internal/clients"
	"github.com/vennlabs/pulseboard/internal/models"
)

// PutProject stores a project configuration, overwriting any previous
// version with the same ID.
func PutProject(ctx context.Context, project models.Project) error {
	if dbClient == nil {
		dbClient = clients.GetDynamoDBClient()
	}

	item, err := attributevalue.MarshalMap(project)
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to marshal project: %w", err)
	}

	_, err = dbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(PROJECTS_TABLE_NAME),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to store project: %w", err)
	}

	slog.Info("[DynamoDB] Successfully stored project",
		slog.String("project_id", project.ID))
	return nil
}

// GetAllProjects returns every stored project, with the built-in default
// first. The default is always present even on a fresh table.
func GetAllProjects(ctx context.Context) ([]models.Project, error) {
	if dbClient == nil {
		dbClient = clients.GetDynamoDBClient()
	}

	projects := []models.Project{DefaultProject()}

	input := &dynamodb.ScanInput{
		TableName: aws.String(PROJECTS_TABLE_NAME),
	}

	paginator := dynamodb.NewScanPaginator(dbClient, input)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("[DynamoDB] Scan for projects failed: %w", err)
		}

		var page []models.Project
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			slog.Error("[DynamoDB] Unable to unmarshal current project page", slog.String("error", err.Error()))
			return nil, err
		}

		for _, p := range page {
			if p.ID == DefaultProject().ID {
				continue
			}
			projects = append(projects, p)
		}
	}

	slog.Info("[DynamoDB] Successfully retrieved projects", slog.Int("count", len(projects)))
	return projects, nil
}
