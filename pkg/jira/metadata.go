package jira

import (
	"fmt"

	"github.com/nlorusso/jql-agent/pkg/client"
	"github.com/nlorusso/jql-agent/pkg/models"
)

// MetadataService fetches instance-wide metadata used to build the JQL
// authoring context: projects, issue types, statuses, priorities and fields.
type MetadataService struct {
	client *client.Client
}

// NewMetadataService creates a new MetadataService
func NewMetadataService(c *client.Client) *MetadataService {
	return &MetadataService{client: c}
}

// Projects retrieves all projects visible to the configured user
func (s *MetadataService) Projects() ([]models.Project, error) {
	var projects []models.Project
	if err := s.get("/project", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// IssueTypes retrieves all issue types defined on the instance
func (s *MetadataService) IssueTypes() ([]models.IssueType, error) {
	var issueTypes []models.IssueType
	if err := s.get("/issuetype", &issueTypes); err != nil {
		return nil, err
	}
	return issueTypes, nil
}

// Statuses retrieves all workflow statuses
func (s *MetadataService) Statuses() ([]models.Status, error) {
	var statuses []models.Status
	if err := s.get("/status", &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

// Priorities retrieves all priority levels
func (s *MetadataService) Priorities() ([]models.Priority, error) {
	var priorities []models.Priority
	if err := s.get("/priority", &priorities); err != nil {
		return nil, err
	}
	return priorities, nil
}

// Fields retrieves all fields, standard and custom
func (s *MetadataService) Fields() ([]models.Field, error) {
	var fields []models.Field
	if err := s.get("/field", &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// get performs a GET request and decodes the result into out
func (s *MetadataService) get(path string, out interface{}) error {
	var errorResp models.ErrorResponse

	resp, err := s.client.GetRequest().
		SetResult(out).
		SetError(&errorResp).
		Get(path)

	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", path, err)
	}

	if resp.IsError() {
		return fmt.Errorf("API error: %s", formatErrorResponse(&errorResp))
	}

	return nil
}

// formatErrorResponse renders a Jira error payload as a single line
func formatErrorResponse(errorResp *models.ErrorResponse) string {
	if errorResp == nil {
		return "unknown error"
	}
	if len(errorResp.ErrorMessages) > 0 {
		return errorResp.ErrorMessages[0]
	}
	for field, msg := range errorResp.Errors {
		return fmt.Sprintf("%s: %s", field, msg)
	}
	return "unknown error"
}
