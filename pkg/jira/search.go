package jira

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nlorusso/jql-agent/pkg/client"
)

// SearchService handles issue search operations
type SearchService struct {
	client *client.Client
}

// NewSearchService creates a new search service
func NewSearchService(client *client.Client) *SearchService {
	return &SearchService{client: client}
}

// SearchRequest represents a JQL search request
type SearchRequest struct {
	JQL        string   `json:"jql"`
	StartAt    int      `json:"startAt"`
	MaxResults int      `json:"maxResults"`
	Fields     []string `json:"fields"`
}

// DefaultMaxResults is the page size used when the caller passes zero.
const DefaultMaxResults = 50

// QueryError describes a failed JQL query in a form that can be handed back
// to a language model as data. It echoes the query that was sent so the
// model can correct it.
type QueryError struct {
	Message    string
	StatusCode int
	JQL        string
	Details    interface{}
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return e.Message
}

// ToMap converts the error to the tool-facing error object. Optional fields
// are omitted when unset.
func (e *QueryError) ToMap() map[string]interface{} {
	out := map[string]interface{}{
		"error":    e.Message,
		"jql_sent": e.JQL,
	}
	if e.StatusCode != 0 {
		out["status_code"] = e.StatusCode
	}
	if e.Details != nil {
		out["details"] = e.Details
	}
	return out
}

// SearchRaw executes a JQL query and returns the raw search envelope as a
// generic map, so dynamically-named custom fields survive decoding. All
// available fields are requested.
//
// Transport failures and non-2xx responses are converted to a *QueryError
// rather than a plain error; nothing here panics on bad remote data.
func (s *SearchService) SearchRaw(jql string, maxResults, startAt int) (map[string]interface{}, *QueryError) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	req := SearchRequest{
		JQL:        jql,
		StartAt:    startAt,
		MaxResults: maxResults,
		Fields:     []string{"*all"},
	}

	var result map[string]interface{}

	resp, err := s.client.PostRequest().
		SetBody(req).
		SetResult(&result).
		Post("/search")

	if err != nil {
		return nil, &QueryError{
			Message: fmt.Sprintf("A connection error occurred: %v", err),
			JQL:     jql,
		}
	}

	if resp.IsError() {
		return nil, &QueryError{
			Message:    "Failed to execute JQL query in Jira.",
			StatusCode: resp.StatusCode(),
			JQL:        jql,
			Details:    errorDetails(resp.Body()),
		}
	}

	return result, nil
}

// errorDetails decodes the remote error body as JSON, falling back to the
// raw text when it is not JSON.
func errorDetails(body []byte) interface{} {
	var decoded interface{}
	if err := json.Unmarshal(body, &decoded); err == nil {
		return decoded
	}
	return strings.TrimSpace(string(body))
}
