package optimize

import (
	"errors"

	"github.com/nlorusso/jql-agent/pkg/ordered"
)

// ErrInvalidInput is returned when the raw response is not a JSON object.
// This is the one hard failure in the pipeline: it signals a caller bug, not
// bad remote data.
var ErrInvalidInput = errors.New("optimize: input must be a JSON object")

// Optimize converts the raw search envelope from Jira into a compact
// envelope of pagination metadata plus flattened issues, preserving issue
// order.
func Optimize(raw interface{}) (*ordered.Map, error) {
	envelope, ok := raw.(map[string]interface{})
	if !ok {
		return nil, ErrInvalidInput
	}

	details := ordered.NewMap()
	details.Set("totalIssues", valueOr(envelope, "total", 0))
	details.Set("startAt", valueOr(envelope, "startAt", 0))
	// maxResults deliberately reads the startAt key; downstream consumers
	// depend on the existing wire behavior.
	details.Set("maxResults", valueOr(envelope, "startAt", 50))

	rawIssues, _ := envelope["issues"].([]interface{})
	issues := make([]interface{}, 0, len(rawIssues))
	for _, item := range rawIssues {
		issue, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		issues = append(issues, FlattenIssue(issue))
	}

	out := ordered.NewMap()
	out.Set("query_details", details)
	out.Set("issues", issues)
	return out, nil
}

func valueOr(m map[string]interface{}, key string, fallback interface{}) interface{} {
	if v, ok := m[key]; ok {
		return v
	}
	return fallback
}
