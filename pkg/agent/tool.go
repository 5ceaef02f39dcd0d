package agent

import (
	"github.com/nlorusso/jql-agent/pkg/client"
	"github.com/nlorusso/jql-agent/pkg/config"
	"github.com/nlorusso/jql-agent/pkg/jira"
	"github.com/nlorusso/jql-agent/pkg/optimize"
	"github.com/nlorusso/jql-agent/pkg/render"
	"go.uber.org/zap"
)

// QueryTool executes JQL queries and reshapes the results for model
// consumption. All failures come back as data: the orchestration layer never
// sees an error from this boundary.
type QueryTool struct {
	cfg    *config.Config
	search *jira.SearchService
	log    *zap.Logger
}

// NewQueryTool creates the tool bound to a Jira client.
func NewQueryTool(cfg *config.Config, c *client.Client, log *zap.Logger) *QueryTool {
	if log == nil {
		log = zap.NewNop()
	}
	return &QueryTool{
		cfg:    cfg,
		search: jira.NewSearchService(c),
		log:    log,
	}
}

// Run executes jql and returns either the rendered results or a structured
// error object with the fields error, status_code (optional), jql_sent and
// details (optional).
func (t *QueryTool) Run(jql string, maxResults, startAt int) map[string]interface{} {
	if !t.cfg.HasJiraCredentials() {
		return map[string]interface{}{
			"error": "Jira API credentials are not configured in the environment.",
		}
	}

	raw, qerr := t.search.SearchRaw(jql, maxResults, startAt)
	if qerr != nil {
		t.log.Warn("jql query failed",
			zap.String("jql", jql),
			zap.Int("status_code", qerr.StatusCode),
		)
		return qerr.ToMap()
	}

	optimized, err := optimize.Optimize(raw)
	if err != nil {
		return map[string]interface{}{
			"error":    err.Error(),
			"jql_sent": jql,
		}
	}

	queryDetails, _ := optimized.Get("query_details")

	t.log.Debug("jql query succeeded", zap.String("jql", jql))

	return map[string]interface{}{
		"results_markdown": render.ToMarkdown(optimized),
		"query_details":    queryDetails,
	}
}
