package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nlorusso/jql-agent/pkg/debug"
	"github.com/nlorusso/jql-agent/pkg/jira"
	"github.com/nlorusso/jql-agent/pkg/optimize"
	"github.com/nlorusso/jql-agent/pkg/render"
)

var (
	queryLimit     int
	queryStartAt   int
	queryDebugFile string
)

var queryCmd = &cobra.Command{
	Use:   "query \"<JQL>\"",
	Short: "Execute a JQL query and print the condensed results",
	Long: `Execute a raw JQL query, optimize the response, and print it as a
markdown-like block of key/value records.

Examples:
  jqla query "project = PROJ AND status = Open"
  jqla query "assignee = currentUser() ORDER BY updated DESC" --limit 20
  jqla query "project = PROJ" --json
  jqla query "project = PROJ" --debug-file out/raw.json`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().IntVar(&queryLimit, "limit", 50, "maximum number of results to return")
	queryCmd.Flags().IntVar(&queryStartAt, "start-at", 0, "index of the first issue to return")
	queryCmd.Flags().StringVar(&queryDebugFile, "debug-file", "", "save the raw Jira response to this file")
}

func runQuery(cmd *cobra.Command, args []string) error {
	jql := args[0]

	searchService := jira.NewSearchService(jiraClient)

	raw, qerr := searchService.SearchRaw(jql, queryLimit, queryStartAt)
	if qerr != nil {
		// Error objects are data at this boundary; print and signal failure.
		encoder := json.NewEncoder(os.Stderr)
		encoder.SetIndent("", "  ")
		_ = encoder.Encode(qerr.ToMap())
		return fmt.Errorf("query failed: %s", qerr.Message)
	}

	if queryDebugFile != "" {
		if err := debug.SaveJSON(queryDebugFile, raw); err != nil {
			logger.Warn("failed to save debug file", zap.Error(err))
		} else {
			logger.Info("raw response saved", zap.String("path", queryDebugFile))
		}
	}

	optimized, err := optimize.Optimize(raw)
	if err != nil {
		return fmt.Errorf("failed to optimize response: %w", err)
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(optimized)
	}

	fmt.Println(render.ToMarkdown(optimized))
	return nil
}
