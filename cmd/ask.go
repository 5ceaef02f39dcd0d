package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nlorusso/jql-agent/pkg/agent"
)

var askCmd = &cobra.Command{
	Use:   "ask \"<question>\"",
	Short: "Ask a natural-language question about your Jira instance",
	Long: `Ask a question in plain language. The model generates a JQL query,
executes it through the query_jira tool, and answers from the results.

Examples:
  jqla ask "Which bugs in PROJ are still open?"
  jqla ask "What did Maria resolve last week?"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	system := loadSystemInstruction()
	tool := agent.NewQueryTool(cfg, jiraClient, logger)

	jiraAgent, err := agent.New(cmd.Context(), cfg, tool, system, logger)
	if err != nil {
		return err
	}

	answer, err := jiraAgent.Ask(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("failed to answer question: %w", err)
	}

	fmt.Println(answer)
	return nil
}

// loadSystemInstruction reads the generated context document if present.
// The agent works without it, just with weaker JQL.
func loadSystemInstruction() string {
	data, err := os.ReadFile(cfg.ContextFile)
	if err != nil {
		logger.Warn("context file not found; run 'jqla context' for better JQL generation",
			zap.String("path", cfg.ContextFile),
		)
		return ""
	}
	return string(data)
}
