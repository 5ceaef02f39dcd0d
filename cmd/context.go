package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nlorusso/jql-agent/pkg/contextgen"
)

var (
	contextOutput     string
	contextNoProgress bool
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Generate the JQL context document from live Jira metadata",
	Long: `Fetch projects, issue types, statuses, priorities, searchable fields
and sample issues from the configured Jira instance, and write a context
document the agent uses as its system instruction.`,
	RunE: runContext,
}

func init() {
	rootCmd.AddCommand(contextCmd)
	contextCmd.Flags().StringVarP(&contextOutput, "output", "o", "", "output file (default: context_file from config)")
	contextCmd.Flags().BoolVar(&contextNoProgress, "no-progress", false, "disable the progress bar")
}

func runContext(cmd *cobra.Command, args []string) error {
	output := contextOutput
	if output == "" {
		output = cfg.ContextFile
	}

	generator := contextgen.New(jiraClient, logger, contextNoProgress || jsonOutput)

	doc, err := generator.Build()
	if err != nil {
		return fmt.Errorf("context generation failed: %w", err)
	}

	if err := os.WriteFile(output, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	fmt.Printf("Context document written to %s\n", output)
	return nil
}
