package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nlorusso/jql-agent/pkg/contextgen"
)

var (
	promptContextFile string
	promptOutput      string
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Refine the context document into a full system prompt",
	Long: `Send the generated context document through the configured model and
write a complete system prompt for the agent. Run 'jqla context' first.`,
	RunE: runPrompt,
}

func init() {
	rootCmd.AddCommand(promptCmd)
	promptCmd.Flags().StringVar(&promptContextFile, "context", "", "context document to refine (default: context_file from config)")
	promptCmd.Flags().StringVarP(&promptOutput, "output", "o", "jira_prompt.txt", "output file for the generated prompt")
}

func runPrompt(cmd *cobra.Command, args []string) error {
	contextPath := promptContextFile
	if contextPath == "" {
		contextPath = cfg.ContextFile
	}

	contextText, err := os.ReadFile(contextPath)
	if err != nil {
		return fmt.Errorf("failed to read context document %s (run 'jqla context' first): %w", contextPath, err)
	}

	prompt, err := contextgen.RefinePrompt(cmd.Context(), cfg, string(contextText))
	if err != nil {
		return err
	}

	if err := os.WriteFile(promptOutput, []byte(prompt), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", promptOutput, err)
	}

	fmt.Printf("System prompt written to %s\n", promptOutput)
	return nil
}
