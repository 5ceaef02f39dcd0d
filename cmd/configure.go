package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nlorusso/jql-agent/pkg/client"
	"github.com/nlorusso/jql-agent/pkg/config"
)

// configureCmd represents the configure command
var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Configure Jira and model credentials",
	Long: `Interactive setup wizard. You will need:
- Your Jira base URL (e.g. https://yourcompany.atlassian.net)
- Your email address
- An API token (create one at https://id.atlassian.com/manage/api-tokens)
- Optionally, a Gemini API key for the ask/prompt commands`,
	RunE: runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== jqla configuration ===")
	fmt.Println()

	baseURL, err := promptLine(reader, "Jira base URL (e.g. https://yourcompany.atlassian.net): ")
	if err != nil {
		return err
	}
	if baseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	email, err := promptLine(reader, "Email address: ")
	if err != nil {
		return err
	}
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	fmt.Println("API token (create one at https://id.atlassian.com/manage/api-tokens):")
	apiToken, err := promptLine(reader, "> ")
	if err != nil {
		return err
	}
	if apiToken == "" {
		return fmt.Errorf("API token cannot be empty")
	}

	geminiKey, err := promptLine(reader, "Gemini API key (optional, press Enter to skip): ")
	if err != nil {
		return err
	}

	newCfg := &config.Config{
		BaseURL:      baseURL,
		Email:        email,
		APIToken:     apiToken,
		GeminiAPIKey: geminiKey,
	}

	// Verify the Jira credentials before saving
	fmt.Println()
	fmt.Println("Validating credentials...")
	user, err := client.New(newCfg).ValidateCredentials()
	if err != nil {
		return fmt.Errorf("credential validation failed: %w", err)
	}
	fmt.Printf("Authenticated as %s\n", user.DisplayName)

	if err := newCfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configPath, _ := config.GetConfigPath()
	fmt.Printf("Configuration saved to %s\n", configPath)
	return nil
}

func promptLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
