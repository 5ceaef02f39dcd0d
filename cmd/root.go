package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nlorusso/jql-agent/pkg/client"
	"github.com/nlorusso/jql-agent/pkg/config"
)

var (
	// Global flags
	cfgFile    string
	jsonOutput bool
	verbose    bool

	// Global variables
	cfg        *config.Config
	jiraClient *client.Client
	logger     *zap.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jqla",
	Short: "A natural-language-to-JQL assistant for Jira Cloud",
	Long: `jqla answers questions about a Jira instance by generating JQL,
executing it against the Jira REST API, and condensing the results into a
compact, model-readable summary.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		// Commands that don't need a configured client
		switch cmd.Name() {
		case "configure", "version", "help":
			return nil
		}

		if cfgFile != "" {
			cfg, err = config.LoadFromPath(cfgFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w\nRun 'jqla configure' to set up your credentials", err)
		}

		jiraClient = client.New(cfg)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// newLogger builds the process logger; --verbose switches to the human
// readable development encoder with debug level enabled.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return zapCfg.Build()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// Exit codes:
//   - 0: Success
//   - 1: Authentication failure
//   - 2: Validation error
//   - 3: API error
//   - 4: Configuration error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type
func getExitCode(err error) int {
	errMsg := err.Error()

	if containsAny(errMsg, []string{"authentication", "auth", "credentials", "unauthorized", "401"}) {
		return 1 // Auth failure
	}

	if containsAny(errMsg, []string{"validation", "invalid", "required field", "400"}) {
		return 2 // Validation error
	}

	if containsAny(errMsg, []string{"API error", "500", "502", "503", "504"}) {
		return 3 // API error
	}

	if containsAny(errMsg, []string{"config", "configuration"}) {
		return 4 // Config error
	}

	return 1
}

// containsAny checks if the string contains any of the substrings
func containsAny(s string, substrs []string) bool {
	for _, substr := range substrs {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (default ~/.jqla/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output machine-readable JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
