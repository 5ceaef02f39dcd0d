package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// Overridden at build time via -ldflags.
var (
	version   = "0.1.0"
	buildDate = "unknown"
	gitCommit = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if jsonOutput {
			out, _ := json.Marshal(map[string]string{
				"version":   version,
				"buildDate": buildDate,
				"gitCommit": gitCommit,
			})
			fmt.Println(string(out))
			return
		}
		fmt.Printf("jqla version %s (built %s, commit %s)\n", version, buildDate, gitCommit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
