package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Talk-Point/gmail-cli/internal/config"
	"github.com/Talk-Point/gmail-cli/internal/output"
)

var (
	// Version info set from main
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"

	// Global flags
	configPath string
	jsonMode   bool
)

// SetVersionInfo sets version information from build flags
func SetVersionInfo(v, c, b string) {
	version = v
	commit = c
	buildTime = b
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gmail",
	Short: "Read, search and send Gmail from the command line",
	Long: `gmail-cli works with your Gmail account from the terminal.

It provides:
  - OAuth login for multiple accounts with keyring-backed credentials
  - Search, read and mark messages
  - Markdown composition with signatures, replies and drafts
  - Attachment listing and download
  - JSON output for scripting (--json)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// errReported signals that the handler already rendered the error (human
// or JSON form); Execute must not print it again but still exit non-zero.
var errReported = fmt.Errorf("error already reported")

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && err != errReported {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath,
		"config file")
	rootCmd.PersistentFlags().BoolVarP(&jsonMode, "json", "j", false,
		"machine-readable JSON output")

	rootCmd.AddCommand(versionCmd)
}

// printer builds the output printer for this invocation.
func printer() *output.Printer {
	return output.New(jsonMode)
}

// loadConfig reads the config file (or defaults when absent).
func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if jsonMode {
			_ = printer().PrintJSON(map[string]string{
				"version": version,
				"commit":  commit,
				"built":   buildTime,
			})
			return
		}
		fmt.Printf("gmail-cli %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", buildTime)
	},
}
