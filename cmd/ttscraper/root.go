package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"ttscraper/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ttscraper",
	Short: "A resilient TikTok post fetcher",
	Long: `ttscraper fetches the post list of a TikTok user and prints it as JSON.

Features:
  - Signed web API requests with a browser fingerprint
  - Session bootstrap from a guest probe or a supplied browser cookie
  - Secure cookie storage using the system keychain
  - HTTP and SOCKS5 proxy support
  - Automatic retry with exponential backoff
  - Cursor pagination with an optional post limit

The JSON result goes to stdout; logs and status output go to stderr.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet {
			logLevel = "error"
		}

		if !quiet && cmd.Name() != "version" && cmd.Name() != "help" && cmd.Name() != "completion" {
			ui.PrintLogo()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .ttscraper.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except the JSON result and errors")

	rootCmd.SetVersionTemplate(`ttscraper {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
