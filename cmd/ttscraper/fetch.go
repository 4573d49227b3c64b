package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ttscraper/pkg/auth"
	"ttscraper/pkg/config"
	"ttscraper/pkg/logger"
	"ttscraper/pkg/scraper"
	"ttscraper/pkg/ui"
)

var (
	fetchCookies   []string
	fetchProxy     string
	fetchLimit     int
	fetchUserAgent string
	fetchRPM       int
	fetchOutput    string
	fetchPretty    bool
	fetchAccount   string
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch <username>",
	Short: "Fetch a TikTok user's posts as JSON",
	Long: `Fetch the post list of a TikTok user and print it as JSON.

Without a cookie the tool probes the user's public profile page for a guest
session; anonymous fetches often work but are the first to get blocked.
Supply a browser cookie with --cookie or a saved session with --account for
reliable results.`,
	Example: `  # Anonymous fetch
  ttscraper fetch cristiano

  # First 50 posts, pretty-printed
  ttscraper fetch cristiano --limit 50 --pretty

  # With a browser cookie through a SOCKS proxy
  ttscraper fetch cristiano --cookie "sessionid=...; msToken=..." --proxy socks5://127.0.0.1:1080

  # With a saved session
  ttscraper fetch cristiano --account personal`,
	Args: cobra.ExactArgs(1),
	Run:  runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringArrayVar(&fetchCookies, "cookie", nil, "browser cookie string (repeatable, joined with '; ')")
	fetchCmd.Flags().StringVar(&fetchProxy, "proxy", "", "proxy URL (http://, https:// or socks5://)")
	fetchCmd.Flags().IntVarP(&fetchLimit, "limit", "l", 0, "maximum number of posts to fetch (0 = all)")
	fetchCmd.Flags().StringVar(&fetchUserAgent, "user-agent", "", "user agent for requests and signing")
	fetchCmd.Flags().IntVar(&fetchRPM, "requests-per-minute", 0, "page request rate limit")
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "write the JSON result to a file instead of stdout")
	fetchCmd.Flags().BoolVar(&fetchPretty, "pretty", false, "indent the JSON result")
	fetchCmd.Flags().StringVarP(&fetchAccount, "account", "a", "", "use a saved session (see 'ttscraper auth')")
}

func runFetch(cmd *cobra.Command, args []string) {
	username := args[0]

	flags := make(map[string]interface{})
	if len(fetchCookies) > 0 {
		flags["cookies"] = fetchCookies
	}
	if fetchProxy != "" {
		flags["proxy"] = fetchProxy
	}
	if fetchLimit > 0 {
		flags["limit"] = fetchLimit
	}
	if fetchUserAgent != "" {
		flags["user-agent"] = fetchUserAgent
	}
	if fetchRPM > 0 {
		flags["requests-per-minute"] = fetchRPM
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}

	// A saved session supplies a cookie and user agent unless overridden
	if fetchAccount != "" && len(fetchCookies) == 0 {
		manager, err := auth.NewManager()
		if err != nil {
			ui.PrintError("Failed to initialize credential manager", err.Error())
			os.Exit(1)
		}
		account, err := manager.Retrieve(fetchAccount)
		if err != nil {
			ui.PrintError("Failed to load saved session", err.Error())
			os.Exit(1)
		}
		flags["cookies"] = []string{account.Cookie}
		if fetchUserAgent == "" && account.UserAgent != "" {
			flags["user-agent"] = account.UserAgent
		}
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	logger.Initialize(&cfg.Logging)

	if !quiet {
		ui.PrintInfo("Target Profile", username)
	}

	s, err := scraper.New(cfg)
	if err != nil {
		ui.PrintError("Failed to initialize fetcher", err.Error())
		os.Exit(1)
	}

	outcome := s.FetchUserPosts(context.Background(), username)

	var out []byte
	if fetchPretty {
		out, err = json.MarshalIndent(outcome, "", "  ")
	} else {
		out, err = json.Marshal(outcome)
	}
	if err != nil {
		ui.PrintError("Failed to encode result", err.Error())
		os.Exit(1)
	}

	if fetchOutput != "" {
		if err := os.WriteFile(fetchOutput, append(out, '\n'), 0644); err != nil {
			ui.PrintError("Failed to write output file", err.Error())
			os.Exit(1)
		}
		if !quiet {
			ui.PrintSuccess("Result written to " + fetchOutput)
		}
	} else {
		fmt.Println(string(out))
	}

	if outcome.Status == scraper.StatusError {
		if !quiet {
			ui.PrintError("Fetch failed", outcome.Message)
		}
		os.Exit(1)
	}

	if !quiet {
		ui.PrintSuccess(fmt.Sprintf("Fetched %d posts from @%s", outcome.TotalPosts, username))
	}
}
