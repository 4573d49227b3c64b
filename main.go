package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"ttscraper/pkg/config"
	"ttscraper/pkg/logger"
	"ttscraper/pkg/scraper"
	"ttscraper/pkg/ui"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	cookie     = flag.String("cookie", "", "Browser cookie string")
	proxyURL   = flag.String("proxy", "", "Proxy URL (http://, https:// or socks5://)")
	postLimit  = flag.Int("limit", 0, "Maximum number of posts to fetch (0 = all)")
	rateLimit  = flag.Int("rate-limit", 60, "Page requests per minute")
	pretty     = flag.Bool("pretty", false, "Indent the JSON result")
)

// Legacy single-command entry point. The cobra CLI in cmd/ttscraper is the
// full interface; this binary covers the plain `ttscraper <username>` case.
func main() {
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		ui.PrintError("Usage: ttscraper [flags] <tiktok_username>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	username := strings.TrimSpace(args[0])

	flags := make(map[string]interface{})
	if *cookie != "" {
		flags["cookies"] = []string{*cookie}
	}
	if *proxyURL != "" {
		flags["proxy"] = *proxyURL
	}
	if *postLimit > 0 {
		flags["limit"] = *postLimit
	}
	if *rateLimit != 60 {
		flags["requests-per-minute"] = *rateLimit
	}

	cfg, err := config.Load(*configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	logger.Initialize(&cfg.Logging)
	logger.WithField("username", username).Info("starting fetch")

	s, err := scraper.New(cfg)
	if err != nil {
		ui.PrintError("Failed to initialize fetcher", err.Error())
		os.Exit(1)
	}

	outcome := s.FetchUserPosts(context.Background(), username)

	var out []byte
	if *pretty {
		out, err = json.MarshalIndent(outcome, "", "  ")
	} else {
		out, err = json.Marshal(outcome)
	}
	if err != nil {
		ui.PrintError("Failed to encode result", err.Error())
		os.Exit(1)
	}
	fmt.Println(string(out))

	if outcome.Status == scraper.StatusError {
		os.Exit(1)
	}
}
