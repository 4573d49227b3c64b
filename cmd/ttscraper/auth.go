package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ttscraper/pkg/auth"
	"ttscraper/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage saved TikTok sessions",
	Long: `Manage saved TikTok sessions securely.

Sessions are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (TTSCRAPER_COOKIE)

Never share your cookies or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [name]",
	Short: "Save a TikTok session cookie securely",
	Long: `Save a TikTok session cookie in the system keychain or an encrypted file.

To get the cookie:
1. Log into tiktok.com in your browser
2. Open Developer Tools (F12) and go to the Network tab
3. Reload the page and select any request to tiktok.com
4. Copy the value of the Cookie request header`,
	Example: `  # Interactive login
  ttscraper auth login

  # Save under a name
  ttscraper auth login personal`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [name]",
	Short: "Remove a saved session",
	Long: `Remove a saved TikTok session.

If no name is provided, you will be shown a list of saved sessions to
choose from.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all saved sessions",
	Long:  `List all saved TikTok sessions with cookies masked.`,
	Run:   runList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	}

	reader := bufio.NewReader(os.Stdin)

	if name == "" {
		fmt.Print("Session name: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			ui.PrintError("Failed to read session name", err.Error())
			os.Exit(1)
		}
		name = strings.TrimSpace(input)
	}

	if name == "" {
		ui.PrintError("Session name is required", "")
		os.Exit(1)
	}

	if existing, _ := manager.Retrieve(name); existing != nil {
		fmt.Printf("Session '%s' already exists. Update it? (y/N): ", name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Println("\nEnter the cookie value (it will be hidden as you type):")

	var cookie string
	for {
		fmt.Print("Cookie: ")
		cookie, err = readPassword()
		if err != nil {
			ui.PrintError("Failed to read cookie", err.Error())
			os.Exit(1)
		}

		if !strings.Contains(cookie, "=") {
			fmt.Println("\nThat doesn't look like a cookie string.")
			fmt.Println("It should contain name=value pairs separated by '; '.")
			fmt.Print("\nTry again? (Y/n): ")
			retry, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(retry)) == "n" {
				os.Exit(1)
			}
			continue
		}
		break
	}

	fmt.Print("\nUser Agent (press Enter to use default): ")
	userAgent, _ := reader.ReadString('\n')
	userAgent = strings.TrimSpace(userAgent)

	account := &auth.Account{
		Name:         name,
		Cookie:       cookie,
		UserAgent:    userAgent,
		LastModified: time.Now(),
	}

	if err := manager.Store(account); err != nil {
		ui.PrintError("Failed to store session", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Session saved: " + name)
	fmt.Println("\nUse it with:")
	fmt.Printf("  ttscraper fetch <username> --account %s\n", name)
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	if len(args) > 0 {
		if err := manager.Delete(args[0]); err != nil {
			ui.PrintError("Failed to remove session", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("Session removed: " + args[0])
		return
	}

	accounts, err := manager.List()
	if err != nil || len(accounts) == 0 {
		ui.PrintError("No saved sessions found", "")
		return
	}

	reader := bufio.NewReader(os.Stdin)

	if len(accounts) == 1 {
		account := accounts[0]
		fmt.Printf("Remove session '%s'? (y/N): ", account.Name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}

		if err := manager.Delete(account.Name); err != nil {
			ui.PrintError("Failed to remove session", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("Session removed: " + account.Name)
		return
	}

	fmt.Println("Select session to remove:")
	for i, account := range accounts {
		fmt.Printf("  %d. %s\n", i+1, account.Name)
	}
	fmt.Printf("  0. Cancel\n\n")

	fmt.Print("Choice: ")
	input, _ := reader.ReadString('\n')

	var choice int
	fmt.Sscanf(strings.TrimSpace(input), "%d", &choice)

	if choice < 1 || choice > len(accounts) {
		return
	}

	account := accounts[choice-1]
	if err := manager.Delete(account.Name); err != nil {
		ui.PrintError("Failed to remove session", err.Error())
		os.Exit(1)
	}
	ui.PrintSuccess("Session removed: " + account.Name)
}

func runList(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	accounts, err := manager.List()
	if err != nil {
		ui.PrintError("Failed to list sessions", err.Error())
		os.Exit(1)
	}

	if len(accounts) == 0 {
		ui.PrintInfo("No saved sessions", "Use 'ttscraper auth login' to add one")
		return
	}

	ui.PrintHighlight("Saved Sessions")
	fmt.Println()

	for i, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		fmt.Printf("%d. Name: %s\n", i+1, sanitized.Name)
		fmt.Printf("   Cookie: %s\n", sanitized.Cookie)
		if sanitized.UserAgent != "" {
			fmt.Printf("   User Agent: %s\n", sanitized.UserAgent)
		}
		fmt.Printf("   Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
}

// readPassword reads a line from stdin without echoing when possible
func readPassword() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return string(password), nil
		}
	}

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
