package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mastoarchiver/pkg/auth"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Mastodon access tokens",
	Long: `Manage stored Mastodon access tokens securely.

Tokens are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (for cron deployments)

Never share your token or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [instance]",
	Short: "Store a Mastodon access token securely",
	Long: `Store a Mastodon access token in the system keychain or encrypted file.

You will be prompted for:
  - The instance URL (if not provided)
  - The access token (hidden as you type)

Create a token under Preferences → Development on your instance; the
'read' scope is sufficient.`,
	Example: `  # Interactive login
  mastoarchiver auth login

  # Login to a specific instance
  mastoarchiver auth login mastodon.social`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout <instance>",
	Short: "Remove a stored token",
	Args:  cobra.ExactArgs(1),
	Run:   runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List instances with stored tokens",
	Long:  `List all instances with stored tokens, with the token values masked.`,
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
		fmt.Fprintln(os.Stderr, "Failed to initialize credential manager:", err)
		os.Exit(1)
	}

	var instance string
	if len(args) > 0 {
		instance = args[0]
	}

	reader := bufio.NewReader(os.Stdin)

	auth.ShowTokenGuide()

	if instance == "" {
		fmt.Print("🐘 Instance URL (e.g. mastodon.social): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to read instance:", err)
			os.Exit(1)
		}
		instance = strings.TrimSpace(input)
	}

	instance = auth.NormalizeInstance(instance)
	if instance == "" {
		fmt.Fprintln(os.Stderr, "Instance is required")
		os.Exit(1)
	}

	if existing, _ := manager.Retrieve(instance); existing != nil {
		fmt.Printf("\n⚠️  A token for '%s' already exists. Replace it? (y/N): ", instance)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Print("\n🔐 Access token (hidden as you type): ")
	token, err := readSecret()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to read token:", err)
		os.Exit(1)
	}
	if len(token) < 16 {
		fmt.Fprintln(os.Stderr, "That does not look like a valid access token")
		os.Exit(1)
	}

	cred := &auth.Credential{
		Instance:    instance,
		AccessToken: token,
	}

	fmt.Println("\n💾 Storing token securely...")
	if err := manager.Store(cred); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to store token:", err)
		os.Exit(1)
	}

	fmt.Printf("\n🎉 Token stored for %s\n", instance)
	fmt.Println("\n📖 Quick Start:")
	fmt.Printf("   $ mastoarchiver run --base-url https://%s --archive-dir ~/mastodon-archive\n", instance)
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize credential manager:", err)
		os.Exit(1)
	}

	instance := auth.NormalizeInstance(args[0])
	if err := manager.Delete(instance); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to remove token:", err)
		os.Exit(1)
	}
	fmt.Println("Token removed:", instance)
}

func runList(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize credential manager:", err)
		os.Exit(1)
	}

	creds, err := manager.List()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to list tokens:", err)
		os.Exit(1)
	}

	if len(creds) == 0 {
		fmt.Println("No stored tokens. Use 'mastoarchiver auth login' to add one.")
		return
	}

	fmt.Println("Stored tokens:")
	fmt.Println()
	for i, cred := range creds {
		sanitized := auth.SanitizeCredential(cred)
		fmt.Printf("%d. Instance: %s\n", i+1, sanitized.Instance)
		fmt.Printf("   Token: %s\n", sanitized.AccessToken)
		fmt.Printf("   Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
}

// readSecret reads a value from stdin without echoing
func readSecret() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	// Fallback to regular input for piped stdin
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
