package auth

import (
	"fmt"
	"strings"
)

// ShowTokenGuide displays step-by-step instructions for creating an access token
func ShowTokenGuide() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("📚 MASTODON ACCESS TOKEN GUIDE")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	fmt.Println("This tool needs a Mastodon access token to read your favourites")
	fmt.Println("and bookmarks. Create one from your instance's web UI:")
	fmt.Println()

	fmt.Println("🌐 STEP 1: Open your instance's settings")
	fmt.Println("   - Log in to your instance (e.g. https://mastodon.social)")
	fmt.Println("   - Go to Preferences → Development")
	fmt.Println("   - Or open https://<your-instance>/settings/applications directly")
	fmt.Println()

	fmt.Println("🔧 STEP 2: Create a new application")
	fmt.Println("   - Click 'New application'")
	fmt.Println("   - Name it anything, e.g. 'mastoarchiver'")
	fmt.Println("   - Under Scopes, 'read' is sufficient; the tool never writes")
	fmt.Println("   - Submit")
	fmt.Println()

	fmt.Println("🔑 STEP 3: Copy the access token")
	fmt.Println("   - Open the application you just created")
	fmt.Println("   - Copy the value labeled 'Your access token'")
	fmt.Println()

	fmt.Println("💡 TIPS:")
	fmt.Println("   • Tokens do not expire unless you revoke them")
	fmt.Println("   • For cron use, export MASTODON_ACCESS_TOKEN instead of logging in")
	fmt.Println()

	fmt.Println("⚠️  SECURITY WARNING:")
	fmt.Println("   • The token grants read access to your whole account")
	fmt.Println("   • NEVER share it or commit it to a repository")
	fmt.Println("   • Store it securely (this tool encrypts it)")
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()
}
