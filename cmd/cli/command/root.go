package command

// root.go defines the root command for the codelens CLI.
// set up the global flags here.

import (
	"fmt"
	"os"
	"time"

	"codelens/cmd/cli/authentication"
	"codelens/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var (
	apiURL     string // Global flag for API server URL
	outputJSON bool   // print raw JSON instead of tables
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "codelens",
	Short: "codelens - AI code review from the command line",
	Long: `codelens sends source files to the codelens API for an AI review and
shows your review history and stats. You can:
- Review a file and get syntax errors, logic flaws, optimization tips and a score
- Browse past reviews
- See your dashboard numbers

Use "codelens command --help" to see all available commands.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err) // Print error to standard error
		os.Exit(1)
	}
}

func init() {
	defaultURL := os.Getenv("CODELENS_API")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}

	// Global persistent flags = available to all subcommands
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultURL, "API server URL")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "print raw JSON output")

	rootCmd.AddCommand(authCmd, reviewCmd, historyCmd, statsCmd, languagesCmd)
}

// refreshSkew refreshes access tokens that are about to expire.
const refreshSkew = 30 * time.Second

// withSession runs fn with a client carrying the stored access token. A
// token past its expiry is refreshed before the call, since the review
// route answers an expired token anonymously. A 401 refreshes once and
// retries.
func withSession(fn func(c *client.HTTPClient) error) error {
	creds, err := authentication.GetTokens()
	if err != nil {
		return err
	}

	if creds.RefreshToken != "" && creds.ExpiresAt > 0 &&
		time.Now().Add(refreshSkew).Unix() >= creds.ExpiresAt {
		if creds, err = refreshSession(creds); err != nil {
			return err
		}
	}

	c := client.NewHTTPClient(apiURL)
	c.SetToken(creds.AccessToken)

	err = fn(c)
	if !client.IsUnauthorized(err) || creds.RefreshToken == "" {
		return err
	}

	if creds, err = refreshSession(creds); err != nil {
		return err
	}
	c.SetToken(creds.AccessToken)
	return fn(c)
}

// refreshSession trades the refresh token for a new pair and stores it.
func refreshSession(creds *authentication.StoredCredentials) (*authentication.StoredCredentials, error) {
	refreshed, err := client.NewHTTPClient(apiURL).Refresh(creds.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("session expired, please log in again: %w", err)
	}
	if err := saveCredentials(refreshed.AccessToken, refreshed.RefreshToken, refreshed.User.Email, refreshed.ExpiresIn); err != nil {
		return nil, err
	}
	return authentication.GetTokens()
}

func saveCredentials(accessToken, refreshToken, email string, expiresIn int64) error {
	return authentication.StoreTokens(&authentication.StoredCredentials{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Email:        email,
		ExpiresAt:    time.Now().Add(time.Duration(expiresIn) * time.Second).Unix(),
	})
}
