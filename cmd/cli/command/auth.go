package command

import (
	"errors"
	"fmt"

	"codelens/cmd/cli/authentication"
	"codelens/cmd/cli/command/client"
	"codelens/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

// auth.go handles account commands: signup, login, logout, whoami, reset-password.

// authCmd represents the auth command for authentication related subcommands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Authenticate with the codelens API server. Supports signup, login, logout and password reset.`,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a codelens account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.SignUpRequest
		req.Email, _ = cmd.Flags().GetString("email")
		req.Password, _ = cmd.Flags().GetString("password")

		response, err := client.NewHTTPClient(apiURL).SignUp(&req)
		if err != nil {
			return fmt.Errorf("signup failed: %w", err)
		}
		if err := saveCredentials(response.AccessToken, response.RefreshToken, response.User.Email, response.ExpiresIn); err != nil {
			return err
		}

		fmt.Println("✓ Account created, you are logged in.")
		fmt.Printf("UserID: %s\n", response.User.ID)
		return nil
	},
}

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to your codelens account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.SignInRequest
		req.Email, _ = cmd.Flags().GetString("email")
		req.Password, _ = cmd.Flags().GetString("password")

		response, err := client.NewHTTPClient(apiURL).Login(&req)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		if err := saveCredentials(response.AccessToken, response.RefreshToken, response.User.Email, response.ExpiresIn); err != nil {
			return err
		}

		fmt.Println("✓ Successfully logged in!")
		return nil
	},
}

// logoutCmd revokes the session server-side and forgets local tokens
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out of your codelens account",
	RunE: func(cmd *cobra.Command, args []string) error {
		err := withSession(func(c *client.HTTPClient) error { return c.Logout() })
		if err != nil && !errors.Is(err, authentication.ErrNotLoggedIn) {
			fmt.Printf("warning: server logout failed: %v\n", err)
		}
		if err := authentication.DeleteTokens(); err != nil {
			return err
		}
		fmt.Println("✓ Successfully logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(c *client.HTTPClient) error {
			user, err := c.Me()
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(user)
			}
			fmt.Printf("%s (%s)\n", user.Email, user.ID)
			return nil
		})
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Email yourself a password reset link",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		resp, err := client.NewHTTPClient(apiURL).RequestPasswordReset(email)
		if err != nil {
			return err
		}
		fmt.Println("✓", resp.Success)
		return nil
	},
}

// init function to add auth commands to root command
func init() {
	authCmd.AddCommand(signupCmd, loginCmd, logoutCmd, whoamiCmd, resetPasswordCmd)

	for _, c := range []*cobra.Command{signupCmd, loginCmd} {
		c.Flags().StringP("email", "e", "", "Account email")
		c.Flags().StringP("password", "p", "", "Account password")
		c.MarkFlagRequired("email")
		c.MarkFlagRequired("password")
	}

	resetPasswordCmd.Flags().StringP("email", "e", "", "Account email")
	resetPasswordCmd.MarkFlagRequired("email")
}
