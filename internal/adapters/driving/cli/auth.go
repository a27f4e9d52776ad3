package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var signupCmd = &cobra.Command{
	Use:   "signup [email]",
	Short: "Create an account",
	Long: `Create an account with the configured identity provider.

The password is read from the terminal without echo, or from stdin when
input is piped. Signing up does not log you in.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSignup,
}

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Log in",
	Long:  `Verify your credentials and remember the session for later commands.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runSignup(cmd *cobra.Command, args []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	email, password, err := promptCredentials(cmd, args)
	if err != nil {
		return err
	}

	id, err := authService.SignUp(context.Background(), email, password)
	if err != nil {
		return fmt.Errorf("signup failed: %s", authMessage(err))
	}

	cmd.Printf("Account created for %s. Run 'docchat login' to start.\n", id.Email)
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	email, password, err := promptCredentials(cmd, args)
	if err != nil {
		return err
	}

	session, err := authService.Login(context.Background(), email, password)
	if err != nil {
		return fmt.Errorf("login failed: %s", authMessage(err))
	}

	cmd.Printf("Logged in as %s\n", session.Email)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	if err := authService.Logout(); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	cmd.Println("Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	session, err := authService.Current()
	if errors.Is(err, domain.ErrAuthRequired) {
		cmd.Println("Not logged in.")
		return nil
	}
	if err != nil {
		return err
	}

	cmd.Printf("%s (%s)\n", session.Email, session.UserID)
	return nil
}

// authMessage turns provider errors into something a user can act on.
func authMessage(err error) string {
	var authErr *domain.AuthError
	switch {
	case errors.As(err, &authErr):
		switch {
		case strings.HasPrefix(authErr.Reason, "EMAIL_EXISTS"):
			return "an account with this email already exists"
		case strings.HasPrefix(authErr.Reason, "EMAIL_NOT_FOUND"),
			strings.HasPrefix(authErr.Reason, "INVALID_PASSWORD"),
			strings.HasPrefix(authErr.Reason, "INVALID_LOGIN_CREDENTIALS"):
			return "invalid email or password"
		case strings.HasPrefix(authErr.Reason, "WEAK_PASSWORD"):
			return "password is too weak (at least 6 characters)"
		case authErr.Reason != "":
			return authErr.Reason
		}
		return err.Error()
	case errors.Is(err, domain.ErrExternalService):
		return "identity provider unavailable, try again later"
	default:
		return err.Error()
	}
}

func promptCredentials(cmd *cobra.Command, args []string) (email, password string, err error) {
	reader := bufio.NewReader(cmd.InOrStdin())

	if len(args) > 0 {
		email = strings.TrimSpace(args[0])
	} else {
		cmd.Print("Email: ")
		email = readLine(reader)
	}
	if email == "" {
		return "", "", errors.New("email is required")
	}

	cmd.Print("Password: ")
	password = readPassword(cmd.InOrStdin(), reader)
	cmd.Println()
	if password == "" {
		return "", "", errors.New("password is required")
	}
	return email, password, nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// readPassword reads without echo when in is a terminal, otherwise a line from reader.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLine(reader)
}
