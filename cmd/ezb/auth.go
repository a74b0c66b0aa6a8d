package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ezbooks/ezb/internal/cli"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the signed-in account",
		Long:  `Sign in, sign out, and inspect the current account.`,
	}

	cmd.AddCommand(authLoginCmd())
	cmd.AddCommand(authSignupCmd())
	cmd.AddCommand(authLogoutCmd())
	cmd.AddCommand(authWhoamiCmd())
	cmd.AddCommand(authResetCmd())

	return cmd
}

func authLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in and persist the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := initSession()
			if err != nil {
				return err
			}

			password, err := promptPassword("Password: ")
			if err != nil {
				return err
			}

			if err := sess.SignIn(cmd.Context(), args[0], password); err != nil {
				return fmt.Errorf("sign in failed: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render("Signed in as " + args[0]))
			return nil
		},
	}
}

func authSignupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signup <email>",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := initSession()
			if err != nil {
				return err
			}

			password, err := promptPassword("Choose a password: ")
			if err != nil {
				return err
			}
			confirm, err := promptPassword("Confirm password: ")
			if err != nil {
				return err
			}
			if password != confirm {
				return fmt.Errorf("passwords do not match")
			}

			if err := sess.SignUp(cmd.Context(), args[0], password); err != nil {
				return fmt.Errorf("signup failed: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render("Account created for " + args[0]))
			return nil
		},
	}
}

func authLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the persisted session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := initSession()
			if err != nil {
				return err
			}

			if err := sess.SignOut(cmd.Context()); err != nil {
				return fmt.Errorf("sign out failed: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render("Signed out"))
			return nil
		},
	}
}

func authWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current account and plan usage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, err := initBackend()
			if err != nil {
				return err
			}

			user, err := backend.CurrentUser(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching account: %w", err)
			}

			fmt.Println(cli.BoldStyle.Render(user.Email))
			fmt.Printf("  tier:  %s\n", user.Tier)
			if user.Limit != nil {
				fmt.Printf("  usage: %d / %d receipts this month\n", user.Usage, *user.Limit)
			} else {
				fmt.Printf("  usage: %d receipts this month (unlimited)\n", user.Usage)
			}
			return nil
		},
	}
}

func authResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <email>",
		Short: "Send a password recovery email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := initSession()
			if err != nil {
				return err
			}

			if err := sess.ResetPassword(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("password reset failed: %w", err)
			}

			fmt.Println(cli.InfoStyle.Render("Recovery email sent to " + args[0]))
			return nil
		},
	}
}

// promptPassword reads a password without echo, falling back to plain
// line input when stdin is not a terminal.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	if term.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
