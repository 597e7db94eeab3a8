package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"genvid/internal/api"
)

func newRegisterCommand(ctx *commandContext) *cobra.Command {
	var email string
	var fullName string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a Genvid account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(cmd.Context(), func(e *env) error {
				reader := bufio.NewReader(cmd.InOrStdin())
				out := cmd.OutOrStdout()

				address := strings.TrimSpace(email)
				if address == "" {
					var err error
					address, err = promptLine(reader, out, "Email", "")
					if err != nil {
						return err
					}
				}
				if address == "" {
					return fmt.Errorf("an email address is required")
				}
				password, err := promptPassword(cmd.InOrStdin(), reader, out, "Password")
				if err != nil {
					return err
				}
				if len(password) < 8 {
					return fmt.Errorf("password must be at least 8 characters")
				}

				auth, err := e.client.Register(cmd.Context(), api.RegisterRequest{
					Email:    address,
					Password: password,
					FullName: strings.TrimSpace(fullName),
				})
				if err != nil {
					return err
				}
				return finishLogin(cmd, ctx, e, auth)
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email address")
	cmd.Flags().StringVar(&fullName, "name", "", "Full name for the new account")
	return cmd
}

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(cmd.Context(), func(e *env) error {
				reader := bufio.NewReader(cmd.InOrStdin())
				out := cmd.OutOrStdout()

				address := strings.TrimSpace(email)
				if address == "" {
					var err error
					address, err = promptLine(reader, out, "Email", "")
					if err != nil {
						return err
					}
				}
				if address == "" {
					return fmt.Errorf("an email address is required")
				}
				password, err := promptPassword(cmd.InOrStdin(), reader, out, "Password")
				if err != nil {
					return err
				}

				auth, err := e.client.Login(cmd.Context(), address, password)
				if err != nil {
					return err
				}
				return finishLogin(cmd, ctx, e, auth)
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email address")
	return cmd
}

// finishLogin installs the session returned by register or login and reports
// who the user is now.
func finishLogin(cmd *cobra.Command, ctx *commandContext, e *env, auth *api.AuthSession) error {
	if err := e.session.SetAuth(cmd.Context(), auth.User, auth.AccessToken, auth.RefreshToken); err != nil {
		return err
	}
	e.session.SetHasHydrated(true)
	e.client.SetToken(auth.AccessToken)

	if ctx.jsonOutput() {
		return writeJSON(cmd, map[string]any{"user": auth.User})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", auth.User.DisplayName())
	return nil
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(cmd.Context(), func(e *env) error {
				if err := e.session.Logout(cmd.Context()); err != nil {
					return err
				}
				e.client.ClearToken()
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
				return nil
			})
		},
	}
}

func newWhoamiCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(cmd.Context(), func(e *env) error {
				if err := e.requireAuth(); err != nil {
					return err
				}
				// Tokens are the only persisted session state, so the
				// profile comes fresh from the backend.
				user, err := e.client.Profile(cmd.Context())
				if err != nil {
					return err
				}
				e.session.SetUser(user)

				if ctx.jsonOutput() {
					return writeJSON(cmd, user)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Account:  %s\n", user.DisplayName())
				fmt.Fprintf(out, "Email:    %s\n", user.Email)
				fmt.Fprintf(out, "Plan:     %s (%s)\n", user.SubscriptionTier, user.SubscriptionStatus)
				fmt.Fprintf(out, "Credits:  %d remaining, %d used\n", user.CreditsRemaining, user.CreditsUsedTotal)
				if user.PreferredLanguage != "" {
					fmt.Fprintf(out, "Language: %s\n", user.PreferredLanguage)
				}
				return nil
			})
		},
	}
}
