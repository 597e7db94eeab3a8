package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"genvid/internal/api"
	"genvid/internal/prefs"
)

func newProfileCommand(ctx *commandContext) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "View and update the account profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(cmd.Context(), func(e *env) error {
				if err := e.requireAuth(); err != nil {
					return err
				}
				user, err := e.client.Profile(cmd.Context())
				if err != nil {
					return err
				}
				e.session.SetUser(user)

				if ctx.jsonOutput() {
					return writeJSON(cmd, user)
				}
				rows := [][]string{
					{"Name", user.FullName},
					{"Email", user.Email},
					{"Company", user.CompanyName},
					{"Language", user.PreferredLanguage},
					{"Plan", string(user.SubscriptionTier)},
					{"Credits", fmt.Sprint(user.CreditsRemaining)},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
				return nil
			})
		},
	}

	profileCmd.AddCommand(newProfileUpdateCommand(ctx))
	return profileCmd
}

func newProfileUpdateCommand(ctx *commandContext) *cobra.Command {
	var fullName string
	var company string
	var language string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(cmd.Context(), func(e *env) error {
				if err := e.requireAuth(); err != nil {
					return err
				}

				var update api.ProfileUpdate
				if cmd.Flags().Changed("name") {
					update.FullName = &fullName
				}
				if cmd.Flags().Changed("company") {
					update.CompanyName = &company
				}
				if cmd.Flags().Changed("language") {
					normalized, err := prefs.Normalize(language)
					if err != nil {
						return err
					}
					update.PreferredLanguage = &normalized
				}
				if update.FullName == nil && update.CompanyName == nil && update.PreferredLanguage == nil {
					return fmt.Errorf("nothing to update; pass --name, --company, or --language")
				}

				user, err := e.client.UpdateProfile(cmd.Context(), update)
				if err != nil {
					return err
				}
				e.session.SetUser(user)

				if ctx.jsonOutput() {
					return writeJSON(cmd, user)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Profile updated")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&fullName, "name", "", "Full name")
	cmd.Flags().StringVar(&company, "company", "", "Company name")
	cmd.Flags().StringVar(&language, "language", "", "Preferred interface language")
	return cmd
}
