package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"genvid/internal/api"
)

func newAvatarsCommand(ctx *commandContext) *cobra.Command {
	var gender string
	var style string

	run := func(cmd *cobra.Command, args []string) error {
		return ctx.withEnv(cmd.Context(), func(e *env) error {
			if err := e.requireAuth(); err != nil {
				return err
			}
			avatars, err := e.client.Avatars(cmd.Context())
			if err != nil {
				return err
			}
			// The backend returns the full catalog; narrowing happens
			// client-side.
			filter := api.AvatarFilter{Gender: gender, Style: style}
			matched := filter.Apply(avatars)

			if ctx.jsonOutput() {
				return writeJSON(cmd, matched)
			}
			out := cmd.OutOrStdout()
			if len(matched) == 0 {
				fmt.Fprintln(out, "No avatars match the given filters.")
				return nil
			}
			rows := make([][]string, 0, len(matched))
			for _, a := range matched {
				rows = append(rows, []string{
					a.ID,
					a.Label(),
					a.Gender,
					a.Style,
					yesNo(a.IsPremium),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Name", "Gender", "Style", "Premium"},
				rows,
				nil,
			))
			return nil
		})
	}

	avatarsCmd := &cobra.Command{
		Use:   "avatars",
		Short: "Browse presenter avatars",
		RunE:  run,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available presenter avatars",
		RunE:  run,
	}
	avatarsCmd.AddCommand(listCmd)

	avatarsCmd.PersistentFlags().StringVar(&gender, "gender", "all", "Filter by gender")
	avatarsCmd.PersistentFlags().StringVar(&style, "style", "all", "Filter by presentation style")
	return avatarsCmd
}
