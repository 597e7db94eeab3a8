package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLangCommand(ctx *commandContext) *cobra.Command {
	langCmd := &cobra.Command{
		Use:   "lang",
		Short: "View and set the interface language",
	}

	langCmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the current language preference",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(cmd.Context(), func(e *env) error {
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]string{"language": e.prefs.Language()})
				}
				fmt.Fprintln(cmd.OutOrStdout(), e.prefs.Language())
				return nil
			})
		},
	})

	langCmd.AddCommand(&cobra.Command{
		Use:   "set <code>",
		Short: "Set the language preference (zh or en)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(cmd.Context(), func(e *env) error {
				if err := e.prefs.SetLanguage(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Language set to %s\n", e.prefs.Language())
				return nil
			})
		},
	})

	return langCmd
}
