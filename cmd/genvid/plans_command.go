package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"genvid/internal/checkout"
)

func newPlansCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "plans",
		Short:       "List subscription plans",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			plans := checkout.Plans()
			if ctx.jsonOutput() {
				return writeJSON(cmd, plans)
			}
			rows := make([][]string, 0, len(plans))
			for _, p := range plans {
				rows = append(rows, []string{
					p.ID,
					p.Name,
					fmt.Sprintf("$%d/mo", p.PriceUSD),
					fmt.Sprint(p.CreditsPerMonth),
					strings.Join(p.Features, ", "),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Plan", "Price", "Credits", "Features"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
}
