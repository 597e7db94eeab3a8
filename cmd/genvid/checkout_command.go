package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"genvid/internal/checkout"
)

func newCheckoutCommand(ctx *commandContext) *cobra.Command {
	var noBrowser bool

	cmd := &cobra.Command{
		Use:   "checkout <plan-id>",
		Short: "Upgrade to a paid plan through the hosted checkout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(cmd.Context(), func(e *env) error {
				if err := e.requireAuth(); err != nil {
					return err
				}
				out := cmd.OutOrStdout()

				var opener checkout.Opener
				if noBrowser || !e.cfg.Checkout.OpenBrowser {
					opener = checkout.PrintOpener{Print: func(url string) {
						fmt.Fprintf(out, "Open this URL to complete checkout:\n  %s\n", url)
					}}
				}
				session := checkout.NewSession(e.client, opener, e.cfg.Checkout.CallbackBind, e.logger)

				fmt.Fprintln(out, "Waiting for the checkout to complete in your browser...")
				outcome, err := session.Run(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				switch outcome {
				case checkout.OutcomeSuccess:
					fmt.Fprintln(out, "Payment successful. Your plan is being activated.")
					// Give the backend a moment to apply the subscription
					// before showing the refreshed profile.
					select {
					case <-time.After(checkout.SuccessProceedDelay):
					case <-cmd.Context().Done():
						return cmd.Context().Err()
					}
					user, err := e.client.Profile(cmd.Context())
					if err != nil {
						return err
					}
					e.session.SetUser(user)
					fmt.Fprintf(out, "Current plan: %s (%s)\n", user.SubscriptionTier, user.SubscriptionStatus)
				case checkout.OutcomeCanceled:
					fmt.Fprintln(out, "Checkout canceled. No changes were made.")
				default:
					// Without an explicit status, do not guess about payment.
					fmt.Fprintln(out, "Checkout finished with an unknown status.")
					fmt.Fprintln(out, "Check `genvid whoami` to see whether your plan changed.")
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Print the checkout URL instead of opening a browser")
	return cmd
}
