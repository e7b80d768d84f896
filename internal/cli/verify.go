package cli

import (
	"context"
	"fmt"
	"io"

	"inventory-sync/internal/app/usecases"

	"github.com/spf13/cobra"
)

func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the credentials of every configured storefront",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, a *app) error {
				pingers := make([]usecases.Pinger, 0, len(a.cfg.Storefronts))
				for _, sf := range a.cfg.Storefronts {
					pingers = append(pingers, a.wooClient(sf))
				}
				results := usecases.VerifyStorefronts(ctx, pingers, a.logger)
				return a.out.Success(results, func(w io.Writer) error {
					for _, r := range results {
						line := fmt.Sprintf("%s: %s", r.Client, r.Status)
						if r.Detail != "" && r.Status == usecases.VerifyError {
							line += " (" + r.Detail + ")"
						}
						if _, err := fmt.Fprintln(w, line); err != nil {
							return err
						}
					}
					return nil
				})
			})
		},
	}
}
