package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func postCmd() *cobra.Command {
	var flags noteFlags
	cmd := &cobra.Command{
		Use:   "post <content>",
		Short: "Sign a note and publish it to the relay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := appCtx.RelayClient()
			if err != nil {
				return err
			}
			ev, err := signNote(&flags, args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), appCtx.Config.Timeout)
			defer cancel()
			res, err := rc.Publish(ctx, ev)
			if err != nil {
				return err
			}
			if !res.Accepted {
				return fmt.Errorf("relay rejected event %s: %s", res.EventID, res.Message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published %s to %s\n", res.EventID, appCtx.Config.RelayURL)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
