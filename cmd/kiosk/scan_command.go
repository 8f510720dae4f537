package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kiosk/internal/ipc"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <card-id>",
		Short: "Inject a card scan as if a reader had sent it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cardID := args[0]
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Scan(cardID)
				if err != nil {
					return fmt.Errorf("scan: %w", err)
				}

				out := cmd.OutOrStdout()
				switch {
				case resp.State.Mode == "playing":
					fmt.Fprintf(out, "Card %s playing %s (%d/%d)\n",
						cardID, resp.State.CurrentAsset, resp.State.AssetIndex+1, resp.State.AssetCount)
				case resp.Mapped:
					fmt.Fprintf(out, "Card %s scanned; display mode %s\n", cardID, resp.State.Mode)
				default:
					fmt.Fprintf(out, "Card %s is not mapped yet; recorded for operator follow-up.\n", cardID)
				}
				return nil
			})
		},
	}
}
