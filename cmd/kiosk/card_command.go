package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"kiosk/internal/ipc"
)

func newCardCommand(ctx *commandContext) *cobra.Command {
	cardCmd := &cobra.Command{
		Use:   "card",
		Short: "Edit a single card's asset playlist",
	}

	cardCmd.AddCommand(newCardMapCommand(ctx))
	cardCmd.AddCommand(newCardUnmapCommand(ctx))
	return cardCmd
}

func newCardMapCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "map <card-id> <asset>",
		Short: "Append an asset to a card's playlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cardID, asset := args[0], args[1]
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.MapCard(cardID, asset)
				if err != nil {
					return fmt.Errorf("map card: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Card %s now plays: %s\n", cardID, strings.Join(resp.Assets, ", "))
				return nil
			})
		},
	}
}

func newCardUnmapCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unmap <card-id> <index>",
		Short: "Remove one asset from a card's playlist by position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cardID := args[0]
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("index must be an integer: %w", err)
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.UnmapAsset(cardID, index)
				if err != nil {
					return fmt.Errorf("unmap asset: %w", err)
				}
				out := cmd.OutOrStdout()
				if len(resp.Assets) == 0 {
					fmt.Fprintf(out, "Card %s has no assets left and was removed from the mapping.\n", cardID)
					return nil
				}
				fmt.Fprintf(out, "Card %s now plays: %s\n", cardID, strings.Join(resp.Assets, ", "))
				return nil
			})
		},
	}
}
