package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"kiosk/internal/ipc"
)

func newStateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the current playback state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.State()
				if err != nil {
					return fmt.Errorf("fetch state: %w", err)
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				state := resp.State

				playing := state.Mode == "playing"
				fmt.Fprintln(out, renderStatusLine("Mode", state.Mode, playing, colorize))
				if playing {
					fmt.Fprintln(out, renderStatusLine("Card", state.CardID, true, colorize))
					position := fmt.Sprintf("%d/%d", state.AssetIndex+1, state.AssetCount)
					fmt.Fprintln(out, renderStatusLine("Asset", state.CurrentAsset+" ("+position+")", true, colorize))
				}
				if state.SplashAsset != "" {
					fmt.Fprintln(out, renderStatusLine("Splash asset", state.SplashAsset, true, colorize))
				}
				fmt.Fprintln(out, renderStatusLine("Image dwell", strconv.Itoa(state.ImageDisplaySeconds)+"s", true, colorize))
				return nil
			})
		},
	}
}
