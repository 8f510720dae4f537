package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"kiosk/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Status()
				if err != nil {
					return fmt.Errorf("fetch status: %w", err)
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Kiosk Daemon", colorize) {
					fmt.Fprintln(out, line)
				}

				status := resp.Status
				fmt.Fprintln(out, renderStatusLine("Running", yesNo(status.Running), status.Running, colorize))
				fmt.Fprintln(out, renderStatusLine("PID", strconv.Itoa(status.PID), true, colorize))
				fmt.Fprintln(out, renderStatusLine("Started", status.StartedAt.Local().Format(time.RFC1123), true, colorize))
				fmt.Fprintln(out, renderStatusLine("Cards scanned", strconv.FormatInt(status.CardsScanned, 10), true, colorize))
				fmt.Fprintln(out, renderStatusLine("Cards mapped", strconv.Itoa(status.CardsMapped), true, colorize))
				fmt.Fprintln(out, renderStatusLine("Assets", strconv.Itoa(status.AssetCount), true, colorize))
				if status.ReaderDevice != "" {
					fmt.Fprintln(out, renderStatusLine("Reader attached", yesNo(status.ReaderAttached), status.ReaderAttached, colorize))
				}
				fmt.Fprintln(out, renderStatusLine("Socket", resp.Socket, true, colorize))
				fmt.Fprintln(out, renderStatusLine("Lock", resp.LockPath, true, colorize))
				return nil
			})
		},
	}
}
