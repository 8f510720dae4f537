package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"kiosk/internal/api"
	"kiosk/internal/ipc"
)

func newCardsCommand(ctx *commandContext) *cobra.Command {
	var unknownOnly bool

	cmd := &cobra.Command{
		Use:   "cards",
		Short: "List every card the kiosk has seen",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Cards()
				if err != nil {
					return fmt.Errorf("fetch cards: %w", err)
				}

				records := resp.Scanned
				if unknownOnly {
					records = resp.Unknown
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					if unknownOnly {
						fmt.Fprintln(out, "No unmapped cards.")
					} else {
						fmt.Fprintln(out, "No cards scanned yet.")
					}
					return nil
				}

				rows := make([][]string, 0, len(records))
				for _, record := range records {
					rows = append(rows, []string{
						record.CardID,
						yesNo(record.Mapped),
						formatAssets(record),
						strconv.FormatInt(record.ScanCount, 10),
						record.LastSeen.Local().Format(time.RFC822),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Card", "Mapped", "Assets", "Scans", "Last Seen"},
					rows, 4))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&unknownOnly, "unknown", false, "Only show cards without a mapping")
	return cmd
}

func formatAssets(record api.CardRecord) string {
	if len(record.Assets) == 0 {
		return "-"
	}
	return strings.Join(record.Assets, ", ")
}
