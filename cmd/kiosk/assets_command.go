package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"kiosk/internal/ipc"
)

func newAssetsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "assets",
		Short: "List the media files the kiosk can play",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Assets()
				if err != nil {
					return fmt.Errorf("fetch assets: %w", err)
				}

				out := cmd.OutOrStdout()
				if len(resp.Assets) == 0 {
					fmt.Fprintln(out, "No assets in the library.")
					return nil
				}

				caser := cases.Title(language.English)
				rows := make([][]string, 0, len(resp.Assets))
				for _, asset := range resp.Assets {
					rows = append(rows, []string{
						asset.Name,
						caser.String(asset.Kind),
						formatSize(asset.Size),
						asset.Modified.Local().Format(time.RFC822),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Name", "Kind", "Size", "Modified"},
					rows, 3))
				return nil
			})
		},
	}
}

func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
