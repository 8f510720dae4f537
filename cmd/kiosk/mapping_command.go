package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"kiosk/internal/ipc"
)

func newMappingCommand(ctx *commandContext) *cobra.Command {
	mappingCmd := &cobra.Command{
		Use:   "mapping",
		Short: "Inspect or replace the card mapping document",
	}

	mappingCmd.AddCommand(newMappingShowCommand(ctx))
	mappingCmd.AddCommand(newMappingEditCommand(ctx))
	return mappingCmd
}

func newMappingShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the full mapping document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.MappingText()
				if err != nil {
					return fmt.Errorf("fetch mapping: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), resp.Text)
				return nil
			})
		},
	}
}

func newMappingEditCommand(ctx *commandContext) *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Replace the mapping document from a file or stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if strings.TrimSpace(fromFile) != "" {
				data, err = os.ReadFile(fromFile)
				if err != nil {
					return fmt.Errorf("read %s: %w", fromFile, err)
				}
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			}

			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.WriteMappingText(string(data)); err != nil {
					return fmt.Errorf("write mapping: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Mapping document replaced.")
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&fromFile, "file", "f", "", "Read the document from a file instead of stdin")
	return cmd
}
