package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"kiosk/internal/config"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load("")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			source := path
			if !exists {
				source = "(defaults; no config file found)"
			}
			fmt.Fprintln(out, renderStatusLine("Config", source, exists, colorize))
			fmt.Fprintln(out, renderStatusLine("Assets dir", cfg.Paths.AssetsDir, true, colorize))
			fmt.Fprintln(out, renderStatusLine("Data dir", cfg.Paths.DataDir, true, colorize))
			fmt.Fprintln(out, renderStatusLine("Log dir", cfg.Paths.LogDir, true, colorize))
			fmt.Fprintln(out, renderStatusLine("API bind", cfg.Paths.APIBind, true, colorize))
			fmt.Fprintln(out, renderStatusLine("Mapping file", cfg.Kiosk.MappingFile, true, colorize))
			fmt.Fprintln(out, renderStatusLine("Presence timeout", fmt.Sprintf("%ds", cfg.Kiosk.PresenceTimeoutSeconds), true, colorize))
			fmt.Fprintln(out, renderStatusLine("Image dwell", fmt.Sprintf("%ds", cfg.Kiosk.ImageDisplaySeconds), true, colorize))
			if cfg.Kiosk.SplashAsset != "" {
				fmt.Fprintln(out, renderStatusLine("Splash asset", cfg.Kiosk.SplashAsset, true, colorize))
			}
			if cfg.Kiosk.ReaderDevice != "" {
				fmt.Fprintln(out, renderStatusLine("Reader device", cfg.Kiosk.ReaderDevice, true, colorize))
			}
			return nil
		},
	}
}
