package config

import (
	"fmt"
	"net"
	"strings"
)

// Validate reports configuration combinations the daemon cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.AssetsDir) == "" {
		return fmt.Errorf("paths.assets_dir is required")
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return fmt.Errorf("paths.data_dir is required")
	}
	if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
		return fmt.Errorf("paths.api_bind %q: %w", c.Paths.APIBind, err)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	if strings.ContainsAny(c.Kiosk.SplashAsset, "/\\") {
		return fmt.Errorf("kiosk.splash_asset must be a bare filename, got %q", c.Kiosk.SplashAsset)
	}
	return nil
}
