package daemon

import (
	"fmt"

	"golang.org/x/sys/unix"

	"kiosk/internal/config"
)

// preflight verifies the daemon can actually write where the config
// points before any client traffic arrives.
func preflight(cfg *config.Config) error {
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	for _, dir := range []string{cfg.Paths.AssetsDir, cfg.Paths.DataDir, cfg.Paths.LogDir} {
		if err := unix.Access(dir, unix.W_OK); err != nil {
			return fmt.Errorf("directory %s is not writable: %w", dir, err)
		}
	}
	return nil
}
