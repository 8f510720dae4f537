// Package testsupport provides helpers shared by tests across packages.
package testsupport

import (
	"path/filepath"
	"testing"

	"kiosk/internal/config"
)

// NewConfig returns a validated config rooted in a per-test temp
// directory, so tests never touch real user paths.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()

	base := t.TempDir()
	defaults := config.Default()
	cfg := &defaults
	cfg.Paths.AssetsDir = filepath.Join(base, "assets")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Kiosk.MappingFile = filepath.Join(base, "data", "cards.conf")
	cfg.Kiosk.SplashAsset = "splash.jpg"

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate config: %v", err)
	}
	return cfg
}
