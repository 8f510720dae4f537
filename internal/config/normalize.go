package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeKiosk(); err != nil {
		return err
	}
	c.normalizeHTTP()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.AssetsDir, err = expandPath(c.Paths.AssetsDir); err != nil {
		return fmt.Errorf("paths.assets_dir: %w", err)
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeKiosk() error {
	if c.Kiosk.PresenceTimeoutSeconds <= 0 {
		c.Kiosk.PresenceTimeoutSeconds = defaultPresenceTimeoutSecs
	}
	if c.Kiosk.ImageDisplaySeconds <= 0 {
		c.Kiosk.ImageDisplaySeconds = defaultImageDisplaySecs
	}
	c.Kiosk.SplashAsset = strings.TrimSpace(c.Kiosk.SplashAsset)
	c.Kiosk.ReaderDevice = strings.TrimSpace(c.Kiosk.ReaderDevice)

	c.Kiosk.MappingFile = strings.TrimSpace(c.Kiosk.MappingFile)
	if c.Kiosk.MappingFile == "" {
		c.Kiosk.MappingFile = filepath.Join(c.Paths.DataDir, defaultMappingFileName)
		return nil
	}
	expanded, err := expandPath(c.Kiosk.MappingFile)
	if err != nil {
		return fmt.Errorf("kiosk.mapping_file: %w", err)
	}
	c.Kiosk.MappingFile = expanded
	return nil
}

func (c *Config) normalizeHTTP() {
	if c.HTTP.ScanRateLimit <= 0 {
		c.HTTP.ScanRateLimit = defaultScanRateLimit
	}
	if c.HTTP.RequestTimeoutSeconds <= 0 {
		c.HTTP.RequestTimeoutSeconds = defaultRequestTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
