package config

const (
	defaultAssetsDir             = "~/.local/share/kiosk/assets"
	defaultDataDir               = "~/.local/share/kiosk"
	defaultLogDir                = "~/.local/share/kiosk/logs"
	defaultAPIBind               = "0.0.0.0:8080"
	defaultMappingFileName       = "cards.conf"
	defaultPresenceTimeoutSecs   = 5
	defaultImageDisplaySecs      = 60
	defaultScanRateLimit         = 120
	defaultRequestTimeoutSeconds = 30
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			AssetsDir: defaultAssetsDir,
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			APIBind:   defaultAPIBind,
		},
		Kiosk: Kiosk{
			PresenceTimeoutSeconds: defaultPresenceTimeoutSecs,
			ImageDisplaySeconds:    defaultImageDisplaySecs,
		},
		HTTP: HTTP{
			ScanRateLimit:         defaultScanRateLimit,
			RequestTimeoutSeconds: defaultRequestTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
