package config

const (
	defaultDataDir              = "~/.local/share/takt"
	defaultLogDir               = "~/.local/share/takt/logs"
	defaultAPIBind              = "127.0.0.1:7311"
	defaultERPPageSize          = 500
	defaultERPPageDelayMS       = 250
	defaultERPRequestTimeout    = 30
	defaultMinDurationMinutes   = 5
	defaultMinUnitsPerHour      = 1
	defaultMaxUnitsPerHour      = 500
	defaultAveraging            = "simple"
	defaultNotifyRequestTimeout = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		ERP: ERP{
			PageSize:       defaultERPPageSize,
			PageDelayMS:    defaultERPPageDelayMS,
			RequestTimeout: defaultERPRequestTimeout,
		},
		UPH: UPH{
			MinDurationMinutes: defaultMinDurationMinutes,
			MinUnitsPerHour:    defaultMinUnitsPerHour,
			MaxUnitsPerHour:    defaultMaxUnitsPerHour,
			Averaging:          defaultAveraging,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Runs:           true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
