package config

const (
	defaultAPIBaseURL     = "http://localhost:8080"
	defaultRequestTimeout = 30
	defaultRatePerSecond  = 10
	defaultRateBurst      = 5
	defaultStateDir       = "~/.local/share/genvid"
	defaultLogDir         = "~/.local/share/genvid/logs"
	defaultPollInterval   = 5
	defaultPageLimit      = 20
	defaultLanguage       = "zh"
	defaultFormat         = "9:16"
	defaultVideoDuration  = 5
	defaultGenerateDelay  = 1500
	defaultCallbackBind   = "127.0.0.1:0"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		API: API{
			BaseURL:        defaultAPIBaseURL,
			RequestTimeout: defaultRequestTimeout,
			RatePerSecond:  defaultRatePerSecond,
			RateBurst:      defaultRateBurst,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Dashboard: Dashboard{
			PollInterval: defaultPollInterval,
			PageLimit:    defaultPageLimit,
		},
		Create: Create{
			Language:      defaultLanguage,
			Format:        defaultFormat,
			VideoDuration: defaultVideoDuration,
		},
		Script: Script{
			GenerateDelayMillis: defaultGenerateDelay,
		},
		Checkout: Checkout{
			CallbackBind: defaultCallbackBind,
			OpenBrowser:  true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
