package config

// Default split parameters, as prompted for by the interactive split.
const (
	DefaultTotal     = 5
	DefaultThreshold = 3
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: DefaultDataDir(),
		Output:  OutputText,
		Shares: SharesConfig{
			Total:     DefaultTotal,
			Threshold: DefaultThreshold,
		},
		Log: LogConfig{
			Level: "warn",
			JSON:  false,
		},
	}
}
