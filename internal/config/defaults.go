package config

const (
	defaultConfigPath      = "~/.config/dualsub/config.toml"
	defaultCachePath       = "~/.cache/dualsub/translations.db"
	defaultPrimary         = "en"
	defaultSecondary       = "vi"
	defaultProvider        = "google"
	defaultConcurrency     = 4
	defaultTimeoutSeconds  = 30
	defaultTickMS          = 250
	defaultBind            = "127.0.0.1:7878"
	defaultLogLevel        = "info"
	defaultPrimaryColor    = "white"
	defaultSecondaryColor  = "yellow"
	defaultPrimaryFontSize = 20
	defaultSecondaryFont   = 18
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Languages: Languages{
			Primary:   defaultPrimary,
			Secondary: defaultSecondary,
		},
		Translation: Translation{
			Enabled:        true,
			Provider:       defaultProvider,
			Concurrency:    defaultConcurrency,
			TimeoutSeconds: defaultTimeoutSeconds,
			Cache:          true,
			CachePath:      defaultCachePath,
		},
		Fetch: Fetch{
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Playback: Playback{
			TickMilliseconds: defaultTickMS,
			Rate:             1,
		},
		Styles: Styles{
			Primary:   Style{Color: defaultPrimaryColor, FontSize: defaultPrimaryFontSize},
			Secondary: Style{Color: defaultSecondaryColor, FontSize: defaultSecondaryFont},
		},
		Server: Server{
			Bind:           defaultBind,
			AllowedOrigins: []string{"*"},
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
	}
}
