package config

import (
	"errors"
	"fmt"

	"github.com/mgpai22/dualsub/internal/translate"
)

var knownColors = map[string]bool{
	"white":   true,
	"yellow":  true,
	"cyan":    true,
	"green":   true,
	"magenta": true,
	"red":     true,
	"blue":    true,
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLanguages(); err != nil {
		return err
	}
	if err := c.validateTranslation(); err != nil {
		return err
	}
	if err := c.validatePlayback(); err != nil {
		return err
	}
	if err := c.validateStyles(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateLanguages() error {
	if c.Languages.Primary == "" {
		return errors.New("languages.primary must be set")
	}
	if c.Languages.Secondary == "" {
		return errors.New("languages.secondary must be set")
	}
	return nil
}

func (c *Config) validateTranslation() error {
	if !c.Translation.Enabled {
		return nil
	}
	switch provider := translate.Provider(c.Translation.Provider); provider {
	case translate.ProviderGoogle:
		return nil
	case translate.ProviderGemini,
		translate.ProviderOpenAI,
		translate.ProviderAnthropic,
		translate.ProviderDeepL:
		// keys are only required once a translator is built
		return nil
	default:
		return fmt.Errorf("translation.provider %q is not supported", provider)
	}
}

func (c *Config) validatePlayback() error {
	if c.Playback.Rate < 0 {
		return errors.New("playback.rate must be positive")
	}
	return nil
}

func (c *Config) validateStyles() error {
	for name, s := range map[string]Style{
		"primary":   c.Styles.Primary,
		"secondary": c.Styles.Secondary,
	} {
		if !knownColors[s.Color] {
			return fmt.Errorf("styles.%s.color %q is not supported", name, s.Color)
		}
		if s.FontSize < 0 {
			return fmt.Errorf("styles.%s.font_size must be positive", name)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn or error", c.Logging.Level)
	}
}
