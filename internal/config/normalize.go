package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mgpai22/dualsub/internal/translate"
)

func (c *Config) normalize() error {
	c.normalizeLanguages()
	if err := c.normalizeTranslation(); err != nil {
		return err
	}
	c.normalizeStyles()
	c.normalizeServer()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeLanguages() {
	c.Languages.Primary = strings.TrimSpace(c.Languages.Primary)
	c.Languages.Secondary = strings.TrimSpace(c.Languages.Secondary)
}

func (c *Config) normalizeTranslation() error {
	c.Translation.Provider = strings.ToLower(strings.TrimSpace(c.Translation.Provider))
	if c.Translation.Provider == "" {
		c.Translation.Provider = defaultProvider
	}
	c.Translation.Model = strings.TrimSpace(c.Translation.Model)
	c.Translation.BaseURL = strings.TrimSpace(c.Translation.BaseURL)

	if c.Translation.APIKey == "" {
		if env := translate.Provider(c.Translation.Provider).APIKeyEnv(); env != "" {
			if value, ok := os.LookupEnv(env); ok {
				c.Translation.APIKey = strings.TrimSpace(value)
			}
		}
	}

	if c.Translation.Concurrency <= 0 {
		c.Translation.Concurrency = defaultConcurrency
	}
	if c.Translation.TimeoutSeconds <= 0 {
		c.Translation.TimeoutSeconds = defaultTimeoutSeconds
	}
	if strings.TrimSpace(c.Translation.CachePath) == "" {
		c.Translation.CachePath = defaultCachePath
	}
	var err error
	if c.Translation.CachePath, err = expandPath(c.Translation.CachePath); err != nil {
		return fmt.Errorf("translation.cache_path: %w", err)
	}

	if c.Fetch.TimeoutSeconds <= 0 {
		c.Fetch.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.Playback.TickMilliseconds <= 0 {
		c.Playback.TickMilliseconds = defaultTickMS
	}
	if c.Playback.Rate == 0 {
		c.Playback.Rate = 1
	}
	return nil
}

func (c *Config) normalizeStyles() {
	for _, s := range []*Style{&c.Styles.Primary, &c.Styles.Secondary} {
		s.Color = strings.ToLower(strings.TrimSpace(s.Color))
	}
	if c.Styles.Primary.Color == "" {
		c.Styles.Primary.Color = defaultPrimaryColor
	}
	if c.Styles.Secondary.Color == "" {
		c.Styles.Secondary.Color = defaultSecondaryColor
	}
	if c.Styles.Primary.FontSize == 0 {
		c.Styles.Primary.FontSize = defaultPrimaryFontSize
	}
	if c.Styles.Secondary.FontSize == 0 {
		c.Styles.Secondary.FontSize = defaultSecondaryFont
	}
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultBind
	}
	origins := c.Server.AllowedOrigins[:0]
	for _, o := range c.Server.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.Server.AllowedOrigins = origins
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
