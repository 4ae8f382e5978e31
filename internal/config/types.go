package config

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

// Config holds the launcher settings a user may override. The zero value is
// not usable; start from Default.
type Config struct {
	// ReleaseURL is the base the artifact URL is built from. The pinned
	// version and artifact name are appended to it.
	ReleaseURL string

	// UserAgent is sent with the artifact download.
	UserAgent string

	// Debug enables debug logging.
	Debug bool
}

// Default returns the settings used when no config file exists.
func Default(releaseURL, userAgent string) *Config {
	return &Config{
		ReleaseURL: releaseURL,
		UserAgent:  userAgent,
	}
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if err := validateReleaseURL(c.ReleaseURL); err != nil {
		return err
	}
	if err := validateUserAgent(c.UserAgent); err != nil {
		return err
	}
	return nil
}

func validateReleaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%s: must not be empty", luaFieldRelease)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", luaFieldRelease, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: unsupported scheme %q (use http or https)", luaFieldRelease, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s: missing host", luaFieldRelease)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("%s: query and fragment are not allowed", luaFieldRelease)
	}
	return nil
}

func validateUserAgent(ua string) error {
	if strings.TrimSpace(ua) == "" {
		return fmt.Errorf("%s: must not be empty", luaFieldUserAgent)
	}
	for _, r := range ua {
		if unicode.IsControl(r) {
			return fmt.Errorf("%s: contains control character %q", luaFieldUserAgent, r)
		}
	}
	return nil
}
