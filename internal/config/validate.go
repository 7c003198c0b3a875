package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/localstash/localstash/internal/messages"
)

// Validate ensures the config is complete and consistent.
func (c *Config) Validate(path string) error {
	for _, p := range c.SearchPaths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf(messages.ConfigSearchPathEmptyFmt, path)
		}
	}
	if c.Cache.TTL != "" {
		d, err := time.ParseDuration(c.Cache.TTL)
		if err != nil {
			return fmt.Errorf(messages.ConfigCacheTTLParseFmt, path, err)
		}
		if d < 0 {
			return fmt.Errorf(messages.ConfigCacheTTLInvalidFmt, path, c.Cache.TTL)
		}
	}
	if c.Tracking.SaveInterval != "" {
		d, err := time.ParseDuration(c.Tracking.SaveInterval)
		if err != nil {
			return fmt.Errorf(messages.ConfigSaveIntervalParseFmt, path, err)
		}
		if d <= 0 {
			return fmt.Errorf(messages.ConfigSaveIntervalInvalidFmt, path, c.Tracking.SaveInterval)
		}
	}
	return nil
}
