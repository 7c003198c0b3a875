package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelocatableDefault(t *testing.T) {
	var cfg Config
	assert.True(t, cfg.RelocatableDefault(), "unset defaults to movable")

	f := false
	cfg.DefaultRelocatable = &f
	assert.False(t, cfg.RelocatableDefault())
}

func TestSaveIntervalFallsBack(t *testing.T) {
	var cfg Config
	assert.Equal(t, DefaultSaveInterval, cfg.SaveInterval())

	cfg.Tracking.SaveInterval = "45s"
	assert.Equal(t, 45*time.Second, cfg.SaveInterval())
}

func TestCacheTTLDisabledByDefault(t *testing.T) {
	var cfg Config
	assert.Equal(t, time.Duration(0), cfg.CacheTTL())

	cfg.Cache.TTL = "90s"
	assert.Equal(t, 90*time.Second, cfg.CacheTTL())
}
