package prompts

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// CacheConfig bounds the in-memory cache of effective stage instructions.
type CacheConfig struct {
	Size int    `toml:"size"`
	TTL  string `toml:"ttl"`
}

// CacheEnv maps cache config fields to environment variable names.
type CacheEnv struct {
	Size string
	TTL  string
}

// TTLDuration returns TTL as a time.Duration.
func (c *CacheConfig) TTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *CacheConfig) Finalize(env *CacheEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *CacheConfig) Merge(overlay *CacheConfig) {
	if overlay.Size != 0 {
		c.Size = overlay.Size
	}
	if overlay.TTL != "" {
		c.TTL = overlay.TTL
	}
}

func (c *CacheConfig) loadDefaults() {
	if c.Size == 0 {
		c.Size = 16
	}
	if c.TTL == "" {
		c.TTL = "5m"
	}
}

func (c *CacheConfig) loadEnv(env *CacheEnv) {
	if env.Size != "" {
		if v := os.Getenv(env.Size); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Size = n
			}
		}
	}
	if env.TTL != "" {
		if v := os.Getenv(env.TTL); v != "" {
			c.TTL = v
		}
	}
}

func (c *CacheConfig) validate() error {
	if c.Size < 1 {
		return fmt.Errorf("size must be positive, got %d", c.Size)
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return fmt.Errorf("invalid ttl: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("ttl must be positive")
	}
	return nil
}
