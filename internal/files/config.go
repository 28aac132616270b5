package files

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/JaimeStill/caregate/pkg/formatting"
)

// Config controls attachment validation and retention.
type Config struct {
	MaxSize           string   `toml:"max_size"`
	AllowedExtensions []string `toml:"allowed_extensions"`
	Expiry            string   `toml:"expiry"`
	SweepInterval     string   `toml:"sweep_interval"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	MaxSize           string
	AllowedExtensions string
	Expiry            string
	SweepInterval     string
}

// MaxSizeBytes returns MaxSize in bytes.
func (c *Config) MaxSizeBytes() int64 {
	n, _ := formatting.ParseBytes(c.MaxSize)
	return n
}

// ExpiryDuration returns how long an attachment is retained.
func (c *Config) ExpiryDuration() time.Duration {
	d, _ := time.ParseDuration(c.Expiry)
	return d
}

// SweepIntervalDuration returns how often expired attachments are purged.
func (c *Config) SweepIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.SweepInterval)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.MaxSize != "" {
		c.MaxSize = overlay.MaxSize
	}
	if len(overlay.AllowedExtensions) > 0 {
		c.AllowedExtensions = overlay.AllowedExtensions
	}
	if overlay.Expiry != "" {
		c.Expiry = overlay.Expiry
	}
	if overlay.SweepInterval != "" {
		c.SweepInterval = overlay.SweepInterval
	}
}

func (c *Config) loadDefaults() {
	if c.MaxSize == "" {
		c.MaxSize = "5MB"
	}
	if len(c.AllowedExtensions) == 0 {
		c.AllowedExtensions = []string{".pdf", ".csv", ".txt"}
	}
	if c.Expiry == "" {
		c.Expiry = "30m"
	}
	if c.SweepInterval == "" {
		c.SweepInterval = "5m"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.MaxSize != "" {
		if v := os.Getenv(env.MaxSize); v != "" {
			c.MaxSize = v
		}
	}
	if env.AllowedExtensions != "" {
		if v := os.Getenv(env.AllowedExtensions); v != "" {
			var exts []string
			for ext := range strings.SplitSeq(v, ",") {
				if ext = strings.TrimSpace(ext); ext != "" {
					exts = append(exts, ext)
				}
			}
			c.AllowedExtensions = exts
		}
	}
	if env.Expiry != "" {
		if v := os.Getenv(env.Expiry); v != "" {
			c.Expiry = v
		}
	}
	if env.SweepInterval != "" {
		if v := os.Getenv(env.SweepInterval); v != "" {
			c.SweepInterval = v
		}
	}
}

func (c *Config) validate() error {
	size, err := formatting.ParseBytes(c.MaxSize)
	if err != nil {
		return fmt.Errorf("invalid max_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_size must be positive")
	}

	for i, ext := range c.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.AllowedExtensions[i] = ext
	}

	if d, err := time.ParseDuration(c.Expiry); err != nil || d <= 0 {
		return fmt.Errorf("invalid expiry: %q", c.Expiry)
	}
	if d, err := time.ParseDuration(c.SweepInterval); err != nil || d <= 0 {
		return fmt.Errorf("invalid sweep_interval: %q", c.SweepInterval)
	}
	return nil
}
