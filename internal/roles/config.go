package roles

import (
	"fmt"
	"os"
)

// Resolution modes.
const (
	ModeHeader = "header"
	ModeOIDC   = "oidc"
)

// Config selects how the caller's role is resolved.
type Config struct {
	Mode      string `toml:"mode"`
	Header    string `toml:"header"`
	Issuer    string `toml:"issuer"`
	ClientID  string `toml:"client_id"`
	RoleClaim string `toml:"role_claim"`
}

// Env maps config fields to environment variable names.
type Env struct {
	Mode      string
	Header    string
	Issuer    string
	ClientID  string
	RoleClaim string
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
	if overlay.Mode != "" {
		c.Mode = overlay.Mode
	}
	if overlay.Header != "" {
		c.Header = overlay.Header
	}
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
	if overlay.RoleClaim != "" {
		c.RoleClaim = overlay.RoleClaim
	}
}

func (c *Config) loadDefaults() {
	if c.Mode == "" {
		c.Mode = ModeHeader
	}
	if c.Header == "" {
		c.Header = "X-User-Role"
	}
	if c.RoleClaim == "" {
		c.RoleClaim = "roles"
	}
}

func (c *Config) loadEnv(env *Env) {
	for name, dst := range map[string]*string{
		env.Mode:      &c.Mode,
		env.Header:    &c.Header,
		env.Issuer:    &c.Issuer,
		env.ClientID:  &c.ClientID,
		env.RoleClaim: &c.RoleClaim,
	} {
		if name == "" {
			continue
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Mode {
	case ModeHeader:
		return nil
	case ModeOIDC:
		if c.Issuer == "" {
			return fmt.Errorf("issuer required for oidc mode")
		}
		return nil
	default:
		return fmt.Errorf("unknown auth mode %q", c.Mode)
	}
}
