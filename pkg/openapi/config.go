// Package openapi builds and serves an OpenAPI 3.1 description of the HTTP API.
package openapi

import "os"

// Config holds OpenAPI document metadata.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// ConfigEnv maps config fields to environment variable names for override injection.
type ConfigEnv struct {
	Title       string
	Description string
}

// Finalize applies defaults and environment variable overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}

func (c *Config) loadDefaults() {
	if c.Title == "" {
		c.Title = "Caregate API"
	}
	if c.Description == "" {
		c.Description = "Medical query intake, automated triage, and clinician review."
	}
}

func (c *Config) loadEnv(env *ConfigEnv) {
	for name, dst := range map[string]*string{
		env.Title:       &c.Title,
		env.Description: &c.Description,
	} {
		if name == "" {
			continue
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
}
