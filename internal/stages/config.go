package stages

import (
	"fmt"
	"os"
	"time"
)

// Providers supported by NewBackend.
const (
	ProviderOpenAI = "openai"
	ProviderAzure  = "azure"
	ProviderOllama = "ollama"
	ProviderMock   = "mock"
)

// Upper bounds for per-stage timeouts.
const (
	MaxEnhanceTimeout = 30 * time.Second
	MaxScoreTimeout   = 30 * time.Second
	MaxRespondTimeout = 60 * time.Second
)

// Config is the explicit configuration of the stage invoker. It is fully
// resolved by Finalize before construction; the invoker never reads the
// environment itself.
type Config struct {
	Provider   string `toml:"provider"`
	Model      string `toml:"model"`
	BaseURL    string `toml:"base_url"`
	Token      string `toml:"token"`
	Deployment string `toml:"deployment"`
	APIVersion string `toml:"api_version"`

	Enhance StageConfig `toml:"enhance"`
	Score   StageConfig `toml:"score"`
	Respond StageConfig `toml:"respond"`
}

// StageConfig holds per-stage call parameters. A zero Temperature selects
// the stage default.
type StageConfig struct {
	Timeout     string  `toml:"timeout"`
	Temperature float32 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *StageConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Env maps config fields to environment variable names.
type Env struct {
	Provider       string
	Model          string
	BaseURL        string
	Token          string
	Deployment     string
	APIVersion     string
	EnhanceTimeout string
	ScoreTimeout   string
	RespondTimeout string
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
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.Deployment != "" {
		c.Deployment = overlay.Deployment
	}
	if overlay.APIVersion != "" {
		c.APIVersion = overlay.APIVersion
	}
	c.Enhance.merge(&overlay.Enhance)
	c.Score.merge(&overlay.Score)
	c.Respond.merge(&overlay.Respond)
}

func (c *StageConfig) merge(overlay *StageConfig) {
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
}

func (c *StageConfig) defaults(timeout string, temperature float32, maxTokens int) {
	if c.Timeout == "" {
		c.Timeout = timeout
	}
	if c.Temperature == 0 {
		c.Temperature = temperature
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = maxTokens
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderMock
	}
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.Provider == ProviderOllama && c.BaseURL == "" {
		c.BaseURL = "http://localhost:11434/v1"
	}
	if c.Provider == ProviderAzure && c.APIVersion == "" {
		c.APIVersion = "2024-06-01"
	}

	c.Enhance.defaults("30s", 0.3, 500)
	c.Score.defaults("30s", 0.1, 10)
	c.Respond.defaults("60s", 0.4, 1000)
}

func (c *Config) loadEnv(env *Env) {
	for name, dst := range map[string]*string{
		env.Provider:       &c.Provider,
		env.Model:          &c.Model,
		env.BaseURL:        &c.BaseURL,
		env.Token:          &c.Token,
		env.Deployment:     &c.Deployment,
		env.APIVersion:     &c.APIVersion,
		env.EnhanceTimeout: &c.Enhance.Timeout,
		env.ScoreTimeout:   &c.Score.Timeout,
		env.RespondTimeout: &c.Respond.Timeout,
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
	switch c.Provider {
	case ProviderMock, ProviderOllama:
	case ProviderOpenAI:
		if c.Token == "" {
			return fmt.Errorf("token required for provider %s", c.Provider)
		}
	case ProviderAzure:
		if c.Token == "" || c.BaseURL == "" || c.Deployment == "" {
			return fmt.Errorf("token, base_url, and deployment required for provider %s", c.Provider)
		}
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}

	for _, st := range []struct {
		name    string
		cfg     *StageConfig
		ceiling time.Duration
	}{
		{"enhance", &c.Enhance, MaxEnhanceTimeout},
		{"score", &c.Score, MaxScoreTimeout},
		{"respond", &c.Respond, MaxRespondTimeout},
	} {
		name, sc := st.name, st.cfg
		d, err := time.ParseDuration(sc.Timeout)
		if err != nil {
			return fmt.Errorf("invalid %s timeout: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s timeout must be positive", name)
		}
		if d > st.ceiling {
			return fmt.Errorf("%s timeout %s exceeds %s", name, d, st.ceiling)
		}
		if sc.MaxTokens < 1 {
			return fmt.Errorf("%s max_tokens must be positive, got %d", name, sc.MaxTokens)
		}
	}
	return nil
}
