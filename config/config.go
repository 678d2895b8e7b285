// Package config provides YAML configuration parsing for buildlight.
//
// This package enables running buildlight as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	poll_interval: 10s
//	allowed_failures: 5
//	emitter: terminal
//
//	providers:
//	  - name: Jenkins
//	    type: jenkins
//	    url: https://jenkins.example.com
//	    username: ${JENKINS_USER}
//	    password: ${JENKINS_PASS}
//
//	  - name: Unity Cloud
//	    type: unitycloud
//	    url: https://build-api.cloud.unity3d.com/api/v1/orgs/acme/projects/game
//	    api_token: ${UNITY_TOKEN}
//	    interval: 1m
//	    adaptive: true
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// minPollInterval is the minimum allowed polling interval. This prevents
// accidental DoS of providers with overly aggressive polling.
const minPollInterval = 1 * time.Second

// Provider types accepted in the configuration.
const (
	TypeJenkins    = "jenkins"
	TypeTeamCity   = "teamcity"
	TypeUnityCloud = "unitycloud"
)

// Emitter kinds accepted in the configuration.
const (
	EmitterTerminal = "terminal"
	EmitterLog      = "log"
)

// Config is the root configuration structure for buildlight.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// PollInterval is the default time between poll cycles for
	// providers that do not set their own interval.
	// Accepts duration strings like "10s", "1m", "500ms". Defaults to 10s.
	PollInterval Duration `yaml:"poll_interval"`

	// AllowedFailures is the process-wide failure budget: the number of
	// abnormal worker terminations tolerated before every worker is
	// forced to stop. Defaults to 5.
	AllowedFailures *uint32 `yaml:"allowed_failures"`

	// Emitter selects how visual states are rendered: "terminal" for
	// styled lamp glyphs on stdout, "log" for structured log lines.
	// Defaults to "terminal".
	Emitter string `yaml:"emitter"`

	// Providers defines the CI providers to poll.
	Providers []ProviderConfig `yaml:"providers"`
}

// ProviderConfig defines a single CI provider.
type ProviderConfig struct {
	// Name is the display name shown on the signal and in logs.
	Name string `yaml:"name"`

	// Type selects the provider client: jenkins, teamcity, or
	// unitycloud.
	Type string `yaml:"type"`

	// URL is the provider's API base URL.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	URL string `yaml:"url"`

	// Username and Password authenticate jenkins and teamcity
	// providers. Values support environment variable substitution.
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// APIToken authenticates unitycloud providers. Supports environment
	// variable substitution.
	APIToken string `yaml:"api_token"`

	// Targets are the unitycloud build targets to poll. Defaults to the
	// ios/android development targets when empty.
	Targets []string `yaml:"targets"`

	// Interval overrides the global poll_interval for this provider.
	// Must be between 1s and 1h.
	Interval Duration `yaml:"interval"`

	// Adaptive enables rate-limit-driven interval control. Only
	// meaningful for providers whose API publishes rate-limit headers
	// (unitycloud).
	Adaptive bool `yaml:"adaptive"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with
// environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before validation.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in URL and credential values.
// Defaults are applied for PollInterval (10s), AllowedFailures (5), and
// Emitter (terminal).
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.PollInterval == 0 {
		cfg.PollInterval = Duration(10 * time.Second)
	}
	if cfg.Emitter == "" {
		cfg.Emitter = EmitterTerminal
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FailureBudget returns the configured failure budget, defaulting to 5.
func (c *Config) FailureBudget() uint32 {
	if c.AllowedFailures == nil {
		return 5
	}
	return *c.AllowedFailures
}

// expandAndValidate expands environment variables and validates the
// config.
func (c *Config) expandAndValidate() error {
	if c.PollInterval.Duration() < minPollInterval {
		return fmt.Errorf("poll_interval must be at least %s, got %s", minPollInterval, c.PollInterval.Duration())
	}

	if c.Emitter != EmitterTerminal && c.Emitter != EmitterLog {
		return fmt.Errorf("emitter must be %q or %q, got %q", EmitterTerminal, EmitterLog, c.Emitter)
	}

	if len(c.Providers) == 0 {
		return errors.New("at least one provider must be defined")
	}

	for i := range c.Providers {
		p := &c.Providers[i]

		if p.Name == "" {
			return fmt.Errorf("providers[%d]: name is required", i)
		}

		if p.URL == "" {
			return fmt.Errorf("providers[%d] (%s): url is required", i, p.Name)
		}
		expanded, err := expandEnvVars(p.URL)
		if err != nil {
			return fmt.Errorf("providers[%d] (%s): url: %w", i, p.Name, err)
		}
		p.URL = expanded

		parsedURL, err := url.Parse(p.URL)
		if err != nil {
			return fmt.Errorf("providers[%d] (%s): invalid url: %w", i, p.Name, err)
		}
		if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			return fmt.Errorf("providers[%d] (%s): url scheme must be http or https, got %q", i, p.Name, parsedURL.Scheme)
		}

		for _, cred := range []*string{&p.Username, &p.Password, &p.APIToken} {
			expanded, err := expandEnvVars(*cred)
			if err != nil {
				return fmt.Errorf("providers[%d] (%s): credentials: %w", i, p.Name, err)
			}
			*cred = expanded
		}

		switch p.Type {
		case TypeJenkins, TypeTeamCity:
			if p.Username == "" || p.Password == "" {
				return fmt.Errorf("providers[%d] (%s): type %q requires username and password", i, p.Name, p.Type)
			}
			if p.Adaptive {
				return fmt.Errorf("providers[%d] (%s): type %q does not publish rate-limit headers; adaptive is not supported", i, p.Name, p.Type)
			}
		case TypeUnityCloud:
			if p.APIToken == "" {
				return fmt.Errorf("providers[%d] (%s): type %q requires api_token", i, p.Name, p.Type)
			}
		case "":
			return fmt.Errorf("providers[%d] (%s): type is required", i, p.Name)
		default:
			return fmt.Errorf("providers[%d] (%s): unknown type %q (expected %q, %q, or %q)",
				i, p.Name, p.Type, TypeJenkins, TypeTeamCity, TypeUnityCloud)
		}

		if p.Interval != 0 {
			if p.Interval.Duration() < time.Second {
				return fmt.Errorf("providers[%d] (%s): interval must be at least 1s, got %s",
					i, p.Name, p.Interval.Duration())
			}
			if p.Interval.Duration() > time.Hour {
				return fmt.Errorf("providers[%d] (%s): interval must not exceed 1h, got %s",
					i, p.Name, p.Interval.Duration())
			}
		}
	}

	return nil
}
