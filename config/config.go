// Package config loads the runtime configuration once at startup. The
// resulting *Config is passed explicitly to every component.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/awantoch/trellis-mcp/constants"
	"github.com/awantoch/trellis-mcp/model"
	"github.com/awantoch/trellis-mcp/utils"
	"github.com/spf13/viper"
)

type Config struct {
	APIKey                string        `mapstructure:"api_key" yaml:"api_key"`
	APIBase               string        `mapstructure:"api_base" yaml:"api_base"`
	APIVersion            string        `mapstructure:"api_version" yaml:"api_version"`
	ProjectID             string        `mapstructure:"project_id" yaml:"project_id,omitempty"`
	WorkflowID            string        `mapstructure:"workflow_id" yaml:"workflow_id,omitempty"`
	RequestTimeoutSeconds int           `mapstructure:"request_timeout" yaml:"request_timeout"`
	Port                  int           `mapstructure:"port" yaml:"port"`
	OpsAddr               string        `mapstructure:"ops_addr" yaml:"ops_addr"`
	Debug                 bool          `mapstructure:"debug" yaml:"debug"`
	Log                   LogConfig     `mapstructure:"log" yaml:"log"`
	Tracing               TracingConfig `mapstructure:"tracing" yaml:"tracing"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

type TracingConfig struct {
	Exporter    string `mapstructure:"exporter" yaml:"exporter"`
	Endpoint    string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
}

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	"api_key":              constants.EnvAPIKey,
	"api_base":             constants.EnvAPIBase,
	"api_version":          constants.EnvAPIVersion,
	"project_id":           constants.EnvProjectID,
	"workflow_id":          constants.EnvWorkflowID,
	"request_timeout":      constants.EnvRequestTimeout,
	"port":                 constants.EnvPort,
	"ops_addr":             constants.EnvOpsAddr,
	"debug":                constants.EnvDebug,
	"log.level":            constants.EnvLogLevel,
	"tracing.exporter":     constants.EnvTraceExporter,
	"tracing.endpoint":     constants.EnvTraceEndpoint,
	"tracing.service_name": constants.EnvServiceName,
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_version", constants.DefaultAPIVersion)
	v.SetDefault("request_timeout", int(constants.DefaultRequestTimeout/time.Second))
	v.SetDefault("port", constants.DefaultPort)
	v.SetDefault("ops_addr", constants.DefaultOpsAddr)
	v.SetDefault("debug", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("tracing.exporter", constants.TraceExporterNone)
	v.SetDefault("tracing.service_name", constants.DefaultServiceName)
}

// Load reads defaults, then the optional config file at path, then the
// environment. A missing config file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
		}
	}

	lenientInt(v, "request_timeout")
	lenientInt(v, "port")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.APIBase = strings.TrimRight(cfg.APIBase, "/")
	return &cfg, nil
}

// lenientInt replaces an unparsable integer setting with 0 so the accessor
// falls back to its default instead of failing the load.
func lenientInt(v *viper.Viper, key string) {
	raw := strings.TrimSpace(v.GetString(key))
	n, err := strconv.Atoi(raw)
	if err != nil {
		if raw != "" {
			utils.Warn("ignoring invalid %s %q, using the default", key, raw)
		}
		n = 0
	}
	v.Set(key, n)
}

// Validate checks the settings every tool needs.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return &model.ConfigurationError{
			Setting: constants.EnvAPIKey,
			Message: constants.EnvAPIKey + " not found in environment variables",
		}
	}
	if c.APIBase == "" {
		return &model.ConfigurationError{
			Setting: constants.EnvAPIBase,
			Message: constants.EnvAPIBase + " not found in environment variables",
		}
	}
	return nil
}

// RequestTimeout is the per-request upstream timeout. Non-positive values
// fall back to the default.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return constants.DefaultRequestTimeout
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// RequireProjectID returns override when set, else the configured project.
func (c *Config) RequireProjectID(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if c.ProjectID == "" {
		return "", &model.ConfigurationError{
			Setting: constants.EnvProjectID,
			Message: "project_id not provided and " + constants.EnvProjectID + " not found in environment variables",
		}
	}
	return c.ProjectID, nil
}

// RequireWorkflowID returns the configured workflow.
func (c *Config) RequireWorkflowID() (string, error) {
	if c.WorkflowID == "" {
		return "", &model.ConfigurationError{
			Setting: constants.EnvWorkflowID,
			Message: constants.EnvWorkflowID + " not found in environment variables",
		}
	}
	return c.WorkflowID, nil
}

// ListenAddr is the MCP HTTP listen address.
func (c *Config) ListenAddr() string {
	port := c.Port
	if port <= 0 {
		port = constants.DefaultPort
	}
	return fmt.Sprintf(":%d", port)
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.APIKey != "" {
		c.APIKey = "****"
	}
	return c
}
