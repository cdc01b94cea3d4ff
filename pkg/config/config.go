package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/promptdeck/promptdeck/pkg/workflow"
)

// Config holds all configuration for the promptdeck daemon.
type Config struct {
	Listen    string          `yaml:"listen"`
	Logging   LoggingConfig   `yaml:"logging"`
	Providers ProvidersConfig `yaml:"providers"`
	Dispatch  DispatchConfig  `yaml:"dispatch"`
	Workflow  WorkflowConfig  `yaml:"workflow"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// ProvidersConfig overrides endpoint base URLs. Credentials never live in
// config; they come from the environment or the key management API.
type ProvidersConfig struct {
	OpenAIBaseURL    string `yaml:"openai_base_url"`
	AnthropicBaseURL string `yaml:"anthropic_base_url"`
	GeminiBaseURL    string `yaml:"gemini_base_url"`
	DeepSeekBaseURL  string `yaml:"deepseek_base_url"`
	MetaBaseURL      string `yaml:"meta_base_url"`
	OllamaBaseURL    string `yaml:"ollama_base_url"`
}

type DispatchConfig struct {
	MaxRetries int      `yaml:"max_retries"`
	Backoff    Duration `yaml:"backoff"`
}

type WorkflowConfig struct {
	ProcessingTimeout Duration           `yaml:"processing_timeout"`
	Defaults          workflow.RunConfig `yaml:"defaults"`
}

// Duration is a time.Duration that unmarshals from YAML strings like "30s".
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Listen: envStr("PROMPTDECK_LISTEN", "127.0.0.1:8194"),
		Logging: LoggingConfig{
			Level:  envStr("PROMPTDECK_LOG_LEVEL", "info"),
			Pretty: envBool("PROMPTDECK_LOG_PRETTY", true),
		},
		Providers: ProvidersConfig{
			OllamaBaseURL: envStr("OLLAMA_BASE_URL", ""),
		},
		Dispatch: DispatchConfig{
			MaxRetries: envInt("PROMPTDECK_MAX_RETRIES", 0),
			Backoff:    Duration(500 * time.Millisecond),
		},
		Workflow: WorkflowConfig{
			ProcessingTimeout: Duration(workflow.DefaultProcessingTimeout),
			Defaults: workflow.RunConfig{
				ExtractionModel:   "gemini-2.5-flash",
				SolutionModel:     "gemini-2.5-flash",
				DebugModel:        "gemini-2.5-flash",
				ChatModel:         "gpt-4o",
				TeleprompterModel: "gpt-4o",
				Language:          "python",
			},
		},
	}
}

// Load reads the YAML file at path on top of the defaults. A missing path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.Dispatch.MaxRetries < 0 {
		return fmt.Errorf("dispatch.max_retries must not be negative")
	}
	if c.Workflow.ProcessingTimeout < 0 {
		return fmt.Errorf("workflow.processing_timeout must not be negative")
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
