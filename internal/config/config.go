package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the ais-search configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Models    ModelsConfig    `yaml:"models"`
	Metadata  MetadataConfig  `yaml:"metadata"`
	Search    SearchConfig    `yaml:"search"`
	Tokenizer TokenizerConfig `yaml:"tokenizer"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// ModelsConfig locates the trained embedding model artifacts. A variant v is
// loaded from <dir>/<name>_<v>.d2v.
type ModelsConfig struct {
	Dir            string      `yaml:"dir"`
	Name           string      `yaml:"name"`
	DefaultVariant string      `yaml:"default_variant"` // dm, dbow
	Infer          InferConfig `yaml:"infer"`
}

// InferConfig holds vector inference parameters for novel text.
type InferConfig struct {
	Alpha    float64 `yaml:"alpha"`
	MinAlpha float64 `yaml:"min_alpha"`
	Epochs   int     `yaml:"epochs"`
}

// MetadataConfig holds article metadata store settings.
type MetadataConfig struct {
	Driver    string   `yaml:"driver"` // fs, redis (default: fs)
	Dir       string   `yaml:"dir"`    // fs: directory of id_<id>.json files
	Addrs     []string `yaml:"addrs"`  // redis
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	KeyPrefix string   `yaml:"key_prefix"`
}

// SearchConfig holds ranking parameters. The year bounds and SIG sentinels
// delimit the clip ranges used by the extended search tier.
type SearchConfig struct {
	MaxCandidates    int     `yaml:"max_candidates"`
	MinResults       int     `yaml:"min_results"`
	SelfMatchCeiling float64 `yaml:"self_match_ceiling"`
	YearMin          string  `yaml:"year_min"`
	YearMax          string  `yaml:"year_max"`
	SIGStart         string  `yaml:"sig_start"`
	SIGEnd           string  `yaml:"sig_end"`
}

// TokenizerConfig holds tokenizer settings.
type TokenizerConfig struct {
	Mode string `yaml:"mode"` // morph, simple (default: morph)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Models.Name == "" {
		c.Models.Name = "ipsj"
	}
	if c.Models.DefaultVariant == "" {
		c.Models.DefaultVariant = "dm"
	}
	if c.Models.Infer.Alpha <= 0 {
		c.Models.Infer.Alpha = 0.1
	}
	if c.Models.Infer.MinAlpha <= 0 {
		c.Models.Infer.MinAlpha = 0.0001
	}
	if c.Models.Infer.Epochs <= 0 {
		c.Models.Infer.Epochs = 5
	}
	if c.Metadata.Driver == "" {
		c.Metadata.Driver = "fs"
	}
	if c.Metadata.KeyPrefix == "" {
		c.Metadata.KeyPrefix = "ais:"
	}
	if c.Search.MaxCandidates <= 0 {
		c.Search.MaxCandidates = 100
	}
	if c.Search.MinResults <= 0 {
		c.Search.MinResults = 20
	}
	if c.Search.SelfMatchCeiling <= 0 {
		c.Search.SelfMatchCeiling = 0.9999
	}
	if c.Search.YearMin == "" {
		c.Search.YearMin = "1973"
	}
	if c.Search.YearMax == "" {
		c.Search.YearMax = "2017"
	}
	if c.Search.SIGStart == "" {
		c.Search.SIGStart = "SIG"
	}
	if c.Search.SIGEnd == "" {
		c.Search.SIGEnd = "SIG-end"
	}
	if c.Tokenizer.Mode == "" {
		c.Tokenizer.Mode = "morph"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Models.Dir == "" {
		return fmt.Errorf("models.dir is required")
	}
	switch c.Models.DefaultVariant {
	case "dm", "dbow":
		// ok
	default:
		return fmt.Errorf("models.default_variant must be \"dm\" or \"dbow\", got %q",
			c.Models.DefaultVariant)
	}
	switch c.Metadata.Driver {
	case "fs":
		if c.Metadata.Dir == "" {
			return fmt.Errorf("metadata.dir is required for the fs driver")
		}
	case "redis":
		if len(c.Metadata.Addrs) == 0 {
			return fmt.Errorf("metadata.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("metadata.driver must be \"fs\" or \"redis\", got %q", c.Metadata.Driver)
	}
	switch c.Tokenizer.Mode {
	case "morph", "simple":
		// ok
	default:
		return fmt.Errorf("tokenizer.mode must be \"morph\" or \"simple\", got %q", c.Tokenizer.Mode)
	}
	if c.Search.MinResults > c.Search.MaxCandidates {
		return fmt.Errorf("search.min_results (%d) must not exceed search.max_candidates (%d)",
			c.Search.MinResults, c.Search.MaxCandidates)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
