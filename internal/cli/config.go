package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	maxWalkDepth = 25
)

// configNames are the file names tried in each directory, in order.
var configNames = []string{"csvflow.yaml", "csvflow.yml"}

// Config represents the csvflow configuration from csvflow.yaml.
// Every key can also be set through a CSVFLOW_ environment variable.
type Config struct {
	// Types is the CUE file declaring the source and target types.
	Types string `mapstructure:"types"`

	// Source and Target name the types to relate.
	Source string `mapstructure:"source"`
	Target string `mapstructure:"target"`

	// DB is the snapshot database. Empty disables persistence.
	DB string `mapstructure:"db"`

	// Format is the default output format.
	Format string `mapstructure:"format"`

	// Anchored requires CSV column names to be full paths.
	Anchored bool `mapstructure:"anchored"`
}

// LoadConfig discovers and loads configuration with proper precedence:
// flags > env > config file > defaults. Flags are applied by the commands.
//
// Returns the loaded config, the path to the config file (empty if none found),
// and any error encountered.
func LoadConfig(explicitConfigPath string) (*Config, string, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("CSVFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath, err := findConfigFile(explicitConfigPath)
	if err != nil {
		return nil, "", err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Relative paths in a config file are relative to the file.
	if configPath != "" {
		base := filepath.Dir(configPath)
		cfg.Types = relativeTo(base, cfg.Types, v.InConfig("types") && os.Getenv("CSVFLOW_TYPES") == "")
		cfg.DB = relativeTo(base, cfg.DB, v.InConfig("db") && os.Getenv("CSVFLOW_DB") == "")
	}

	return &cfg, configPath, nil
}

func relativeTo(base, path string, fromFile bool) string {
	if !fromFile || path == "" || filepath.IsAbs(path) || path == ":memory:" {
		return path
	}
	return filepath.Join(base, path)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("types", "")
	v.SetDefault("source", "")
	v.SetDefault("target", "")
	v.SetDefault("db", "")
	v.SetDefault("format", "text")
	v.SetDefault("anchored", false)
}

// findConfigFile finds the config file to use.
// If explicitPath is provided, it validates the file exists.
// Otherwise, it walks up from cwd looking for csvflow.yaml or csvflow.yml,
// stopping at a .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}

	dir := cwd
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		// Stop at the repository root (.git file or directory)
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", nil // No config found, use defaults
}
