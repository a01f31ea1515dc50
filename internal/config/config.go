package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// SourceConfig names a labeled CSV file and the columns holding text and label.
type SourceConfig struct {
	Name        string `yaml:"name"`
	Path        string `yaml:"path"`
	TextColumn  string `yaml:"text_column"`
	LabelColumn string `yaml:"label_column"`
}

// Config holds application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	// Either a versioned directory (dir/version/manifest.yaml) or explicit paths
	Artifacts struct {
		Dir            string `yaml:"dir"`
		Version        string `yaml:"version"`
		VectorizerPath string `yaml:"vectorizer_path"`
		ModelPath      string `yaml:"model_path"`
	} `yaml:"artifacts"`

	Database struct {
		Path string `yaml:"path"` // SQLite path or PostgreSQL URL
		Type string `yaml:"type"` // "sqlite" or "postgres"
	} `yaml:"database"`

	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`

	Explain struct {
		MaxTopN int `yaml:"max_top_n"`
	} `yaml:"explain"`

	Dataset struct {
		Sources []SourceConfig `yaml:"sources"`
		// Source label spelling -> canonical label
		LabelAliases map[string]string `yaml:"label_aliases"`
	} `yaml:"dataset"`

	Training struct {
		MaxFeatures int     `yaml:"max_features"`
		TestSize    float64 `yaml:"test_size"`
		Seed        int64   `yaml:"seed"`
		C           float64 `yaml:"c"`
		MaxIter     int     `yaml:"max_iter"`
		Tolerance   float64 `yaml:"tolerance"`
	} `yaml:"training"`
}

// DefaultLabelAliases maps the source spellings seen in the original
// datasets to the two canonical labels.
var DefaultLabelAliases = map[string]string{
	"suicide":                "suicidal",
	"non-suicide":            "non-suicidal",
	"not suicide post":       "non-suicidal",
	"potential suicide post": "suicidal",
	"non-suicide post":       "non-suicidal",
	"non suicide":            "non-suicidal",
}

// LoadConfig loads configuration from YAML file
func LoadConfig(configPath string) (*Config, error) {
	// A .env next to the working directory is optional
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.applyDefaults()

	// Expand environment variables in secrets and connection strings
	config.Auth.JWTSecret = os.ExpandEnv(config.Auth.JWTSecret)
	config.Database.Path = os.ExpandEnv(config.Database.Path)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}

	if c.Artifacts.Dir == "" {
		c.Artifacts.Dir = "./data/models"
	}

	if c.Artifacts.Version == "" {
		c.Artifacts.Version = "v1"
	}

	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}

	if c.Database.Path == "" {
		c.Database.Path = "./data/datasets.db"
	}

	if c.Explain.MaxTopN == 0 {
		c.Explain.MaxTopN = 50
	}

	if c.Dataset.LabelAliases == nil {
		c.Dataset.LabelAliases = maps.Clone(DefaultLabelAliases)
	}

	if c.Training.MaxFeatures == 0 {
		c.Training.MaxFeatures = 5000
	}

	if c.Training.TestSize == 0 {
		c.Training.TestSize = 0.2
	}

	if c.Training.Seed == 0 {
		c.Training.Seed = 42
	}

	if c.Training.C == 0 {
		c.Training.C = 1.0
	}

	if c.Training.MaxIter == 0 {
		c.Training.MaxIter = 1000
	}

	if c.Training.Tolerance == 0 {
		c.Training.Tolerance = 1e-4
	}
}

// Validate checks values that have no sensible default.
func (c *Config) Validate() error {
	if c.Database.Type != "sqlite" && c.Database.Type != "postgres" {
		return fmt.Errorf("unsupported database type %q", c.Database.Type)
	}
	if (c.Artifacts.VectorizerPath == "") != (c.Artifacts.ModelPath == "") {
		return fmt.Errorf("artifacts.vectorizer_path and artifacts.model_path must be set together")
	}
	if c.Training.TestSize <= 0 || c.Training.TestSize >= 1 {
		return fmt.Errorf("training.test_size must be in (0,1), got %v", c.Training.TestSize)
	}
	if c.Explain.MaxTopN < 1 {
		return fmt.Errorf("explain.max_top_n must be positive, got %d", c.Explain.MaxTopN)
	}
	for i, s := range c.Dataset.Sources {
		if s.Path == "" || s.TextColumn == "" || s.LabelColumn == "" {
			return fmt.Errorf("dataset source %d needs path, text_column and label_column", i)
		}
	}
	return nil
}

// VersionDir returns the directory holding the configured artifact version.
func (c *Config) VersionDir() string {
	return filepath.Join(c.Artifacts.Dir, c.Artifacts.Version)
}

// ExplicitArtifacts reports whether artifact file paths were set directly.
func (c *Config) ExplicitArtifacts() bool {
	return c.Artifacts.VectorizerPath != "" && c.Artifacts.ModelPath != ""
}
