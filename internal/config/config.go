// Package config loads the blogbuilder configuration file and applies
// defaults. Environment variables from a .env file are loaded first and the
// raw YAML is expanded with ${VAR} substitution before parsing, so secrets
// and machine-specific paths can stay out of the file itself.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// DefaultPath is where commands look for configuration when no explicit
// --config flag is given.
const DefaultPath = "config.yaml"

// Config represents the application configuration.
type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Site      SiteConfig      `yaml:"site"`
	Templates TemplatesConfig `yaml:"templates"`
	Output    OutputConfig    `yaml:"output"`
	Build     BuildConfig     `yaml:"build"`
}

// SourceConfig describes where the content tree comes from. Repository and
// Path are mutually exclusive; when both are empty the build command requires
// one of its source flags.
type SourceConfig struct {
	Repository string `yaml:"repository,omitempty"` // Git URL to clone
	Branch     string `yaml:"branch,omitempty"`     // Branch to clone, remote HEAD when empty
	Depth      int    `yaml:"depth,omitempty"`      // Shallow clone depth, 0 = full history
	Path       string `yaml:"path,omitempty"`       // Local tree, used instead of cloning
	ContentDir string `yaml:"content_dir"`          // Subdirectory holding the documents
}

// SiteConfig carries the site identity injected into templates.
type SiteConfig struct {
	Title      string    `yaml:"title,omitempty"`     // Defaults to the repository or source name
	Copyright  string    `yaml:"copyright,omitempty"` // Defaults to "© <year> <title>"
	Navigation []NavLink `yaml:"navigation,omitempty"`
}

// NavLink is one entry of the page navigation bar.
type NavLink struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// TemplatesConfig locates the external placeholder templates.
type TemplatesConfig struct {
	Dir    string `yaml:"dir"`              // Template directory
	Page   string `yaml:"page,omitempty"`   // Per-document page template
	Home   string `yaml:"home,omitempty"`   // Home/index template
	Strict bool   `yaml:"strict,omitempty"` // Fail instead of falling back on a missing page template
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// BuildConfig tunes pipeline execution.
type BuildConfig struct {
	Workers int `yaml:"workers,omitempty"` // Parallel render workers, 0 = number of CPUs
}

// Default returns a configuration with all defaults applied and no file read.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Source.ContentDir == "" {
		c.Source.ContentDir = "blogs"
	}
	if c.Output.Directory == "" {
		c.Output.Directory = "./site"
	}
	if c.Templates.Dir == "" {
		c.Templates.Dir = "templates"
	}
	if c.Templates.Page == "" {
		c.Templates.Page = filepath.Join(c.Templates.Dir, "page.html")
	}
	if c.Templates.Home == "" {
		c.Templates.Home = filepath.Join(c.Templates.Dir, "home.html")
	}
}

func (c *Config) validate() error {
	if c.Source.Repository != "" && c.Source.Path != "" {
		return fmt.Errorf("source.repository and source.path are mutually exclusive")
	}
	if c.Source.Depth < 0 {
		return fmt.Errorf("source.depth must not be negative, got %d", c.Source.Depth)
	}
	if c.Build.Workers < 0 {
		return fmt.Errorf("build.workers must not be negative, got %d", c.Build.Workers)
	}
	return nil
}

// loadEnvFile loads environment variables from the first .env file found.
// Existing environment variables are never overridden.
func loadEnvFile() {
	for _, envPath := range []string{".env", ".env.local"} {
		if err := godotenv.Load(envPath); err == nil {
			slog.Debug("Loaded environment variables", logfields.Path(envPath))
			return
		}
	}
}
