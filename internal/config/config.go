package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mcncl/gbln/internal/errors"
)

const (
	// MaxCompressionLevel is the highest accepted compression level.
	MaxCompressionLevel = 9
	// MaxIndent is the widest accepted pretty-print indent.
	MaxIndent = 64
)

// Config controls how a tree is written to disk. It is a plain value: copy it
// freely, it owns nothing.
type Config struct {
	MiniMode         bool  `yaml:"mini_mode"`
	Compress         bool  `yaml:"compress"`
	CompressionLevel uint8 `yaml:"compression_level"`
	Indent           int   `yaml:"indent"`
	// StripComments is carried for format compatibility. Value trees hold no
	// comments, so written output never contains any regardless of this flag.
	StripComments bool `yaml:"strip_comments"`
}

// Default returns the default preset: mini text, compressed.
func Default() Config {
	return IOFormat()
}

// Development returns a preset for human inspection: pretty and uncompressed.
func Development() Config {
	return Config{
		MiniMode:         false,
		Compress:         false,
		CompressionLevel: 6,
		Indent:           2,
		StripComments:    false,
	}
}

// IOFormat returns the preset used for persisted files.
func IOFormat() Config {
	return Config{
		MiniMode:         true,
		Compress:         true,
		CompressionLevel: 6,
		Indent:           2,
		StripComments:    true,
	}
}

// Validate reports settings the codec cannot honour.
func (c Config) Validate() error {
	if c.CompressionLevel > MaxCompressionLevel {
		return errors.Newf(errors.CodeIO, "compression level %d out of range 0..%d", c.CompressionLevel, MaxCompressionLevel)
	}
	if c.Indent < 0 || c.Indent > MaxIndent {
		return errors.Newf(errors.CodeIO, "indent %d out of range 0..%d", c.Indent, MaxIndent)
	}
	return nil
}

// Extension returns the conventional file suffix for output written with c.
func (c Config) Extension() string {
	switch {
	case c.Compress:
		return ".io.gbln.gz"
	case c.MiniMode:
		return ".io.gbln"
	default:
		return ".gbln"
	}
}

// LoadConfig loads configuration from a YAML file. Keys absent from the file
// keep their Default() values.
func LoadConfig(path string) (Config, error) {
	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	// Parse YAML
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".gbln.yml", ".gbln.yaml", "gbln.yml", "gbln.yaml"}

	// Start from current directory
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		// Move up one directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Overrides holds command-line settings. Nil fields were not given and leave
// the base value alone.
type Overrides struct {
	Pretty     *bool
	NoCompress *bool
	Level      *uint8
	Indent     *int
}

// Apply returns c with every set override applied.
func (c Config) Apply(o Overrides) Config {
	if o.Pretty != nil {
		c.MiniMode = !*o.Pretty
	}
	if o.NoCompress != nil {
		c.Compress = !*o.NoCompress
	}
	if o.Level != nil {
		c.CompressionLevel = *o.Level
	}
	if o.Indent != nil {
		c.Indent = *o.Indent
	}
	return c
}

// LoadConfigWithCLI loads config with CLI argument precedence:
// CLI > config file > defaults.
func LoadConfigWithCLI(configPath string, o Overrides) (Config, error) {
	// Start with defaults
	cfg := Default()

	// Load config file if provided
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return Config{}, err
		}
		cfg = fileConfig
	}

	cfg = cfg.Apply(o)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
