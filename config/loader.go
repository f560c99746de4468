package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultConfigPath is checked when no explicit path is given
const DefaultConfigPath = "tiltball.toml"

// Default returns the embedded configuration
func Default() *Config {
	c, err := Parse(defaultTOML)
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	c.Source = "embedded"
	return c
}

// Load resolves config with priority: customPath > DefaultConfigPath > embedded
func Load(customPath string) (*Config, error) {
	// Priority 1: Custom path from CLI
	if customPath != "" {
		if !fileExists(customPath) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, customPath)
		}
		return LoadFile(customPath)
	}

	// Priority 2: Default external config
	if fileExists(DefaultConfigPath) {
		return LoadFile(DefaultConfigPath)
	}

	// Priority 3: Embedded fallback
	return Default(), nil
}

// LoadFile decodes a TOML file over the embedded defaults
// Keys absent from the file keep their default values
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	c := Default()
	if err := decodeInto(c, string(data)); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	c.Source = path
	log.Printf("config: loaded %s", path)
	return c, nil
}

// Parse decodes TOML text into a fresh Config without defaults
func Parse(text string) (*Config, error) {
	var c Config
	if err := decodeInto(&c, text); err != nil {
		return nil, err
	}
	return &c, nil
}

func decodeInto(c *Config, text string) error {
	md, err := toml.Decode(text, c)
	if err != nil {
		return fmt.Errorf("failed to parse: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	return c.Validate()
}

// Encode writes the config as TOML, used by -dump-config
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
