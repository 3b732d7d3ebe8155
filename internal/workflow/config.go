package workflow

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const (
	ConfigDir  = ".actionsmith"
	ConfigFile = "pipeline.yaml"

	ModePR     = "pr"
	ModeDirect = "direct"
)

var ErrNotFound = errors.New("pipeline config not found")

// Config is the user's declarative pipeline description, the source the merge
// plans are expanded from.
type Config struct {
	Name     string            `yaml:"name"`
	Version  string            `yaml:"version,omitempty"`
	Mode     string            `yaml:"mode,omitempty"`
	Schedule string            `yaml:"schedule,omitempty"`
	Branches []string          `yaml:"branches,omitempty"`
	Secrets  map[string]string `yaml:"secrets,omitempty"`
	Targets  []Target          `yaml:"targets,omitempty"`
}

type Target struct {
	Name     string `yaml:"name"`
	Language string `yaml:"language"`
	Publish  bool   `yaml:"publish,omitempty"`
}

func (c *Config) EffectiveMode() string {
	if c.Mode == "" {
		return ModePR
	}
	return c.Mode
}

func (c *Config) EffectiveBranches() []string {
	if len(c.Branches) == 0 {
		return []string{"main"}
	}
	return c.Branches
}

func (c *Config) PublishingTargets() []Target {
	return lo.Filter(c.Targets, func(t Target, _ int) bool {
		return t.Publish
	})
}

func (c *Config) validate() error {
	if c.Name == "" {
		return errors.New("pipeline config is missing a name")
	}
	if c.Mode != "" && c.Mode != ModePR && c.Mode != ModeDirect {
		return errors.Errorf("mode must be %q or %q, got %q", ModePR, ModeDirect, c.Mode)
	}
	return nil
}

// Load reads and validates the pipeline config, searching dir and its parents
// the way the CLI discovers it from any subdirectory of a project.
func Load(dir string) (*Config, string, error) {
	path, err := findConfig(dir)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", errors.Wrapf(err, "failed to read %s", path)
	}

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, "", errors.Wrapf(err, "failed to parse %s", path)
	}

	if err := cfg.validate(); err != nil {
		return nil, "", err
	}

	return &cfg, path, nil
}

// Save writes the pipeline config back, used by version bumps.
func Save(path string, cfg *Config) error {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return errors.Wrap(err, "failed to encode pipeline config")
	}
	if err := encoder.Close(); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func findConfig(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		path := filepath.Join(current, ConfigDir, ConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrNotFound
		}
		current = parent
	}
}
