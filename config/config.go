// Package config holds the editor settings read from duckling.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/milk9111/duckling/command"
	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/logging"
	"gopkg.in/yaml.v3"
)

const (
	KeysSequential = "sequential"
	KeysUUID       = "uuid"

	ProjectsFile    = "file"
	ProjectsAppData = "appdata"
)

type Window struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type Config struct {
	ProjectRoot        string `yaml:"project_root"`
	Map                string `yaml:"map"`
	RecentProjectsFile string `yaml:"recent_projects_file"`
	ProjectsBackend    string `yaml:"projects_backend"`
	Keys               string `yaml:"keys"`
	UndoLimit          int    `yaml:"undo_limit"`
	MergeEdits         bool   `yaml:"merge_edits"`
	Compress           bool   `yaml:"compress"`
	LogLevel           string `yaml:"log_level"`
	Template           string `yaml:"template"`
	Window             Window `yaml:"window"`
}

func Default() Config {
	recent := ""
	if home, err := os.UserHomeDir(); err == nil {
		recent = filepath.Join(home, ".duckling", "recent_projects.json")
	}
	return Config{
		ProjectRoot:        ".",
		Map:                "main",
		RecentProjectsFile: recent,
		ProjectsBackend:    ProjectsFile,
		Keys:               KeysSequential,
		UndoLimit:          command.DefaultLimit,
		LogLevel:           "info",
		Template:           "rectangle.yaml",
		Window:             Window{Width: 1280, Height: 720},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Keys {
	case KeysSequential, KeysUUID:
	default:
		return fmt.Errorf("keys must be %q or %q, got %q", KeysSequential, KeysUUID, c.Keys)
	}
	switch c.ProjectsBackend {
	case ProjectsFile, ProjectsAppData:
	default:
		return fmt.Errorf("projects_backend must be %q or %q, got %q", ProjectsFile, ProjectsAppData, c.ProjectsBackend)
	}
	if c.UndoLimit < 0 {
		return fmt.Errorf("undo_limit must not be negative")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Map == "" {
		return fmt.Errorf("map must not be empty")
	}
	return nil
}

// KeyGenerator returns the entity key strategy the config names.
func (c Config) KeyGenerator() ecs.KeyGenerator {
	if c.Keys == KeysUUID {
		return ecs.UUIDKeys{}
	}
	return &ecs.SequentialKeys{}
}

// QueueOptions returns the history options the config names.
func (c Config) QueueOptions() []command.QueueOption {
	opts := []command.QueueOption{command.WithLimit(c.UndoLimit)}
	if c.MergeEdits {
		opts = append(opts, command.WithMerging())
	}
	return opts
}
