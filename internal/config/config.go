package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/sjson"
)

const (
	appName              = "togglelist"
	defaultDataDirectory = ".togglelist"
	defaultCount         = 1002
	defaultItemSize      = 1
	defaultWidth         = 40
	defaultHeight        = 16
	defaultOverscan      = 2
)

// ProjectConfigNames are the per-project config files, lowest priority first.
var ProjectConfigNames = []string{
	appName + ".json",
	"." + appName + ".json",
}

var (
	ErrInvalidCount    = errors.New("count must not be negative")
	ErrInvalidItemSize = errors.New("item size must be at least 1")
	ErrInvalidSize     = errors.New("width and height must not be negative")
	ErrInvalidOverscan = errors.New("overscan must not be negative")
)

// Options holds everything the list demo can be tuned with.
type Options struct {
	// Number of items generated at startup.
	Count int `json:"count"`
	// Height of a row in terminal lines.
	ItemSize int `json:"item_size"`
	// Viewport size in cells. Zero fills the terminal.
	Width  int `json:"width"`
	Height int `json:"height"`
	// Rows rendered outside the viewport on each side.
	Overscan     int    `json:"overscan"`
	UniqueLabels bool   `json:"unique_labels,omitempty"`
	Seed         uint64 `json:"seed,omitempty"`
	Debug        bool   `json:"debug,omitempty"`
	// Relative to the working directory.
	DataDirectory  string `json:"data_directory,omitempty"`
	MetricsAddress string `json:"metrics_address,omitempty"`
}

// Config is the loaded configuration together with where it came from.
type Config struct {
	Options Options `json:"options"`

	workingDir string
	// file written by SetConfigField
	projectConfigPath string
}

// Defaults returns the built-in options.
func Defaults() Options {
	return Options{
		Count:         defaultCount,
		ItemSize:      defaultItemSize,
		Width:         defaultWidth,
		Height:        defaultHeight,
		Overscan:      defaultOverscan,
		DataDirectory: defaultDataDirectory,
	}
}

// Validate reports the first invalid option.
func (o Options) Validate() error {
	switch {
	case o.Count < 0:
		return fmt.Errorf("%w: %d", ErrInvalidCount, o.Count)
	case o.ItemSize < 1:
		return fmt.Errorf("%w: %d", ErrInvalidItemSize, o.ItemSize)
	case o.Width < 0 || o.Height < 0:
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, o.Width, o.Height)
	case o.Overscan < 0:
		return fmt.Errorf("%w: %d", ErrInvalidOverscan, o.Overscan)
	}
	return nil
}

func (c *Config) WorkingDir() string {
	return c.workingDir
}

// DataDir returns the absolute data directory.
func (c *Config) DataDir() string {
	if filepath.IsAbs(c.Options.DataDirectory) {
		return c.Options.DataDirectory
	}
	return filepath.Join(c.workingDir, c.Options.DataDirectory)
}

// LogFile returns the path of the application log.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir(), "logs", appName+".log")
}

// ProjectConfigPath returns the project file SetConfigField writes to.
func (c *Config) ProjectConfigPath() string {
	return c.projectConfigPath
}

// SetConfigField sets key (a dotted JSON path) to value in the project
// config file, creating the file if needed. The file is left untouched when
// the merged result would not validate.
func (c *Config) SetConfigField(key string, value any) error {
	data, err := os.ReadFile(c.projectConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			data = []byte("{}")
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	newValue, err := sjson.Set(string(data), key, value)
	if err != nil {
		return fmt.Errorf("failed to set config field %s: %w", key, err)
	}

	opts, err := mergeOptions(configPaths(c.workingDir), map[string][]byte{
		c.projectConfigPath: []byte(newValue),
	})
	if err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("refusing to set %s: %w", key, err)
	}

	if err := os.WriteFile(c.projectConfigPath, []byte(newValue), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	c.Options = opts
	return nil
}
