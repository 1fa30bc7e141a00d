package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/qjebbs/go-jsons"
)

// GlobalConfig returns the path to the user-wide config file.
func GlobalConfig() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, appName, appName+".json")
	}

	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
		return filepath.Join(localAppData, appName, appName+".json")
	}

	return filepath.Join(os.Getenv("HOME"), ".config", appName, appName+".json")
}

// Load builds the configuration for workingDir: defaults, then the global
// file, then the project files. Missing files are skipped.
func Load(workingDir string) (*Config, error) {
	cfg, err := Read(workingDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.Options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Read is Load without validation, for commands that repair a broken
// configuration.
func Read(workingDir string) (*Config, error) {
	opts, err := mergeOptions(configPaths(workingDir), nil)
	if err != nil {
		return nil, err
	}
	return &Config{
		Options:           opts,
		workingDir:        workingDir,
		projectConfigPath: projectConfigPath(workingDir),
	}, nil
}

func configPaths(workingDir string) []string {
	return append([]string{GlobalConfig()}, projectConfigPaths(workingDir)...)
}

// mergeOptions merges the defaults with the files at paths. Contents in
// override replace what is on disk for the same path.
func mergeOptions(paths []string, override map[string][]byte) (Options, error) {
	inputs := []io.Reader{bytes.NewReader(mustJSON(Defaults()))}
	for _, path := range paths {
		data, ok := override[path]
		if !ok {
			var err error
			data, err = os.ReadFile(path)
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return Options{}, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
			slog.Debug("Loaded config file", "path", path)
		}
		inputs = append(inputs, bytes.NewReader(data))
	}

	merged, err := jsons.Merge(inputs)
	if err != nil {
		return Options{}, fmt.Errorf("failed to merge config files: %w", err)
	}

	var opts Options
	if err := json.Unmarshal(merged, &opts); err != nil {
		return Options{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return opts, nil
}

func projectConfigPaths(workingDir string) []string {
	paths := make([]string, 0, len(ProjectConfigNames))
	for _, name := range ProjectConfigNames {
		paths = append(paths, filepath.Join(workingDir, name))
	}
	return paths
}

// projectConfigPath picks the existing project file with the highest
// priority, or the first name when none exists.
func projectConfigPath(workingDir string) string {
	paths := projectConfigPaths(workingDir)
	for i := len(paths) - 1; i >= 0; i-- {
		if _, err := os.Stat(paths[i]); err == nil {
			return paths[i]
		}
	}
	return paths[0]
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
