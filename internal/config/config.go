// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pongpack/internal/issue"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	// AppName is the command name, used as the config file base name.
	AppName = "package-linux"
	// EnvPrefix prefixes every environment override, e.g. PACKAGE_LINUX_COMPILER.
	EnvPrefix = "PACKAGE_LINUX"

	// LoadOperation is the ActionableError operation for every load failure.
	LoadOperation = "load configuration"

	// maxFileSize bounds config files read into memory.
	maxFileSize = 1 << 20
)

var (
	//go:embed config_schema.cue
	configSchema string

	// searchOrder lists the file extensions tried in the source directory.
	searchOrder = []string{"cue", "toml"}
)

// loadWithOptions layers defaults, the config file and the environment into a
// fresh viper instance. It keeps no package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := resolveFile(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err = mergeFile(v, path); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation(LoadOperation).
				WithResource(path).
				WithSuggestion("Check that the file contains valid " + fileFormat(path) + " syntax").
				WithSuggestion("Supported architectures are x86 and x64; supported formats are zip and tgz").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err = v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Source = path
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it on Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("compiler", d.Compiler)
	v.SetDefault("architectures", d.Architectures)
	v.SetDefault("formats", d.Formats)
	v.SetDefault("build.script", d.Build.Script)
	v.SetDefault("build.control", d.Build.Control)
	v.SetDefault("build.program", d.Build.Program)
	v.SetDefault("assets.directories", d.Assets.Directories)
	v.SetDefault("assets.files", d.Assets.Files)
	v.SetDefault("assets.ignore", d.Assets.Ignore)
	v.SetDefault("ui.verbose", d.UI.Verbose)
}

// resolveFile returns the explicit config path, which must exist, or the first
// package-linux.<ext> found in opts.Dir. An empty result means no file.
func resolveFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation(LoadOperation).
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				Wrap(&os.PathError{Op: "open", Path: opts.ConfigFilePath, Err: os.ErrNotExist}).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	for _, ext := range searchOrder {
		candidate := filepath.Join(dir, AppName+"."+ext)
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", nil
}

// mergeFile validates path against the schema and merges it into v. Files
// ending in .toml are read as TOML; anything else as CUE.
func mergeFile(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxFileSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", path, len(data), maxFileSize)
	}

	var configMap map[string]any
	if fileFormat(path) == "TOML" {
		var raw map[string]any
		if err = toml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		configMap, err = validateValue(raw, path)
	} else {
		configMap, err = validateCUE(data, path)
	}
	if err != nil {
		return err
	}

	if err = v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileFormat returns "TOML" for .toml files and "CUE" for everything else.
func fileFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return "TOML"
	}
	return "CUE"
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
