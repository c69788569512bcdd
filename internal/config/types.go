// SPDX-License-Identifier: MPL-2.0

package config

import (
	"pongpack/internal/packager"
	"pongpack/internal/toolchain"
)

type (
	// Config is the resolved packager configuration.
	Config struct {
		// Compiler names the D compiler; empty means probe.
		Compiler string `json:"compiler" mapstructure:"compiler"`
		// Architectures to build; empty means the compiler's default set.
		Architectures []string `json:"architectures" mapstructure:"architectures"`
		// Formats to archive; empty means tgz.
		Formats []string `json:"formats" mapstructure:"formats"`
		// Build names the build script and its outputs
		Build BuildConfig `json:"build" mapstructure:"build"`
		// Assets lists what is shipped next to the binaries
		Assets AssetsConfig `json:"assets" mapstructure:"assets"`
		// UI configures terminal output
		UI UIConfig `json:"ui" mapstructure:"ui"`

		// Source is the file the configuration was read from, or empty when
		// only defaults and environment applied.
		Source string `json:"-" mapstructure:"-"`
	}

	// BuildConfig names the build-control script, the program it compiles to,
	// and the base name of the game binaries.
	BuildConfig struct {
		Script  string `json:"script" mapstructure:"script"`
		Control string `json:"control" mapstructure:"control"`
		Program string `json:"program" mapstructure:"program"`
	}

	// AssetsConfig mirrors packager.Assets.
	AssetsConfig struct {
		Directories []AssetDirConfig `json:"directories" mapstructure:"directories"`
		Files       []string         `json:"files" mapstructure:"files"`
		Ignore      []string         `json:"ignore" mapstructure:"ignore"`
	}

	// AssetDirConfig is one asset directory and the names excluded from it.
	AssetDirConfig struct {
		Path    string   `json:"path" mapstructure:"path"`
		Exclude []string `json:"exclude" mapstructure:"exclude"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables debug logging and extended error guidance
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the default configuration: probed compiler, the
// compiler's default architectures, tgz, and the DPong source layout.
func DefaultConfig() *Config {
	layout := toolchain.DefaultLayout()
	assets := packager.DefaultAssets()

	dirs := make([]AssetDirConfig, 0, len(assets.Directories))
	for _, d := range assets.Directories {
		dirs = append(dirs, AssetDirConfig{Path: d.Path, Exclude: d.Exclude})
	}

	return &Config{
		Architectures: []string{},
		Formats:       []string{},
		Build: BuildConfig{
			Script:  layout.Script,
			Control: layout.Control,
			Program: layout.Program,
		},
		Assets: AssetsConfig{
			Directories: dirs,
			Files:       assets.Files,
			Ignore:      assets.Ignore,
		},
	}
}

// CompilerValue returns the configured compiler.
func (c *Config) CompilerValue() toolchain.Compiler {
	return toolchain.Compiler(c.Compiler)
}

// ArchitectureValues returns the configured architectures. Values are not
// validated here; toolchain.NewManager rejects unknown ones.
func (c *Config) ArchitectureValues() []toolchain.Architecture {
	archs := make([]toolchain.Architecture, 0, len(c.Architectures))
	for _, a := range c.Architectures {
		archs = append(archs, toolchain.Architecture(a))
	}
	return archs
}

// FormatValues returns the configured archive formats.
func (c *Config) FormatValues() []packager.Format {
	formats := make([]packager.Format, 0, len(c.Formats))
	for _, f := range c.Formats {
		formats = append(formats, packager.Format(f))
	}
	return formats
}

// Layout returns the build layout for toolchain.WithLayout.
func (c *Config) Layout() toolchain.Layout {
	return toolchain.Layout{
		Script:  c.Build.Script,
		Control: c.Build.Control,
		Program: c.Build.Program,
	}
}

// PackagerAssets returns the asset list for packager.WithAssets.
func (c *Config) PackagerAssets() packager.Assets {
	dirs := make([]packager.AssetDir, 0, len(c.Assets.Directories))
	for _, d := range c.Assets.Directories {
		dirs = append(dirs, packager.AssetDir{Path: d.Path, Exclude: d.Exclude})
	}
	return packager.Assets{
		Directories: dirs,
		Files:       c.Assets.Files,
		Ignore:      c.Assets.Ignore,
	}
}
