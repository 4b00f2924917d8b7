// Package config handles sheetstack.toml project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/zurustar/sheetstack/pkg/grammar"
	"github.com/zurustar/sheetstack/pkg/logger"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "sheetstack.toml"

// Config represents a sheetstack.toml configuration.
type Config struct {
	Log     LogConfig     `toml:"log"`
	Program ProgramConfig `toml:"program"`
	Run     RunConfig     `toml:"run"`
	Output  OutputConfig  `toml:"output"`
	Sheets  []SheetConfig `toml:"sheet"`

	// Dir is the directory containing the configuration file (set at load
	// time). Relative paths in the file are resolved against it.
	Dir string `toml:"-"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ProgramConfig names the instruction list to load.
type ProgramConfig struct {
	Path string `toml:"path"`
}

// RunConfig configures batch runs.
type RunConfig struct {
	ContinueOnError bool `toml:"continue_on_error"`
}

// OutputConfig configures where sheets are exported after a run.
type OutputConfig struct {
	Dir    string `toml:"dir"`
	Format string `toml:"format"`
}

// SheetConfig describes one sheet file to load into the workbook.
type SheetConfig struct {
	// ID is the sheet id used in references. Empty means a generated id.
	ID string `toml:"id"`

	// Name is the display name. Empty means the file name without extension.
	Name string `toml:"name"`

	Path     string `toml:"path"`
	Encoding string `toml:"encoding"`

	// Sheet is the worksheet to read from an XLSX file.
	Sheet string `toml:"sheet"`
}

// Overrides are values given on the command line. Empty strings and false
// leave the file value alone.
type Overrides struct {
	LogLevel        string
	LogFormat       string
	Program         string
	OutputDir       string
	ContinueOnError bool
	Sheets          []string
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}

	c.applyDefaults()
	c.Program.Path = c.resolve(c.Program.Path)
	c.Output.Dir = c.resolve(c.Output.Dir)
	for i := range c.Sheets {
		c.Sheets[i].Path = c.resolve(c.Sheets[i].Path)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return &c, nil
}

// FindAndLoad walks up from startDir to find a sheetstack.toml file, then
// loads and returns it. Returns nil if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Merge applies command line overrides. Extra sheet paths are appended
// as they are, relative to the working directory.
func (c *Config) Merge(o Overrides) {
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Log.Format = o.LogFormat
	}
	if o.Program != "" {
		c.Program.Path = o.Program
	}
	if o.OutputDir != "" {
		c.Output.Dir = o.OutputDir
	}
	if o.ContinueOnError {
		c.Run.ContinueOnError = true
	}
	for _, p := range o.Sheets {
		c.Sheets = append(c.Sheets, SheetConfig{Path: p})
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case logger.FormatText, logger.FormatJSON:
	default:
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Log.Format)
	}
	switch c.Output.Format {
	case "csv", "xlsx":
	default:
		return fmt.Errorf("invalid output format: %s (must be csv or xlsx)", c.Output.Format)
	}

	seen := make(map[string]bool)
	for i, s := range c.Sheets {
		if s.Path == "" {
			return fmt.Errorf("sheet %d: path is required", i+1)
		}
		if s.ID == "" {
			continue
		}
		if !grammar.IsSheetID(s.ID) {
			return fmt.Errorf("sheet %d: invalid id %q", i+1, s.ID)
		}
		if seen[s.ID] {
			return fmt.Errorf("sheet %d: duplicate id %s", i+1, s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = logger.FormatText
	}
	if c.Output.Format == "" {
		c.Output.Format = "csv"
	}
}

// resolve makes a relative path relative to the configuration directory.
func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}
