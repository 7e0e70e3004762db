// Package config handles voltage.toml machine and runner settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"voltage/pkg/interpreter"
)

// FileName is the configuration file looked up from the working directory
const FileName = "voltage.toml"

// Config represents a voltage.toml file.
type Config struct {
	Color   bool    `toml:"color"`
	Machine Machine `toml:"machine"`
	Trace   Trace   `toml:"trace"`
	Runner  Runner  `toml:"runner"`

	// Path is the file the configuration was read from (empty for defaults).
	Path string `toml:"-"`
}

// Machine sizes the memory regions of each instance.
type Machine struct {
	StackSize  int  `toml:"stack_size"`
	GlobalSize int  `toml:"global_size"`
	MaxSteps   int  `toml:"max_steps"`
	ZeroLocals bool `toml:"zero_locals"`
}

// Trace configures the execution tracer.
type Trace struct {
	Enabled bool   `toml:"enabled"`
	Format  string `toml:"format"` // "text" or "log"
}

const (
	TraceText = "text"
	TraceLog  = "log"
)

// Runner configures batch execution.
type Runner struct {
	Jobs int `toml:"jobs"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Color: true,
		Machine: Machine{
			StackSize:  interpreter.DefaultStackSize,
			GlobalSize: interpreter.DefaultGlobalSize,
		},
		Trace:  Trace{Format: TraceText},
		Runner: Runner{Jobs: 4},
	}
}

// Load parses a configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	if _, err := toml.Decode(string(data), c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	c.Path = path

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

// FindAndLoad walks up from startDir to find voltage.toml and loads it.
// Returns the defaults if no file is found.
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
			return Default(), nil
		}
		dir = parent
	}
}

var (
	ErrStackSize  = errors.New("machine.stack_size must be at least 1")
	ErrGlobalSize = errors.New("machine.global_size must be at least 1")
	ErrMaxSteps   = errors.New("machine.max_steps must not be negative")
	ErrJobs       = errors.New("runner.jobs must be at least 1")
	ErrFormat     = errors.New(`trace.format must be "text" or "log"`)
)

// Validate rejects settings no instance can run with
func (c *Config) Validate() error {
	switch {
	case c.Machine.StackSize < 1:
		return ErrStackSize
	case c.Machine.GlobalSize < 1:
		return ErrGlobalSize
	case c.Machine.MaxSteps < 0:
		return ErrMaxSteps
	case c.Runner.Jobs < 1:
		return ErrJobs
	case c.Trace.Format != TraceText && c.Trace.Format != TraceLog:
		return ErrFormat
	}
	return nil
}

// Options converts the machine settings into interpreter options
func (c *Config) Options() []interpreter.Option {
	return []interpreter.Option{
		interpreter.WithStackSize(c.Machine.StackSize),
		interpreter.WithGlobalSize(c.Machine.GlobalSize),
		interpreter.WithMaxSteps(c.Machine.MaxSteps),
		interpreter.WithZeroLocals(c.Machine.ZeroLocals),
	}
}
