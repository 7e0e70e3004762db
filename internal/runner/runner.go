package runner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"voltage/internal/config"
	"voltage/pkg/color"
	"voltage/pkg/interpreter"
	"voltage/pkg/loader"
	"voltage/pkg/trace"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

type Runner struct {
	Help       bool     // Show help message
	Verbose    bool     // Enable verbose output
	Trace      bool     // Trace every instruction
	List       bool     // Print a listing instead of running
	NoColor    bool     // Disable colored output
	ZeroLocals bool     // Zero the locals reserved by CALL
	Jobs       int      // Programs run concurrently (0 = from config)
	MaxSteps   int      // Step limit per program (0 = from config)
	ConfigFile string   // Path to voltage.toml (empty = search from the working directory)
	ImageOut   string   // Write the program as an image instead of running it
	Files      []string // Programs to run

	Stdout io.Writer // program output, os.Stdout if nil
	Stderr io.Writer // faults and traces, os.Stderr if nil
}

var ErrNoInput = errors.New("no input file provided")

// Run loads the configuration and then writes an image, prints listings, or
// executes every file, depending on the options set.
func (r *Runner) Run() error {
	if len(r.Files) == 0 {
		return ErrNoInput
	}

	if r.Stdout == nil {
		r.Stdout = os.Stdout
	}
	if r.Stderr == nil {
		r.Stderr = os.Stderr
	}

	cfg, err := r.config()
	if err != nil {
		return err
	}

	if !cfg.Color {
		color.EnableColor(false)
	}

	switch {
	case r.ImageOut != "":
		return r.writeImage()
	case r.List:
		return r.list()
	case len(r.Files) == 1:
		return r.runOne(cfg, r.Files[0], r.Stdout, r.Stderr)
	default:
		return r.runAll(cfg)
	}
}

// config loads voltage.toml and applies command-line overrides
func (r *Runner) config() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)

	if r.ConfigFile != "" {
		cfg, err = config.Load(r.ConfigFile)
	} else {
		cfg, err = config.FindAndLoad(".")
	}
	if err != nil {
		return nil, err
	}

	if cfg.Path != "" {
		log.Debug("Using configuration", "file", cfg.Path)
	}

	if r.NoColor {
		cfg.Color = false
	}
	if r.Trace {
		cfg.Trace.Enabled = true
	}
	if r.ZeroLocals {
		cfg.Machine.ZeroLocals = true
	}
	if r.MaxSteps > 0 {
		cfg.Machine.MaxSteps = r.MaxSteps
	}
	if r.Jobs > 0 {
		cfg.Runner.Jobs = r.Jobs
	}

	return cfg, cfg.Validate()
}

// runOne executes a single program, writing its output to out and any
// fault or trace to errOut.
func (r *Runner) runOne(cfg *config.Config, file string, out, errOut io.Writer) error {
	program, err := loader.LoadFile(file)
	if err != nil {
		fmt.Fprintln(errOut, color.Error(err.Error()))
		return err
	}

	log.Info("Running program", "file", file, "cells", len(program))

	opts := append(cfg.Options(), interpreter.WithWriter(out))

	var printer *trace.Printer
	if cfg.Trace.Enabled {
		switch cfg.Trace.Format {
		case config.TraceLog:
			// step records are debug level; tracing asks for them explicitly
			tl := log.Default().With("file", file)
			tl.SetLevel(log.DebugLevel)
			opts = append(opts, interpreter.WithTracer(trace.NewLogger(tl)))
		default:
			printer = trace.NewPrinter(errOut)
			opts = append(opts, interpreter.WithTracer(printer))
		}
	}

	if r.Verbose {
		fmt.Fprintln(errOut, color.GreenText("=== Listing: "+file+" ==="))
		for _, line := range interpreter.Disassemble(program) {
			fmt.Fprintln(errOut, formatLine(line))
		}
		fmt.Fprintln(errOut, color.GreenText("=== Program Output: "+file+" ==="))
	}

	it := interpreter.NewInterpreter(program, opts...)
	if err := it.Run(); err != nil {
		if printer != nil {
			printer.Flush()
		}

		var fault *interpreter.Fault
		switch {
		case errors.As(err, &fault):
			fmt.Fprintln(errOut, color.Fault(file, err.Error()))
		case errors.Is(err, interpreter.ErrMaxStepsExceeded):
			fmt.Fprintln(errOut, color.Warning(fmt.Sprintf("%s: stopped after %d steps", file, it.Steps())))
		default:
			fmt.Fprintln(errOut, color.Error(fmt.Sprintf("%s: %v", file, err)))
		}
		return fmt.Errorf("%s: %w", file, err)
	}

	log.Info("Program halted", "file", file, "steps", it.Steps())
	return nil
}

type result struct {
	out bytes.Buffer
	err bytes.Buffer
}

// runAll executes every file on its own instance, at most Jobs at a time.
// Output is buffered per program and written in argument order.
func (r *Runner) runAll(cfg *config.Config) error {
	results := make([]*result, len(r.Files))
	errs := make([]error, len(r.Files))

	var g errgroup.Group
	g.SetLimit(cfg.Runner.Jobs)

	for n, file := range r.Files {
		res := &result{}
		results[n] = res

		g.Go(func() error {
			errs[n] = r.runOne(cfg, file, &res.out, &res.err)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for n, res := range results {
		if _, err := io.Copy(r.Stdout, &res.out); err != nil {
			return fmt.Errorf("write output of %s: %w", r.Files[n], err)
		}
		if _, err := io.Copy(r.Stderr, &res.err); err != nil {
			return fmt.Errorf("write diagnostics of %s: %w", r.Files[n], err)
		}
		if errs[n] != nil {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d programs failed: %w", failed, len(r.Files), errors.Join(errs...))
	}
	return nil
}

// list prints a disassembly of every file
func (r *Runner) list() error {
	for _, file := range r.Files {
		program, err := loader.LoadFile(file)
		if err != nil {
			return err
		}

		if len(r.Files) > 1 {
			fmt.Fprintln(r.Stdout, color.GreenText("=== "+file+" ==="))
		}

		for _, line := range interpreter.Disassemble(program) {
			fmt.Fprintln(r.Stdout, formatLine(line))
		}
	}
	return nil
}

func formatLine(line interpreter.Line) string {
	if line.Raw {
		return fmt.Sprintf("%s: %s %d", color.Address(line.Addr), color.GrayText(".word"), int(line.Op))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", color.Address(line.Addr), color.Mnemonic(line.Op.String()))
	for _, o := range line.Operands {
		fmt.Fprintf(&b, " %s", color.BlueText(fmt.Sprintf("%d", o)))
	}
	return b.String()
}

// writeImage encodes a single text program as an image
func (r *Runner) writeImage() error {
	if len(r.Files) != 1 {
		return fmt.Errorf("-o takes exactly one input file, got %d", len(r.Files))
	}
	file := r.Files[0]

	program, err := loader.LoadFile(file)
	if err != nil {
		return err
	}

	var source string
	if filepath.Ext(file) != loader.ImageExt {
		if data, err := os.ReadFile(file); err == nil {
			source = string(data)
		}
	}

	if err := loader.WriteImage(r.ImageOut, loader.NewImage(program, source)); err != nil {
		return err
	}

	log.Info("Wrote image", "file", r.ImageOut, "cells", len(program))
	return nil
}
