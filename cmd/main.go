package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"voltage/internal/logger"
	"voltage/internal/runner"
	"voltage/pkg/color"

	"github.com/charmbracelet/log"
)

// Main entry point for the voltage bytecode engine.
func main() {
	options := runner.Runner{}

	flag.BoolVar(&options.Help, "h", false, "Show help")
	flag.BoolVar(&options.Verbose, "v", false, "Verbose mode")
	flag.BoolVar(&options.Trace, "t", false, "Trace every instruction")
	flag.BoolVar(&options.List, "l", false, "List the program instead of running it")
	flag.BoolVar(&options.NoColor, "n", false, "No color")
	flag.BoolVar(&options.ZeroLocals, "z", false, "Zero the locals reserved by CALL")
	flag.IntVar(&options.Jobs, "j", 0, "Programs to run concurrently (default from config)")
	flag.IntVar(&options.MaxSteps, "s", 0, "Maximum steps per program (default from config)")
	flag.StringVar(&options.ConfigFile, "c", "", "Path to voltage.toml")
	flag.StringVar(&options.ImageOut, "o", "", "Write the program as an image instead of running it")

	flag.Parse()
	options.Files = flag.Args()

	logger.Init(options.Verbose, options.NoColor)
	if options.Help {
		fmt.Printf("Usage: %s [options] <file>...\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	if options.NoColor {
		color.EnableColor(false)
	}

	err := options.Run()
	if errors.Is(err, runner.ErrNoInput) {
		log.Fatal("No input file provided", "help", fmt.Sprintf("%s -h", os.Args[0]))
	}
	if err != nil {
		log.Fatal("Run failed", "error", err)
	}
}
