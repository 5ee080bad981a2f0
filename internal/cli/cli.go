package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ExitError is an error carrying a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Config is the validated viewer configuration.
type Config struct {
	ScenarioPath  string
	ScriptPath    string // JSON playback script, or "capture-all"
	ScreenshotDir string
	MetricsAddr   string // empty disables the metrics endpoint
	Width, Height int
	LogLevel      string
	Debug         bool
	Tween         float64 // pointer tween seconds
	Seed          uint64
}

// Parse processes command-line arguments. It returns the populated Config,
// whether the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("dispatchviz", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
dispatchviz - step through event dispatch across shadow trees.

Usage:
  dispatchviz [options] SCENARIO

Arguments:
  SCENARIO
    Path to an .hcl scenario file.

Keys:
  Right, Space  next step
  Left          previous step
  Home, End     first and last step
  R             reload the scenario
  S             screenshot
  Escape        quit

Mouse:
  click a node  jump to the next step dispatched at it
  drag, wheel   pan and zoom

Options:
`)
		flagSet.PrintDefaults()
	}

	scenarioFlag := flagSet.String("scenario", "", "Path to the scenario file.")
	scriptFlag := flagSet.String("script", "", "JSON playback script, or 'capture-all' to screenshot every step and exit.")
	shotsFlag := flagSet.String("screenshots", "screenshots", "Directory screenshots are written to.")
	metricsFlag := flagSet.String("metrics", "", "Serve Prometheus metrics on this address, e.g. ':9090'.")
	widthFlag := flagSet.Int("width", 0, "Window width. 0 uses the scenario's width or 1024.")
	heightFlag := flagSet.Int("height", 0, "Window height. 0 uses the scenario's height or 768.")
	logLevelFlag := flagSet.String("log-level", "info", "Logging level. Options: 'debug', 'info', 'warn', 'error'.")
	debugFlag := flagSet.Bool("debug", false, "Print per-frame render stats to stderr.")
	tweenFlag := flagSet.Float64("tween", 0.25, "Pointer animation in seconds. 0 jumps.")
	seedFlag := flagSet.Uint64("seed", 1, "Seed for the hand-drawn jitter.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := *scenarioFlag
	if path == "" && flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Scenario path determined.", "path", path)
	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	if *widthFlag < 0 || *heightFlag < 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid window size: width and height must not be negative"}
	}
	if *tweenFlag < 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid tween: must not be negative"}
	}

	cfg := &Config{
		ScenarioPath:  path,
		ScriptPath:    *scriptFlag,
		ScreenshotDir: *shotsFlag,
		MetricsAddr:   *metricsFlag,
		Width:         *widthFlag,
		Height:        *heightFlag,
		LogLevel:      logLevel,
		Debug:         *debugFlag,
		Tween:         *tweenFlag,
		Seed:          *seedFlag,
	}
	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}

// Level converts the configured log level name.
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
