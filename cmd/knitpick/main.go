package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/ganot/knitpick/internal/config"
	"github.com/ganot/knitpick/internal/domain/project"
)

var version = "dev"

// CLI is the root command line.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" env:"KNITPICK_CONFIG_PATH" type:"path"`
	Verbose bool             `short:"v" help:"Enable debug logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve  ServeCmd  `cmd:"" help:"Run the MCP server"`
	List   ListCmd   `cmd:"" help:"List projects"`
	Add    AddCmd    `cmd:"" help:"Create a project"`
	Inc    IncCmd    `cmd:"" help:"Add one to a counter"`
	Dec    DecCmd    `cmd:"" help:"Subtract one from a counter"`
	Reset  ResetCmd  `cmd:"" help:"Set a counter to zero"`
	Set    SetCmd    `cmd:"" help:"Set a counter to a value"`
	Delete DeleteCmd `cmd:"" help:"Delete a project"`
	Colors ColorsCmd `cmd:"" help:"List the color palette"`
	Clear  ClearCmd  `cmd:"" help:"Remove all stored projects"`
}

// Global is bound into every command's Run method.
type Global struct {
	Config config.Config
	Logger *slog.Logger
	Out    io.Writer

	logFile io.Closer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("knitpick"),
		kong.Description("Row and stitch counters for knitting and crochet projects."),
		kong.Writers(stdout, stderr),
		kong.Vars{
			"version":      version,
			"first_label":  project.DefaultFirstLabel,
			"second_label": project.DefaultSecondLabel,
		},
		kong.UsageOnError(),
	)
	if err != nil {
		fmt.Fprintf(stderr, "cli error: %v\n", err)
		return 1
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		parser.Errorf("%s", err)
		return 2
	}

	g, err := newGlobal(cli, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "config error: %v\n", err)
		return 1
	}
	defer g.close()

	if err := kctx.Run(g); err != nil {
		g.Logger.Debug("command failed", "command", kctx.Command(), "error", err)
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func newGlobal(cli CLI, stdout, stderr io.Writer) (*Global, error) {
	load := config.Load
	if cli.Config != "" {
		load = func() (config.Config, error) { return config.LoadFrom(cli.Config) }
	}
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cli.Verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Global{Config: cfg, Out: stdout}

	// stdout carries command output and stdio JSON-RPC, so logs never go there.
	logWriter := stderr
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(stderr, "log file error: %v\n", err)
		} else {
			g.logFile = file
			logWriter = fileWriter
		}
	}
	g.Logger = slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	return g, nil
}

func (g *Global) close() {
	if g.logFile != nil {
		_ = g.logFile.Close()
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
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
