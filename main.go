package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"
	"github.com/viant/afs"

	"github.com/sat8bit/guesswho/bus"
	"github.com/sat8bit/guesswho/config"
	"github.com/sat8bit/guesswho/engine"
	"github.com/sat8bit/guesswho/filter"
	"github.com/sat8bit/guesswho/game"
	"github.com/sat8bit/guesswho/message"
	"github.com/sat8bit/guesswho/parser"
	"github.com/sat8bit/guesswho/renderer"
	"github.com/sat8bit/guesswho/source"
	"github.com/sat8bit/guesswho/supervisor"
)

const (
	exitOK = iota
	exitRuntime
	exitConfig
	exitParse
	exitEmpty
)

// Options are the command line flags. Fields left unset keep the values
// taken from the environment.
type Options struct {
	Config        string `short:"f" long:"config" description:"path or URL of the YAML config"`
	Seed          int64  `long:"seed" description:"random seed, 0 picks one from the clock"`
	Rounds        int    `long:"rounds" description:"stop after this many reveals, 0 for no limit"`
	TranscriptDir string `long:"transcript-dir" description:"write a markdown transcript of the game into this directory"`
	LogLevel      string `long:"log-level" description:"debug, info, warn or error"`
	LogFormat     string `long:"log-format" description:"text or json"`
	NoClear       bool   `long:"no-clear" description:"do not clear the terminal between screens"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// cancel on Ctrl+C
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	os.Exit(run(ctx, cancel, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, cancel context.CancelFunc, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintf(stderr, "failed to load .env: %v\n", err)
		return exitConfig
	}

	opts := &Options{
		Config:    env.ConfigPath,
		Seed:      env.Seed,
		LogLevel:  env.LogLevel,
		LogFormat: env.LogFormat,
	}
	p := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := p.ParseArgs(args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, err)
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitConfig
	}

	runID := uuid.NewString()
	logger := setupLogging(stderr, opts.LogLevel, opts.LogFormat).With("runId", runID)
	slog.SetDefault(logger)

	if err := play(ctx, cancel, opts, runID, stdin, stdout, logger); err != nil {
		logger.Error("guesswho failed", "error", err)
		fmt.Fprintln(stderr, err)
		return exitCode(err)
	}
	return exitOK
}

func play(ctx context.Context, cancel context.CancelFunc, opts *Options, runID string, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	fs := afs.New()
	cfg, err := config.Load(ctx, fs, opts.Config)
	if err != nil {
		return err
	}

	console := renderer.NewConsoleRenderer(stdin, stdout, cfg.Colors, !opts.NoClear)
	if err := console.Loading(); err != nil {
		return fmt.Errorf("failed to render loading screen: %w", err)
	}

	index, err := source.NewLoader(fs, logger).Load(ctx, cfg.Sources)
	if err != nil {
		return err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Debug("seeded picker", "seed", seed)

	e, err := engine.New(index, filter.DefaultCatalog(), rand.New(rand.NewSource(seed)), logger)
	if err != nil {
		return err
	}

	b := bus.NewMemoryBus(bus.DefaultBuffer)
	var wg sync.WaitGroup
	if opts.TranscriptDir != "" {
		md := renderer.NewMarkdownRenderer(opts.TranscriptDir, runID, time.Now())
		if err := md.Render(b, &wg); err != nil {
			return fmt.Errorf("failed to initialize markdown renderer: %w", err)
		}
	}
	if opts.Rounds > 0 {
		supervisor.NewSupervisor(opts.Rounds, b, cancel).Start()
	}

	err = game.NewLoop(e, console, b, runID, logger).Run(ctx)
	b.Close()
	wg.Wait()
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, "")
	fmt.Fprintln(stdout, "Bye!")
	return nil
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, config.ErrInvalid):
		return exitConfig
	case errors.Is(err, parser.ErrParse):
		return exitParse
	case errors.Is(err, message.ErrEmptyIndex):
		return exitEmpty
	default:
		return exitRuntime
	}
}

func setupLogging(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.ToLower(format) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
