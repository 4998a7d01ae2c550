// Command breakwave configures breakwater wave experiments and analyzes
// the gauge records of finished simulations.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/RyanBlaney/breakwave/algorithms/dispersion"
	"github.com/RyanBlaney/breakwave/analysis"
	"github.com/RyanBlaney/breakwave/config"
	"github.com/RyanBlaney/breakwave/internal/api"
	"github.com/RyanBlaney/breakwave/logging"
)

const usage = `Usage: breakwave [-log-format text|json] [-debug] <command> [flags]

Commands:
  init <file>                       write the default configuration
  wavelength -period T -depth h     solve the dispersion relation
  analyze [-config file] <simdir>   analyze a finished simulation
  serve [-addr :8080]               serve the calculation API
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("breakwave", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	logFormat := global.String("log-format", "text", "log output format: text or json")
	debug := global.Bool("debug", false, "enable debug logging")
	if err := global.Parse(args); err != nil {
		return 2
	}

	sync, err := setupLogging(*logFormat, *debug, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer sync()

	if global.NArg() == 0 {
		global.Usage()
		return 2
	}

	cmd, rest := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "init":
		err = runInit(rest, stdout, stderr)
	case "wavelength":
		err = runWavelength(rest, stdout, stderr)
	case "analyze":
		err = runAnalyze(ctx, rest, stdout, stderr)
	case "serve":
		err = runServe(ctx, rest, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		global.Usage()
		return 2
	}

	switch {
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		return 2
	case err != nil:
		logging.Error(err, "Command failed", logging.Fields{"command": cmd})
		return 1
	}
	return 0
}

// errUsage marks a command line the flag set already reported
var errUsage = errors.New("usage")

func setupLogging(format string, debug bool, w io.Writer) (func(), error) {
	var logger logging.Logger
	sync := func() {}

	switch format {
	case "text":
		logger = logging.NewDefaultLoggerWithWriters(w, w)
	case "json":
		zl := logging.NewZapLogger(w, true)
		sync = func() { _ = zl.Sync() }
		logger = zl
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	if debug {
		logger.SetLevel(logging.DebugLevel)
	}
	logging.SetGlobalLogger(logger)
	return sync, nil
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	return nil
}

func runInit(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("init", stderr)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: breakwave init <file>")
		return errUsage
	}

	path := fs.Arg(0)
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	cfg := config.DefaultSimulationConfig(name)
	if err := config.Save(cfg, path); err != nil {
		return err
	}

	logging.Info("Wrote configuration", logging.Fields{"path": path, "hash": cfg.Hash})
	fmt.Fprintln(stdout, cfg.SimulationDirName())
	return nil
}

func runWavelength(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("wavelength", stderr)
	period := fs.Float64("period", 0, "wave period (s)")
	depth := fs.Float64("depth", 0, "water depth (m)")
	iterations := fs.Int("iter", dispersion.DefaultIterations, "Newton-Raphson iterations")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *period <= 0 || *depth <= 0 {
		fmt.Fprintln(stderr, "usage: breakwave wavelength -period T -depth h [-iter n]")
		return errUsage
	}

	fmt.Fprintf(stdout, "%.4f\n", dispersion.ComputeWavelengthN(*period, *depth, *iterations))
	return nil
}

func runAnalyze(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("analyze", stderr)
	configPath := fs.String("config", "", "configuration file (defaults when empty)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: breakwave analyze [-config file] <simdir>")
		return errUsage
	}
	simDir := fs.Arg(0)

	cfg := config.DefaultSimulationConfig(filepath.Base(simDir))
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	results, err := analysis.Run(ctx, simDir, cfg, analysis.Options{})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "run %s config %s (%s) wavelength %.4f m\n",
		results.RunID, results.ConfigName, results.ConfigHash, results.Wavelength)
	for _, row := range results.WaveStatistics {
		fmt.Fprintf(stdout, "x=%-8g Hs=%.4f Hmean=%.4f Hrms=%.4f Tmean=%.3f waves=%d\n",
			row.Position, row.SignificantWaveHeight, row.MeanWaveHeight,
			row.RMSWaveHeight, row.MeanPeriod, row.NWaves)
	}
	if t := results.Transmission; t != nil {
		fmt.Fprintf(stdout, "Kt=%.4f energy transmission=%.4f dissipation=%.2f%%\n",
			t.TransmissionCoefficient, t.EnergyTransmission, t.EnergyDissipationPercent)
	} else {
		fmt.Fprintf(stdout, "transmission unavailable: %s\n", results.TransmissionError)
	}
	return nil
}

func runServe(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("serve", stderr)
	addr := fs.String("addr", ":8080", "listen address")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	mux := http.NewServeMux()
	api.RegisterHandlers(mux)

	server := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logging.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logging.Error(err, "Shutdown failed")
		}
	}()

	logging.Info("Server starting", logging.Fields{"addr": *addr})
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
