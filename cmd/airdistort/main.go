package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"airdistort/internal/logger"
	"airdistort/internal/util"
	"airdistort/pkg/config"
	"airdistort/pkg/engine"
	"airdistort/pkg/headless"
)

func init() {
	// GLFW requires the program to be running on the main thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	headlessMode := flag.Bool("headless", false, "Render with the software backend and write a PNG")
	frames := flag.Int("frames", 0, "Frames to render in headless mode (overrides config)")
	out := flag.String("out", "", "Output PNG path in headless mode (overrides config)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	writeConfig := flag.String("write-config", "", "Write the effective configuration to this path and exit")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		if util.FileExists(*configPath) {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		// no file: keep defaults
	}

	if *frames > 0 {
		cfg.Headless.Frames = *frames
	}
	if *out != "" {
		cfg.Headless.Output = *out
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	if *writeConfig != "" {
		if err := config.SaveConfig(cfg, *writeConfig); err != nil {
			log.Fatalf("Failed to write configuration: %v", err)
		}
		log.Infof("Configuration written to %s", *writeConfig)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *headlessMode {
		log.Infof("Rendering %d frames at %dx%d to %s",
			cfg.Headless.Frames, cfg.Headless.Width, cfg.Headless.Height, cfg.Headless.Output)
		if err := headless.Run(ctx, cfg, log); err != nil {
			log.Fatalf("Headless render failed: %v", err)
		}
		return
	}

	log.Info("Starting air distortion demo...")
	e, err := engine.NewEngine(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}
	if err := e.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("Render loop failed: %v", err)
	}
}

func newLogger(cfg config.LoggingConfig) (*logger.Logger, error) {
	if cfg.File == "" {
		return logger.NewLogger(cfg.Level), nil
	}
	return logger.NewMultiLogger(cfg.Level, cfg.File)
}
