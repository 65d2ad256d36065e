package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"InkBoard/internal/config"
	"InkBoard/internal/logging"
	inknet "InkBoard/internal/net"
	"InkBoard/internal/recognizer"
	"InkBoard/internal/ui"
)

const roleRecognizer = "recognizer"

func main() {
	os.Exit(run(os.Args[1:]))
}

// run starts the board, or the recognizer service when the first argument
// is "recognizer".
func run(args []string) int {
	role := "board"
	if len(args) > 0 && args[0] == roleRecognizer {
		role, args = roleRecognizer, args[1:]
	}

	fs := flag.NewFlagSet("inkboard "+role, flag.ContinueOnError)
	configPath := fs.String("config", "", "config file (default "+config.ConfigPath()+")")
	listen := fs.String("listen", "", "address the recognizer listens on (recognizer only)")
	advertise := fs.Bool("advertise", true, "announce the recognizer over mDNS (recognizer only)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *configPath == "" {
		*configPath = config.ConfigPath()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "inkboard: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "inkboard: %s: %v\n", *configPath, err)
		return 1
	}

	logger, closer, err := logging.Setup(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "inkboard: logging: %v\n", err)
		return 1
	}
	defer closer.Close()

	if role == roleRecognizer {
		if *listen != "" {
			cfg.Recognizer.Listen = *listen
		}
		err = runRecognizer(cfg, *advertise, logger)
	} else {
		err = runBoard(cfg, *configPath, logger)
	}
	if err != nil {
		logger.Error("exiting", "role", role, "error", err)
		fmt.Fprintf(os.Stderr, "inkboard: %v\n", err)
		return 1
	}
	return 0
}

func runBoard(cfg *config.Config, path string, logger *slog.Logger) error {
	logger.Info("starting board", "config", path, "recognizer", cfg.Recognizer.Mode)

	watcher, err := config.Watch(path, cfg)
	if err != nil {
		logger.Warn("config hot reload disabled", "error", err)
		return ui.Run(cfg, nil)
	}
	defer watcher.Close()
	go func() {
		for err := range watcher.Errors() {
			logger.Warn("config reload rejected", "error", err)
		}
	}()
	return ui.Run(cfg, watcher)
}

func runRecognizer(cfg *config.Config, advertise bool, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if ip, err := inknet.GetOutgoingIP(); err == nil {
		logger.Info("starting recognizer", "listen", cfg.Recognizer.Listen, "ip", ip, "advertise", advertise)
	}
	svc := recognizer.NewService(recognizer.DefaultOptions())
	return svc.ListenAndServe(ctx, cfg.Recognizer.Listen, advertise)
}
