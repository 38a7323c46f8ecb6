package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aleister1102/notegrab/internal/bulk"
	"github.com/aleister1102/notegrab/internal/config"
	"github.com/aleister1102/notegrab/internal/logger"
	"github.com/aleister1102/notegrab/internal/metrics"
	"github.com/aleister1102/notegrab/internal/progress"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func main() {
	flags, err := ParseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
		os.Exit(1)
	}

	if err := run(flags); err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
		os.Exit(1)
	}
}

func run(flags AppFlags) error {
	gCfg, err := config.LoadGlobalConfig(flags.GlobalConfigFile, zerolog.Nop())
	if err != nil {
		return fmt.Errorf("could not load config using path '%s': %w", flags.GlobalConfigFile, err)
	}
	if flags.InputFile != "" {
		gCfg.BulkConfig.InputFile = flags.InputFile
	}
	if err := config.ValidateConfig(gCfg); err != nil {
		return err
	}

	runID := uuid.NewString()
	zLogger, err := logger.NewWithRunID(gCfg.LogConfig, runID)
	if err != nil {
		return fmt.Errorf("could not initialize logger: %w", err)
	}
	zLogger.Info().Str("action", flags.Action).Msg("notegrab starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			zLogger.Info().Str("signal", sig.String()).Msg("Received interrupt signal, stopping after running tasks")
			cancel()
		case <-ctx.Done():
		}
	}()

	service := newService(gCfg, zLogger)
	opts := bulk.OptionsFromConfig(gCfg.ClientConfig)
	inputFile := gCfg.BulkConfig.InputFile

	switch flags.Action {
	case ActionPreview:
		service.Preview(inputFile, 0)
	case ActionDownload:
		_, err = service.Download(ctx, inputFile, opts, 0)
	case ActionRetry:
		_, err = service.RetryFailed(ctx, opts)
	default:
		err = NewMenu(service, opts, inputFile, os.Stdin, os.Stdout).Run(ctx)
	}
	if err != nil {
		zLogger.Error().Err(err).Msg("Run failed")
		return err
	}

	zLogger.Info().Msg("notegrab finished")
	return nil
}

// newService wires the bulk service with its console printer, progress display and metrics.
func newService(gCfg *config.GlobalConfig, zLogger zerolog.Logger) *bulk.Service {
	recorder := metrics.NewRecorder(gCfg.MetricsConfig.TextfilePath, zLogger)
	reporters := bulk.MultiReporter{recorder}
	observers := []bulk.BatchObserver{recorder}

	if gCfg.ProgressConfig.EnableProgress {
		display := progress.NewDisplayManager(zLogger, &progress.DisplayConfig{
			DisplayInterval:   gCfg.ProgressConfig.GetDisplayIntervalDuration(),
			EnableProgress:    true,
			ShowETAEstimation: gCfg.ProgressConfig.ShowETAEstimation,
		})
		reporters = append(reporters, display)
		observers = append(observers, progressObserver{display: display})
	}

	printer := bulk.NewPrinter(os.Stdout, gCfg.BulkConfig.FailureDisplayLimit)
	return bulk.NewService(
		bulk.NewSettings(gCfg),
		bulk.NewClientFactory(zLogger),
		printer,
		zLogger,
		bulk.WithReporter(reporters),
		bulk.WithObservers(observers...),
	)
}
