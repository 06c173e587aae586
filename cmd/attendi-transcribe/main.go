package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/attenditechnology/attendi-speech-go/internal/bootstrap"
	"github.com/attenditechnology/attendi-speech-go/internal/config"
	"github.com/attenditechnology/attendi-speech-go/internal/domain"
	"github.com/attenditechnology/attendi-speech-go/internal/transcribe"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	services := bootstrap.BuildWith(cfg, &consoleSink{logger: logger}, logger)

	if err := run(services, logger); err != nil {
		logger.Fatal().Err(err).Msg("recording failed")
	}
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer = os.Stderr
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func run(services bootstrap.Services, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recorder := services.Recorder
	if err := recorder.Start(ctx); err != nil {
		return err
	}
	logger.Info().Msg("recording, press enter to stop")

	pressed := make(chan struct{})
	go func() {
		_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
		close(pressed)
	}()

	select {
	case <-pressed:
	case <-ctx.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := recorder.Stop(stopCtx)
	if err != nil {
		return err
	}

	printDocument(result.Document)
	return nil
}

func printDocument(doc transcribe.Document) {
	fmt.Println(doc.Text)
	for _, ann := range doc.Annotations {
		fmt.Printf("  [%d:%d] %s %s\n", ann.Start, ann.End, ann.Type, ann.ID)
	}
}

// consoleSink logs recorder events; the final document goes to stdout.
type consoleSink struct {
	logger zerolog.Logger
}

func (s *consoleSink) RecorderStateChanged(state domain.RecorderState, reason domain.RecorderStateReason) {
	s.logger.Info().Str("state", string(state)).Str("reason", string(reason)).Msg("recorder state changed")
}

func (s *consoleSink) DocumentUpdated(doc transcribe.Document) {
	s.logger.Debug().Str("text", doc.Text).Int("annotations", len(doc.Annotations)).Msg("document updated")
}

func (s *consoleSink) RecorderError(code domain.ErrorCode, detail string) {
	s.logger.Error().Str("code", string(code)).Str("detail", detail).Msg("recorder error")
}
