// Package telemetry holds error tracking and business metrics.
package telemetry

import (
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

// SentryConfig configures error tracking.
type SentryConfig struct {
	DSN         string
	Enabled     bool
	Environment string
	Release     string

	// SampleRate is the fraction of errors to capture; zero means 1.0.
	SampleRate float64

	// TracesSampleRate is the fraction of transactions to trace; zero
	// disables performance monitoring.
	TracesSampleRate float64
}

var sentryEnabled bool

// InitSentry initializes error tracking. The returned cleanup flushes
// buffered events and must run on shutdown.
func InitSentry(cfg SentryConfig, logger *slog.Logger) (func(), error) {
	if !cfg.Enabled || cfg.DSN == "" {
		logger.Info("error tracking disabled")
		return func() {}, nil
	}

	sampleRate := cfg.SampleRate
	if sampleRate == 0 {
		sampleRate = 1.0
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		SampleRate:       sampleRate,
		TracesSampleRate: cfg.TracesSampleRate,
	})
	if err != nil {
		return nil, err
	}
	sentryEnabled = true

	logger.Info("error tracking initialized",
		"environment", cfg.Environment,
		"sample_rate", sampleRate,
	)

	return func() {
		sentry.Flush(2 * time.Second)
	}, nil
}

// CaptureError reports an error with optional key/value context. Safe to
// call when tracking is disabled.
func CaptureError(err error, extras map[string]any) {
	if !sentryEnabled || err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range extras {
			scope.SetExtra(k, v)
		}
		sentry.CaptureException(err)
	})
}

// CaptureMessage reports a non-error event.
func CaptureMessage(message string) {
	if !sentryEnabled {
		return
	}
	sentry.CaptureMessage(message)
}
