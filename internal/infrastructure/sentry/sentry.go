package sentry

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
)

// Config selects the Sentry project. An empty DSN disables reporting.
type Config struct {
	DSN         string
	Environment string
}

// Service provides Sentry error tracking. The zero value is a disabled service.
type Service struct {
	initialized bool
}

// New initialises the global Sentry client when a DSN is configured.
func New(cfg Config, log zerolog.Logger) *Service {
	if cfg.DSN == "" {
		log.Info().Msg("SENTRY_DSN not set, Sentry disabled")
		return &Service{}
	}

	environment := cfg.Environment
	if environment == "" {
		environment = "development"
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: environment,
	})
	if err != nil {
		log.Error().Err(err).Msg("sentry initialization failed")
		return &Service{}
	}

	log.Info().Str("environment", environment).Msg("sentry initialized")
	return &Service{initialized: true}
}

func (s *Service) Enabled() bool {
	return s != nil && s.initialized
}

// CaptureRequestError reports err tagged with the request that produced it.
func (s *Service) CaptureRequestError(err error, method, path, requestID string) {
	if !s.Enabled() {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("method", method)
		scope.SetTag("path", path)
		if requestID != "" {
			scope.SetTag("request_id", requestID)
		}
		scope.SetLevel(sentry.LevelError)
		sentry.CaptureException(err)
	})
}

// CaptureException reports err without request context.
func (s *Service) CaptureException(err error) {
	if !s.Enabled() {
		return
	}
	sentry.CaptureException(err)
}

// Flush waits for all events to be sent to Sentry.
func (s *Service) Flush(timeout time.Duration) bool {
	if !s.Enabled() {
		return true
	}
	return sentry.Flush(timeout)
}
