package llm

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LoggingProvider is a decorator that logs every generation call with
// enough detail to diagnose service failures: prompt and reply sizes,
// latency, status.
type LoggingProvider struct {
	inner Provider
	log   *zap.Logger
}

// WithLogging wraps a Provider with structured logging.
func WithLogging(p Provider, log *zap.Logger) Provider {
	return &LoggingProvider{inner: p, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	l.log.Debug("generation request",
		zap.String("model", l.inner.ModelID()),
		zap.String("purpose", PurposeFrom(ctx)),
		zap.Int("prompt_chars", len(req.Prompt)),
	)

	resp, err := l.inner.Generate(ctx, req)
	latency := time.Since(start)

	if err != nil {
		l.log.Error("generation failed",
			zap.String("model", l.inner.ModelID()),
			zap.String("purpose", PurposeFrom(ctx)),
			zap.Duration("latency", latency),
			zap.Error(err),
		)
		return nil, err
	}

	l.log.Info("generation succeeded",
		zap.String("model", resp.Model),
		zap.String("purpose", PurposeFrom(ctx)),
		zap.Duration("latency", latency),
		zap.Int("response_chars", len(resp.Text)),
	)

	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
