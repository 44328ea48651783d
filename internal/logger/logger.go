// Package logger configures the process-wide slog logger: text in
// development, JSON in production, and errors forwarded to Sentry when a DSN
// is set. Every record logged with a request context carries its request_id.
package logger

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"

	"github.com/relayvision/visionlog/internal/ctxkeys"
)

type Options struct {
	Development bool
	SentryDSN   string
	Environment string
}

// New builds the handler chain writing to w. Sentry is skipped, with a
// warning, when it cannot be initialized.
func New(w io.Writer, opts Options) *slog.Logger {
	var sink slog.Handler
	if opts.Development {
		sink = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		sink = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              opts.SentryDSN,
			Environment:      opts.Environment,
			TracesSampleRate: 0.2,
		})
		if err != nil {
			slog.New(sink).Warn("sentry init failed, continuing without it", "error", err)
		} else {
			sink = slogmulti.Fanout(sink, slogsentry.Option{
				Level:     slog.LevelError,
				AddSource: true,
			}.NewSentryHandler())
		}
	}

	handler := slogmulti.Pipe(slogmulti.NewHandleInlineMiddleware(withRequestID)).Handler(sink)
	return slog.New(handler).With("service", "visionlog")
}

// Init installs New(w, opts) as the default logger.
func Init(w io.Writer, opts Options) *slog.Logger {
	log := New(w, opts)
	slog.SetDefault(log)
	return log
}

func withRequestID(ctx context.Context, record slog.Record, next func(context.Context, slog.Record) error) error {
	if ctx != nil {
		if id := ctxkeys.RequestID(ctx); id != "" {
			record.AddAttrs(slog.String("request_id", id))
		}
	}
	return next(ctx, record)
}

// Flush waits for buffered Sentry events before shutdown.
func Flush() {
	sentry.Flush(2 * time.Second)
}
