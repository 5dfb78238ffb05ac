package sdk

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Logger interface {
	Debugf(template string, args ...any)
	Infof(template string, args ...any)
	Warnf(template string, args ...any)
	Errorf(template string, args ...any)
}

type contextLoggerValueT string

const ContextLoggerValue = contextLoggerValueT("txexec-logger")

var defaultLogger = sync.OnceValue(func() Logger {
	return zap.Must(zap.NewProduction()).Sugar()
})

// LoggerFrom returns the logger stored in the context, or a shared production zap logger.
func LoggerFrom(ctx context.Context) Logger {
	value := ctx.Value(ContextLoggerValue)
	logger, ok := value.(Logger)
	if !ok {
		logger = defaultLogger()
	}

	return logger
}

// ContextWithLogger returns a copy of ctx carrying the logger.
func ContextWithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, ContextLoggerValue, logger)
}
