package interfaces

import "context"

// Logger is the leveled logging contract used across the sync pipeline. It
// mirrors github.com/goliatone/go-logger so that package can be plugged in
// through a thin adapter.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out named loggers, one per pipeline module.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is an optional extension for loggers that can carry persistent
// structured fields (run id, slug, source path) on every entry.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
