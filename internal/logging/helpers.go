package logging

import (
	"strings"

	"github.com/goliatone/go-vaultsync/pkg/interfaces"
)

// WithFields returns logger annotated with fields. Nil values and blank
// strings are dropped, so optional document attributes (slug, trigger, run
// id) can be passed unconditionally. Loggers that cannot carry fields are
// returned unchanged.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil {
		return logger
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}

	kept := make(map[string]any, len(fields))
	for key, value := range fields {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			if v = strings.TrimSpace(v); v == "" {
				continue
			}
			kept[key] = v
		default:
			kept[key] = value
		}
	}
	if len(kept) == 0 {
		return logger
	}
	return fieldsLogger.WithFields(kept)
}
