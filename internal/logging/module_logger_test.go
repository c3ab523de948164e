package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-vaultsync/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "vaultsync.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger = WithFields(logger, map[string]any{"foo": "bar"})
	logger.Debug("noop")
}

func TestModuleLoggerUsesProviderAndAnnotatesFields(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	SyncerLogger(provider).Info("with provider")

	if len(provider.requested) != 1 || provider.requested[0] != syncerModule {
		t.Fatalf("expected module %s, got %v", syncerModule, provider.requested)
	}
	if len(rec.fields) != 1 {
		t.Fatalf("expected module fields to be applied once, got %d", len(rec.fields))
	}
	if got := rec.fields[0]["module"]; got != syncerModule {
		t.Fatalf("expected module field %s, got %v", syncerModule, got)
	}
}

func TestWithDocumentContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}

	WithDocumentContext(rec, "  ", "")
	if len(rec.fields) != 0 {
		t.Fatalf("expected no fields for empty values, got %v", rec.fields)
	}

	WithDocumentContext(rec, "notes/trip.md", "trip")
	if len(rec.fields) != 1 {
		t.Fatalf("expected one field set, got %d", len(rec.fields))
	}
	if rec.fields[0][fieldSourcePath] != "notes/trip.md" || rec.fields[0][fieldSlug] != "trip" {
		t.Fatalf("unexpected document fields: %v", rec.fields[0])
	}
}

func TestWithRunIDIgnoresBlank(t *testing.T) {
	rec := &recordingLogger{}
	WithRunID(rec, "")
	if len(rec.fields) != 0 {
		t.Fatalf("expected blank run id to be ignored")
	}
	WithRunID(rec, "run-1")
	if len(rec.fields) != 1 || rec.fields[0][fieldRunID] != "run-1" {
		t.Fatalf("expected run id field, got %v", rec.fields)
	}
}

func TestWithFieldsDropsBlankValues(t *testing.T) {
	rec := &recordingLogger{}

	WithFields(rec, map[string]any{"trigger": " ", "error": nil})
	if len(rec.fields) != 0 {
		t.Fatalf("expected blank fields to be skipped, got %v", rec.fields)
	}

	fields := map[string]any{"trigger": " watch ", "processed_count": 0, "slug": ""}
	WithFields(rec, fields)
	if len(rec.fields) != 1 {
		t.Fatalf("expected one field set, got %d", len(rec.fields))
	}
	got := rec.fields[0]
	if got["trigger"] != "watch" || got["processed_count"] != 0 {
		t.Fatalf("unexpected fields: %v", got)
	}
	if _, ok := got["slug"]; ok {
		t.Fatalf("expected blank slug to be dropped, got %v", got)
	}
	if fields["trigger"] != " watch " {
		t.Fatalf("expected caller map to be left untouched, got %v", fields)
	}
}

func TestContextWithFieldsMerges(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"a": 1})
	ctx = ContextWithFields(ctx, map[string]any{"b": 2, "a": 3})

	fields := ContextFields(ctx)
	if fields["a"] != 3 || fields["b"] != 2 {
		t.Fatalf("unexpected merged fields: %v", fields)
	}
	fields["a"] = 99
	if ContextFields(ctx)["a"] != 3 {
		t.Fatalf("expected ContextFields to return a copy")
	}
}
