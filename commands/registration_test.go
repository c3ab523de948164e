package commands

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	command "github.com/goliatone/go-command"
	markdowncmd "github.com/goliatone/go-vaultsync/internal/commands/markdown"
	"github.com/goliatone/go-vaultsync/internal/di"
	"github.com/goliatone/go-vaultsync/internal/logging"
	"github.com/goliatone/go-vaultsync/internal/runtimeconfig"
	"github.com/goliatone/go-vaultsync/pkg/interfaces"
)

func newContainer(t *testing.T, cron string) *di.Container {
	t.Helper()
	root := t.TempDir()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Source.Dir = filepath.Join(root, "vault")
	cfg.Source.ImagesDir = filepath.Join(root, "vault", "images")
	cfg.Output.ContentDir = filepath.Join(root, "content")
	cfg.Output.AssetDir = filepath.Join(root, "assets")
	cfg.Schedule.SyncCron = cron
	if err := os.MkdirAll(cfg.Source.ImagesDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	container, err := di.NewContainer(cfg, di.WithLoggerProvider(noopProvider{}))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	return container
}

func TestRegisterContainerCommandsBuildsHandlers(t *testing.T) {
	registry := &recordingRegistry{}
	dispatcher := &recordingDispatcher{}
	cron := &recordingCron{}

	result, err := RegisterContainerCommands(newContainer(t, "@hourly"), RegistrationOptions{
		Registry:      registry,
		Dispatcher:    dispatcher,
		CronRegistrar: cron.Registrar(),
	})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}

	if len(result.Handlers) != 2 {
		t.Fatalf("expected sync and fix handlers, got %d", len(result.Handlers))
	}
	if len(registry.handlers) != len(result.Handlers) {
		t.Fatalf("expected registry to record all handlers, got %d of %d", len(registry.handlers), len(result.Handlers))
	}
	if len(dispatcher.subscriptions) != 2 {
		t.Fatalf("expected dispatcher subscriptions, got %d", len(dispatcher.subscriptions))
	}
	if len(cron.registrations) != 1 {
		t.Fatalf("expected only the sync handler to be scheduled, got %d", len(cron.registrations))
	}
	if got := cron.registrations[0].config.Expression; got != "@hourly" {
		t.Fatalf("expected cron expression @hourly, got %q", got)
	}
	if cron.registrations[0].handler == nil {
		t.Fatal("expected cron handler func")
	}
	if _, ok := result.Handlers[0].(*markdowncmd.SyncVaultHandler); !ok {
		t.Fatalf("expected first handler to be the sync handler, got %T", result.Handlers[0])
	}

	result.Close()
	for _, sub := range dispatcher.subscriptions {
		if !sub.unsubscribed {
			t.Fatal("expected Close to unsubscribe every subscription")
		}
	}
}

func TestRegisterContainerCommandsCronRunsSync(t *testing.T) {
	cron := &recordingCron{}
	container := newContainer(t, "*/5 * * * *")

	if _, err := RegisterContainerCommands(container, RegistrationOptions{CronRegistrar: cron.Registrar()}); err != nil {
		t.Fatalf("register commands: %v", err)
	}
	if len(cron.registrations) != 1 {
		t.Fatalf("expected one cron registration, got %d", len(cron.registrations))
	}
	if err := cron.registrations[0].handler(); err != nil {
		t.Fatalf("cron handler returned error: %v", err)
	}
	if _, err := os.Stat(container.Config.Output.ContentDir); err != nil {
		t.Fatalf("expected cron run to reset the content dir: %v", err)
	}
}

func TestRegisterContainerCommandsWithoutSchedule(t *testing.T) {
	cron := &recordingCron{}

	result, err := RegisterContainerCommands(newContainer(t, ""), RegistrationOptions{CronRegistrar: cron.Registrar()})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}
	if len(result.Handlers) != 2 {
		t.Fatalf("expected handlers to be built, got %d", len(result.Handlers))
	}
	if len(cron.registrations) != 0 {
		t.Fatalf("expected no cron registrations without a schedule, got %d", len(cron.registrations))
	}
	if len(result.Subscriptions) != 0 {
		t.Fatalf("expected no dispatcher subscriptions without dispatcher, got %d", len(result.Subscriptions))
	}
}

func TestRegisterContainerCommandsJoinsErrors(t *testing.T) {
	sentinel := errors.New("registry down")

	result, err := RegisterContainerCommands(newContainer(t, ""), RegistrationOptions{
		Dispatcher: &recordingDispatcher{err: sentinel},
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected dispatcher error, got %v", err)
	}
	if len(result.Handlers) != 2 {
		t.Fatalf("expected handlers to be returned alongside errors, got %d", len(result.Handlers))
	}
}

func TestRegisterContainerCommandsNilContainer(t *testing.T) {
	if _, err := RegisterContainerCommands(nil, RegistrationOptions{}); err == nil {
		t.Fatal("expected error for nil container")
	}
}

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger { return logging.NoOp() }

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}

type cronRegistration struct {
	config  command.HandlerConfig
	handler func() error
}

type recordingCron struct {
	registrations []cronRegistration
	err           error
}

func (c *recordingCron) Registrar() CronRegistrar {
	return func(cfg command.HandlerConfig, handler any) error {
		if c.err != nil {
			return c.err
		}
		var fn func() error
		if h, ok := handler.(func() error); ok {
			fn = h
		}
		c.registrations = append(c.registrations, cronRegistration{
			config:  cfg,
			handler: fn,
		})
		return nil
	}
}

type recordingDispatcher struct {
	handlers      []any
	subscriptions []*recordingSubscription
	err           error
}

func (d *recordingDispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	if d.err != nil {
		return nil, d.err
	}
	d.handlers = append(d.handlers, handler)
	sub := &recordingSubscription{handler: handler}
	d.subscriptions = append(d.subscriptions, sub)
	return sub, nil
}

type recordingSubscription struct {
	handler      any
	unsubscribed bool
}

func (s *recordingSubscription) Unsubscribe() {
	s.unsubscribed = true
}
