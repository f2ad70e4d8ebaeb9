package listener

import (
	"log/slog"
	"strings"

	"github.com/abdul-hamid-achik/hitvcr/packages/annotation"
	"github.com/abdul-hamid-achik/hitvcr/packages/cassette"
	"github.com/abdul-hamid-achik/hitvcr/packages/core/config"
	"github.com/abdul-hamid-achik/hitvcr/packages/logging"
	"github.com/abdul-hamid-achik/hitvcr/packages/vcr"
)

// jsonSuffix selects JSON storage when a cassette name ends with it.
// Only the last two characters are compared, so "person" matches too.
const jsonSuffix = "on"

// Test identifies a running test. *testing.T satisfies it.
type Test interface {
	Name() string
}

// TestListener receives test runner lifecycle callbacks.
type TestListener interface {
	StartSuite(name string)
	EndSuite(name string)
	StartTest(test Test) (bool, error)
	EndTest(test Test) error
	AddError(test Test, err error)
	AddFailure(test Test, err error)
	AddWarning(test Test, err error)
	AddIncomplete(test Test, err error)
	AddSkipped(test Test, err error)
	AddRisky(test Test, err error)
}

var _ TestListener = (*Listener)(nil)

// Listener turns the recorder on for tests that carry a cassette directive.
type Listener struct {
	engine   Engine
	registry *annotation.Registry
	options  config.Options
	tag      string
	logger   *slog.Logger
}

// Option is a functional option for Listener
type Option func(*Listener)

// WithOptions sets the static recorder options applied before every test.
// Unknown names are only reported when a test starts.
func WithOptions(opts config.Options) Option {
	return func(l *Listener) {
		l.options = append(config.Options(nil), opts...)
	}
}

// WithTag replaces the "@vcr" directive tag
func WithTag(tag string) Option {
	return func(l *Listener) {
		l.tag = tag
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(l *Listener) {
		l.logger = logger
	}
}

// New creates a listener driving engine. registry holds the doc comments of
// the tests that may run.
func New(engine Engine, registry *annotation.Registry, opts ...Option) *Listener {
	l := &Listener{
		engine:   engine,
		registry: registry,
		tag:      annotation.DefaultTag,
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewVCR creates a listener driving v.
func NewVCR(v *vcr.VCR, registry *annotation.Registry, opts ...Option) *Listener {
	return New(EngineFor(v), registry, opts...)
}

// FromConfig scans cfg.TestDir for tests and creates a listener using the
// options, tag and logging settings of cfg.
func FromConfig(engine Engine, cfg *config.Config) (*Listener, error) {
	registry, err := annotation.ScanDir(cfg.TestDir)
	if err != nil {
		return nil, err
	}

	logger := logging.New(logging.FromSettings(cfg.LogLevel, cfg.LogFormat, cfg.GetVerbose(), nil))
	logger.Debug("test registry loaded", "dir", cfg.TestDir, "tests", registry.Len())

	opts := []Option{WithOptions(cfg.Options), WithLogger(logger)}
	if cfg.Tag != "" {
		opts = append(opts, WithTag(cfg.Tag))
	}
	return New(engine, registry, opts...), nil
}

// StartTest prepares the recorder for test and reports whether a cassette
// was inserted. Tests unknown to the registry are left alone. Otherwise
// the static options are applied even when no cassette is named.
func (l *Listener) StartTest(test Test) (bool, error) {
	entry, ok := l.registry.Resolve(test.Name())
	if !ok {
		l.logger.Debug("test not in registry, skipping", "test", test.Name())
		return false, nil
	}

	cassetteName := annotation.LastDirective(entry.Doc, l.tag)

	cfg := l.engine.Configure()
	if err := ApplyAll(cfg, l.options); err != nil {
		return false, err
	}

	if storage := StorageHint(cassetteName); storage != "" {
		if err := cfg.SetStorage(storage); err != nil {
			return false, err
		}
	}

	if cassetteName == "" {
		l.logger.Debug("no cassette directive", "test", test.Name())
		return false, nil
	}

	if err := l.engine.TurnOn(); err != nil {
		return false, err
	}
	if err := l.engine.InsertCassette(cassetteName); err != nil {
		return false, err
	}

	l.logger.Debug("cassette activated", "test", test.Name(), "cassette", cassetteName)
	return true, nil
}

// StorageHint returns the storage implied by a cassette name, or "" when
// the configured storage applies.
func StorageHint(cassetteName string) string {
	if strings.HasSuffix(cassetteName, jsonSuffix) {
		return cassette.StorageJSON
	}
	return ""
}

// EndTest turns the recorder off. It runs for every test, whether or not
// StartTest inserted a cassette.
func (l *Listener) EndTest(test Test) error {
	return l.engine.TurnOff()
}

// StartSuite is a no-op.
func (l *Listener) StartSuite(name string) {}

// EndSuite is a no-op.
func (l *Listener) EndSuite(name string) {}

// AddError is a no-op.
func (l *Listener) AddError(test Test, err error) {}

// AddFailure is a no-op.
func (l *Listener) AddFailure(test Test, err error) {}

// AddWarning is a no-op.
func (l *Listener) AddWarning(test Test, err error) {}

// AddIncomplete is a no-op.
func (l *Listener) AddIncomplete(test Test, err error) {}

// AddSkipped is a no-op.
func (l *Listener) AddSkipped(test Test, err error) {}

// AddRisky is a no-op.
func (l *Listener) AddRisky(test Test, err error) {}
