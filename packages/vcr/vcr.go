// Package vcr records and replays HTTP interactions through cassettes.
//
// A VCR is an http.RoundTripper. While it is turned on and a cassette is
// inserted, requests are answered from the cassette when a recorded
// interaction matches, and sent to the real transport and recorded
// otherwise, subject to the configured mode. While it is turned off every
// request goes straight to the real transport.
package vcr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/abdul-hamid-achik/hitvcr/packages/cassette"
	"github.com/abdul-hamid-achik/hitvcr/packages/logging"
	"github.com/google/uuid"
)

// Errors returned by the recorder
var (
	ErrTurnedOff        = errors.New("vcr is turned off")
	ErrNoCassette       = errors.New("no cassette inserted")
	ErrUnmatchedRequest = errors.New("request does not match a recorded interaction")
)

// VCR drives cassettes for one test at a time.
type VCR struct {
	mu        sync.Mutex
	config    *Configuration
	transport http.RoundTripper
	logger    *slog.Logger
	on        bool
	cassette  *cassette.Cassette
	session   string
	sanitize  []string
}

// Option is a functional option for VCR
type Option func(*VCR)

// WithTransport sets the transport used for real requests
func WithTransport(rt http.RoundTripper) Option {
	return func(v *VCR) {
		v.transport = rt
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(v *VCR) {
		v.logger = logger
	}
}

// WithSanitize sets the request headers redacted before matching and
// recording. The default is cassette.DefaultSanitizedHeaders.
func WithSanitize(headers []string) Option {
	return func(v *VCR) {
		v.sanitize = headers
	}
}

// New creates a VCR that is turned off.
func New(opts ...Option) *VCR {
	v := &VCR{
		config:    NewConfiguration(),
		transport: http.DefaultTransport,
		logger:    logging.Nop(),
		sanitize:  cassette.DefaultSanitizedHeaders,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Configure returns the live configuration. Changes apply to cassettes
// inserted afterwards, and to matching and filtering immediately.
func (v *VCR) Configure() *Configuration {
	return v.config
}

// TurnOn enables interception. Turning on twice is a no-op.
func (v *VCR) TurnOn() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.on {
		return nil
	}
	v.on = true
	v.logger.Debug("vcr turned on")
	return nil
}

// TurnOff ejects the current cassette and disables interception. It is
// safe to call when already off.
func (v *VCR) TurnOff() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ejectLocked()
	if v.on {
		v.on = false
		v.logger.Debug("vcr turned off")
	}
	return nil
}

// IsOn reports whether interception is enabled.
func (v *VCR) IsOn() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.on
}

// InsertCassette loads the named cassette from the configured cassette
// path in the configured storage format, replacing any current cassette.
func (v *VCR) InsertCassette(name string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.on {
		return fmt.Errorf("inserting cassette %q: %w", name, ErrTurnedOff)
	}

	storage, err := cassette.StorageForName(v.config.Storage())
	if err != nil {
		return err
	}
	c, err := cassette.Open(v.config.CassettePath(), name, storage)
	if err != nil {
		return err
	}

	v.ejectLocked()
	v.cassette = c
	v.session = uuid.New().String()
	v.logger.Debug("cassette inserted",
		"session", v.session,
		"cassette", name,
		"path", c.Path,
		"storage", storage.Name(),
		"new", c.IsNew(),
	)
	return nil
}

func (v *VCR) ejectLocked() {
	if v.cassette == nil {
		return
	}
	stats := v.cassette.Stats()
	v.logger.Debug("cassette ejected",
		"session", v.session,
		"cassette", v.cassette.Name,
		"loaded", stats.TracksLoaded,
		"recorded", stats.TracksRecorded,
		"played", stats.TracksPlayed,
	)
	v.cassette = nil
	v.session = ""
}

// Cassette returns the current cassette, or nil.
func (v *VCR) Cassette() *cassette.Cassette {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cassette
}

// Client returns an http.Client that sends requests through the VCR.
func (v *VCR) Client() *http.Client {
	return &http.Client{Transport: v}
}

// RoundTrip implements http.RoundTripper.
func (v *VCR) RoundTrip(req *http.Request) (*http.Response, error) {
	v.mu.Lock()
	on, c, session := v.on, v.cassette, v.session
	v.mu.Unlock()

	if !on {
		return v.transport.RoundTrip(req)
	}
	if !v.config.Intercepts(req.URL) {
		v.logger.Debug("passthrough", "method", req.Method, "url", req.URL.String())
		return v.transport.RoundTrip(req)
	}
	if c == nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL, ErrNoCassette)
	}

	matchers, err := cassette.LookupMatchers(v.config.RequestMatchers())
	if err != nil {
		return nil, err
	}

	// The caller's request is never modified. Its body is read once and the
	// clone carries the copy to the transport.
	out := req.Clone(req.Context())
	recorded, err := cassette.NewRequest(out)
	if err != nil {
		return nil, err
	}
	// Matching and recording both see the redacted headers.
	recorded = recorded.Sanitized(v.sanitize)

	if resp, ok := c.Playback(recorded, matchers); ok {
		v.logger.Debug("replayed", "session", session, "method", req.Method, "url", recorded.URL, "status", resp.Status.Code)
		return resp.HTTPResponse(req), nil
	}

	mode := v.config.Mode()
	if !canRecord(mode, c) {
		return nil, fmt.Errorf("%s %s on cassette %q in mode %q: %w", req.Method, recorded.URL, c.Name, mode, ErrUnmatchedRequest)
	}

	resp, err := v.transport.RoundTrip(out)
	if err != nil {
		return nil, err
	}
	resp.Request = req
	captured, err := cassette.NewResponse(resp)
	if err != nil {
		return nil, err
	}
	if err := c.Record(recorded, captured); err != nil {
		return nil, err
	}
	v.logger.Debug("recorded", "session", session, "method", req.Method, "url", recorded.URL, "status", resp.StatusCode)
	return resp, nil
}

func canRecord(mode Mode, c *cassette.Cassette) bool {
	switch mode {
	case ModeNewEpisodes:
		return true
	case ModeOnce:
		return c.IsNew()
	default:
		return false
	}
}
