package vcr

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/abdul-hamid-achik/hitvcr/packages/cassette"
	"github.com/bmatcuk/doublestar/v4"
)

// Mode controls whether unmatched requests are recorded.
type Mode string

const (
	// ModeNewEpisodes replays matches and records everything else.
	ModeNewEpisodes Mode = "new_episodes"
	// ModeOnce records only into a cassette that did not exist on insertion.
	ModeOnce Mode = "once"
	// ModeNone never records.
	ModeNone Mode = "none"
)

// IsValid checks if the mode is valid.
func (m Mode) IsValid() bool {
	switch m {
	case ModeNewEpisodes, ModeOnce, ModeNone:
		return true
	default:
		return false
	}
}

// DefaultCassettePath is where cassettes live unless configured otherwise.
const DefaultCassettePath = "testdata/cassettes"

// Configuration errors
var (
	ErrInvalidMode         = errors.New("invalid mode")
	ErrInvalidCassettePath = errors.New("cassette path is not a directory")
	ErrInvalidPattern      = errors.New("invalid url pattern")
)

// Configuration is the mutable recorder configuration returned by
// VCR.Configure. It is safe for concurrent use.
type Configuration struct {
	mu           sync.RWMutex
	mode         Mode
	cassettePath string
	matchers     []string
	whiteList    []string
	blackList    []string
	storage      string
}

// NewConfiguration returns the default configuration: new_episodes mode,
// yaml storage and every request matcher enabled.
func NewConfiguration() *Configuration {
	return &Configuration{
		mode:         ModeNewEpisodes,
		cassettePath: DefaultCassettePath,
		matchers:     append([]string(nil), cassette.DefaultMatchers...),
		storage:      cassette.StorageYAML,
	}
}

// SetMode sets the recording mode.
func (c *Configuration) SetMode(mode string) error {
	m := Mode(mode)
	if !m.IsValid() {
		return fmt.Errorf("%w %q (expected %s, %s or %s)", ErrInvalidMode, mode, ModeNewEpisodes, ModeOnce, ModeNone)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = m
	return nil
}

// Mode returns the recording mode.
func (c *Configuration) Mode() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// SetCassettePath sets the directory cassettes are read from and written
// to. The directory must already exist.
func (c *Configuration) SetCassettePath(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %q", ErrInvalidCassettePath, path)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cassettePath = path
	return nil
}

// CassettePath returns the cassette directory.
func (c *Configuration) CassettePath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cassettePath
}

// EnableRequestMatchers replaces the enabled request matchers.
func (c *Configuration) EnableRequestMatchers(names []string) error {
	if _, err := cassette.LookupMatchers(names); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.matchers = append([]string(nil), names...)
	return nil
}

// RequestMatchers returns the enabled request matcher names.
func (c *Configuration) RequestMatchers() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.matchers...)
}

// SetWhiteList restricts interception to requests whose "host/path"
// matches one of patterns. An empty list intercepts everything.
func (c *Configuration) SetWhiteList(patterns []string) error {
	if err := validatePatterns(patterns); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.whiteList = append([]string(nil), patterns...)
	return nil
}

// WhiteList returns the white list patterns.
func (c *Configuration) WhiteList() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.whiteList...)
}

// SetBlackList excludes requests whose "host/path" matches one of patterns
// from interception.
func (c *Configuration) SetBlackList(patterns []string) error {
	if err := validatePatterns(patterns); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blackList = append([]string(nil), patterns...)
	return nil
}

// BlackList returns the black list patterns.
func (c *Configuration) BlackList() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.blackList...)
}

// SetStorage selects the storage format for cassettes inserted afterwards.
func (c *Configuration) SetStorage(name string) error {
	s, err := cassette.StorageForName(name)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.storage = s.Name()
	return nil
}

// Storage returns the storage format name.
func (c *Configuration) Storage() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.storage
}

// Intercepts reports whether requests to u go through the cassette.
func (c *Configuration) Intercepts(u *url.URL) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	target := u.Host + "/" + strings.TrimPrefix(u.Path, "/")
	if len(c.whiteList) > 0 && !matchAny(c.whiteList, target) {
		return false
	}
	return !matchAny(c.blackList, target)
}

func matchAny(patterns []string, target string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, target); ok {
			return true
		}
	}
	return false
}

func validatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w %q", ErrInvalidPattern, p)
		}
	}
	return nil
}
