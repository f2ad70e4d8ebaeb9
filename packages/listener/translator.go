package listener

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/hitvcr/packages/core/config"
)

// Configuration errors
var (
	ErrUnknownOption = errors.New("unknown VCR configuration option")
	ErrInvalidValue  = errors.New("invalid value for VCR configuration option")
)

// ConfigError reports a static option that could not be applied.
type ConfigError struct {
	Option string
	Value  any
	Err    error
}

func (e *ConfigError) Error() string {
	if errors.Is(e.Err, ErrUnknownOption) {
		return fmt.Sprintf("%v %q (known: %s)", e.Err, e.Option, strings.Join(config.KnownOptions, ", "))
	}
	return fmt.Sprintf("%v %q: %#v", e.Err, e.Option, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Apply sets one static option on cfg. Errors returned by cfg itself are
// passed through unchanged.
func Apply(cfg Configurator, name string, value any) error {
	switch name {
	case config.OptionMode:
		s, ok := value.(string)
		if !ok {
			return invalidValue(name, value)
		}
		return cfg.SetMode(s)
	case config.OptionCassettePath:
		s, ok := value.(string)
		if !ok {
			return invalidValue(name, value)
		}
		return cfg.SetCassettePath(s)
	case config.OptionRequestMatchers:
		list, ok := stringList(value)
		if !ok {
			return invalidValue(name, value)
		}
		return cfg.EnableRequestMatchers(list)
	case config.OptionWhiteList:
		list, ok := stringList(value)
		if !ok {
			return invalidValue(name, value)
		}
		return cfg.SetWhiteList(list)
	case config.OptionBlackList:
		list, ok := stringList(value)
		if !ok {
			return invalidValue(name, value)
		}
		return cfg.SetBlackList(list)
	default:
		return &ConfigError{Option: name, Value: value, Err: ErrUnknownOption}
	}
}

// ApplyAll applies opts in order and stops at the first error. Options
// applied before the failure stay applied.
func ApplyAll(cfg Configurator, opts config.Options) error {
	for _, opt := range opts {
		if err := Apply(cfg, opt.Name, opt.Value); err != nil {
			return err
		}
	}
	return nil
}

func invalidValue(name string, value any) error {
	return &ConfigError{Option: name, Value: value, Err: ErrInvalidValue}
}

// stringList accepts a single string, a []string or a []any of strings.
func stringList(value any) ([]string, bool) {
	switch v := value.(type) {
	case string:
		return []string{v}, true
	case []string:
		return v, true
	case []any:
		list := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			list = append(list, s)
		}
		return list, true
	case nil:
		return nil, true
	}
	return nil, false
}
