package listener

import "github.com/abdul-hamid-achik/hitvcr/packages/vcr"

// Configurator is the mutable recorder configuration.
type Configurator interface {
	SetMode(mode string) error
	SetCassettePath(path string) error
	EnableRequestMatchers(names []string) error
	SetWhiteList(patterns []string) error
	SetBlackList(patterns []string) error
	SetStorage(storage string) error
}

// Engine is the recorder the listener drives.
type Engine interface {
	Configure() Configurator
	TurnOn() error
	TurnOff() error
	InsertCassette(name string) error
}

// vcrEngine adapts *vcr.VCR to Engine.
type vcrEngine struct {
	*vcr.VCR
}

func (e vcrEngine) Configure() Configurator {
	return e.VCR.Configure()
}

// EngineFor returns v as an Engine.
func EngineFor(v *vcr.VCR) Engine {
	return vcrEngine{VCR: v}
}
