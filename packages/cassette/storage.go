package cassette

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage format names.
const (
	StorageYAML      = "yaml"
	StorageJSON      = "json"
	StorageBlackhole = "blackhole"
)

// ErrUnknownStorage is returned for an unrecognized storage name.
var ErrUnknownStorage = errors.New("unknown storage")

// Storage reads and writes cassette files in one format.
type Storage interface {
	Name() string
	// Load returns an error wrapping fs.ErrNotExist when the cassette
	// has never been written.
	Load(path string) ([]*Interaction, error)
	Save(path string, interactions []*Interaction) error
}

// StorageForName returns the storage registered under name. "yml" is an
// alias of "yaml".
func StorageForName(name string) (Storage, error) {
	switch strings.ToLower(name) {
	case StorageYAML, "yml":
		return yamlStorage{}, nil
	case StorageJSON:
		return jsonStorage{}, nil
	case StorageBlackhole:
		return blackholeStorage{}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownStorage, name)
}

type yamlStorage struct{}

func (yamlStorage) Name() string { return StorageYAML }

func (yamlStorage) Load(path string) ([]*Interaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var interactions []*Interaction
	if err := yaml.Unmarshal(data, &interactions); err != nil {
		return nil, fmt.Errorf("decoding yaml cassette %s: %w", path, err)
	}
	return interactions, nil
}

func (yamlStorage) Save(path string, interactions []*Interaction) error {
	data, err := yaml.Marshal(interactions)
	if err != nil {
		return fmt.Errorf("encoding yaml cassette: %w", err)
	}
	return writeFile(path, data)
}

type jsonStorage struct{}

func (jsonStorage) Name() string { return StorageJSON }

func (jsonStorage) Load(path string) ([]*Interaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	var interactions []*Interaction
	if err := json.Unmarshal(data, &interactions); err != nil {
		return nil, fmt.Errorf("decoding json cassette %s: %w", path, err)
	}
	return interactions, nil
}

func (jsonStorage) Save(path string, interactions []*Interaction) error {
	if interactions == nil {
		interactions = []*Interaction{}
	}
	data, err := json.MarshalIndent(interactions, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding json cassette: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// blackholeStorage never persists anything; every cassette starts empty.
type blackholeStorage struct{}

func (blackholeStorage) Name() string { return StorageBlackhole }

func (blackholeStorage) Load(path string) ([]*Interaction, error) {
	return nil, fmt.Errorf("blackhole cassette %s: %w", path, fs.ErrNotExist)
}

func (blackholeStorage) Save(string, []*Interaction) error { return nil }

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating cassette directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing cassette: %w", err)
	}
	return nil
}
