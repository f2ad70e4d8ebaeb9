package cassette

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
)

// Cassette is a named set of interactions backed by a storage file.
type Cassette struct {
	Name string
	Path string

	mu           sync.Mutex
	storage      Storage
	interactions []*Interaction
	played       map[int]bool
	isNew        bool
	stats        Stats
}

// Open loads the cassette name from dir using storage. A cassette that has
// never been written starts empty and reports IsNew.
func Open(dir, name string, storage Storage) (*Cassette, error) {
	path := filepath.Join(dir, name)
	c := &Cassette{
		Name:    name,
		Path:    path,
		storage: storage,
		played:  make(map[int]bool),
	}

	interactions, err := storage.Load(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		c.isNew = true
	case err != nil:
		return nil, fmt.Errorf("loading cassette %q: %w", name, err)
	default:
		c.interactions = interactions
	}

	c.stats.TracksLoaded = int32(len(c.interactions))
	c.stats.TotalTracks = c.stats.TracksLoaded
	return c, nil
}

// IsNew reports whether the cassette file did not exist when opened.
func (c *Cassette) IsNew() bool {
	return c.isNew
}

// StorageName returns the name of the cassette's storage format.
func (c *Cassette) StorageName() string {
	return c.storage.Name()
}

// Playback returns the recorded response for req. The first matching
// interaction not yet played is preferred; once every match has been
// played the first match is reused.
func (c *Cassette) Playback(req Request, ms []Matcher) (Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	first := -1
	for i, in := range c.interactions {
		if !Matches(in.Request, req, ms) {
			continue
		}
		if !c.played[i] {
			c.played[i] = true
			c.stats.TracksPlayed++
			return in.Response, true
		}
		if first < 0 {
			first = i
		}
	}
	if first < 0 {
		return Response{}, false
	}
	c.stats.TracksPlayed++
	return c.interactions[first].Response, true
}

// Record appends an interaction and saves the cassette.
func (c *Cassette) Record(req Request, resp Response) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.interactions = append(c.interactions, &Interaction{Request: req, Response: resp})
	// Recorded tracks count as played so a repeat request replays the next one.
	c.played[len(c.interactions)-1] = true
	c.stats.TracksRecorded++
	c.stats.TotalTracks = int32(len(c.interactions))

	if err := c.storage.Save(c.Path, c.interactions); err != nil {
		return fmt.Errorf("saving cassette %q: %w", c.Name, err)
	}
	return nil
}

// Interactions returns a copy of the cassette's interactions.
func (c *Cassette) Interactions() []Interaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]Interaction, len(c.interactions))
	for i, in := range c.interactions {
		result[i] = *in
	}
	return result
}

// Stats returns the cassette's statistics.
func (c *Cassette) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
