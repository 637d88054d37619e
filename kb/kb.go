// Package kb holds the catalog of named ground and terminal site presets
// that the CLI and the propagation service resolve requests against.
package kb

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/signalsfoundry/lunar-propagation/model"
)

var (
	// ErrNotFound is returned when a named preset does not exist.
	ErrNotFound = errors.New("preset not found")
	// ErrExists is returned when adding a preset whose name is taken.
	ErrExists = errors.New("preset already exists")
	// ErrInvalidPreset is returned for presets that could never be used in a
	// computation.
	ErrInvalidPreset = errors.New("invalid preset")
)

// EventType indicates what kind of change happened in the catalog.
type EventType int

const (
	EventGroundAdded EventType = iota
	EventSiteAdded
)

func (t EventType) String() string {
	switch t {
	case EventGroundAdded:
		return "ground"
	case EventSiteAdded:
		return "site"
	default:
		return "unknown"
	}
}

// Event is emitted to subscribers when a preset is added.
type Event struct {
	Type EventType
	Name string
}

// Site is a named terminal placement for area-mode requests.
type Site struct {
	Name   string               `json:"name"`
	Height float64              `json:"height_m"`
	Siting model.SitingCriteria `json:"siting"`
}

// Catalog is an in-memory, thread-safe store of ground and site presets.
type Catalog struct {
	mu sync.RWMutex

	grounds map[string]model.Ground
	sites   map[string]Site

	subs map[int]func(Event)
	next int
}

// NewCatalog constructs an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		grounds: make(map[string]model.Ground),
		sites:   make(map[string]Site),
		subs:    make(map[int]func(Event)),
	}
}

// DefaultCatalog returns a catalog seeded with typical lunar surfaces and
// terminal placements.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	for name, g := range map[string]model.Ground{
		"highlands_regolith": {Epsilon: 2.7, Sigma: 1e-5},
		"mare_regolith":      {Epsilon: 3.8, Sigma: 1e-4},
		"bedrock":            {Epsilon: 6.5, Sigma: 1e-3},
	} {
		_ = c.AddGround(name, g)
	}
	for _, s := range []Site{
		{Name: "rover", Height: 2, Siting: model.SitingMobile},
		{Name: "astronaut", Height: 1.5, Siting: model.SitingMobile},
		{Name: "lander", Height: 5, Siting: model.SitingFixed},
		{Name: "mast", Height: 30, Siting: model.SitingFixed},
	} {
		_ = c.AddSite(s)
	}
	return c
}

// AddGround registers a named ground preset.
func (c *Catalog) AddGround(name string, g model.Ground) error {
	if name == "" {
		return fmt.Errorf("%w: ground name is empty", ErrInvalidPreset)
	}
	if g.Epsilon < 1 || g.Sigma <= 0 {
		return fmt.Errorf("%w: ground %q needs epsilon >= 1 and sigma > 0", ErrInvalidPreset, name)
	}

	c.mu.Lock()
	if _, exists := c.grounds[name]; exists {
		c.mu.Unlock()
		return fmt.Errorf("%w: ground %q", ErrExists, name)
	}
	c.grounds[name] = g
	subs := c.snapshotSubs()
	c.mu.Unlock()

	notify(subs, Event{Type: EventGroundAdded, Name: name})
	return nil
}

// AddSite registers a named site preset.
func (c *Catalog) AddSite(s Site) error {
	if s.Name == "" {
		return fmt.Errorf("%w: site name is empty", ErrInvalidPreset)
	}
	if s.Height <= 0 || !s.Siting.Valid() {
		return fmt.Errorf("%w: site %q needs a positive height and a valid siting", ErrInvalidPreset, s.Name)
	}

	c.mu.Lock()
	if _, exists := c.sites[s.Name]; exists {
		c.mu.Unlock()
		return fmt.Errorf("%w: site %q", ErrExists, s.Name)
	}
	c.sites[s.Name] = s
	subs := c.snapshotSubs()
	c.mu.Unlock()

	notify(subs, Event{Type: EventSiteAdded, Name: s.Name})
	return nil
}

// Ground returns the named ground preset.
func (c *Catalog) Ground(name string) (model.Ground, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	g, ok := c.grounds[name]
	if !ok {
		return model.Ground{}, fmt.Errorf("%w: ground %q", ErrNotFound, name)
	}
	return g, nil
}

// Site returns the named site preset.
func (c *Catalog) Site(name string) (Site, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.sites[name]
	if !ok {
		return Site{}, fmt.Errorf("%w: site %q", ErrNotFound, name)
	}
	return s, nil
}

// GroundNames returns the registered ground preset names, sorted.
func (c *Catalog) GroundNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := make([]string, 0, len(c.grounds))
	for name := range c.grounds {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

// ListSites returns a snapshot of all site presets, sorted by name.
func (c *Catalog) ListSites() []Site {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := make([]Site, 0, len(c.sites))
	for _, s := range c.sites {
		res = append(res, s)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}

// Subscribe registers a callback for catalog events. It returns an
// unsubscribe function.
func (c *Catalog) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.next
	c.next++
	c.subs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// caller holds c.mu.
func (c *Catalog) snapshotSubs() []func(Event) {
	subs := make([]func(Event), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	return subs
}

// Subscribers run outside the lock so they may call back into the catalog.
func notify(subs []func(Event), ev Event) {
	for _, fn := range subs {
		fn(ev)
	}
}

type catalogDocument struct {
	Grounds []struct {
		Name    string  `yaml:"name"`
		Epsilon float64 `yaml:"epsilon"`
		Sigma   float64 `yaml:"sigma"`
	} `yaml:"grounds"`
	Sites []struct {
		Name   string  `yaml:"name"`
		Height float64 `yaml:"height_m"`
		Siting string  `yaml:"siting"`
	} `yaml:"sites"`
}

// Load reads presets from a YAML document and adds them to the catalog.
// The document has top-level "grounds" and "sites" lists. Loading stops at
// the first invalid or duplicate entry.
func (c *Catalog) Load(r io.Reader) error {
	var doc catalogDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode catalog: %w", err)
	}

	for _, g := range doc.Grounds {
		if err := c.AddGround(g.Name, model.Ground{Epsilon: g.Epsilon, Sigma: g.Sigma}); err != nil {
			return err
		}
	}
	for _, s := range doc.Sites {
		siting, err := model.ParseSitingCriteria(s.Siting)
		if err != nil {
			return fmt.Errorf("%w: site %q: %v", ErrInvalidPreset, s.Name, err)
		}
		if err := c.AddSite(Site{Name: s.Name, Height: s.Height, Siting: siting}); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile is Load over the named file.
func (c *Catalog) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return c.Load(f)
}
