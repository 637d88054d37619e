package kb

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/signalsfoundry/lunar-propagation/model"
)

func TestAddAndGetGround(t *testing.T) {
	store := NewCatalog()
	if err := store.AddGround("dust", model.Ground{Epsilon: 2, Sigma: 1e-6}); err != nil {
		t.Fatalf("AddGround error: %v", err)
	}
	got, err := store.Ground("dust")
	if err != nil || got.Epsilon != 2 {
		t.Fatalf("Ground(dust) = %+v, %v, want epsilon 2", got, err)
	}
	if _, err := store.Ground("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Ground(missing) err = %v, want ErrNotFound", err)
	}
}

func TestAddGroundDuplicateAndInvalid(t *testing.T) {
	store := NewCatalog()
	if err := store.AddGround("dust", model.Ground{Epsilon: 2, Sigma: 1e-6}); err != nil {
		t.Fatalf("first AddGround error: %v", err)
	}
	if err := store.AddGround("dust", model.Ground{Epsilon: 3, Sigma: 1e-6}); !errors.Is(err, ErrExists) {
		t.Fatalf("duplicate AddGround err = %v, want ErrExists", err)
	}
	if err := store.AddGround("vacuum", model.Ground{Epsilon: 0.5, Sigma: 1e-6}); !errors.Is(err, ErrInvalidPreset) {
		t.Fatalf("AddGround(epsilon 0.5) err = %v, want ErrInvalidPreset", err)
	}
	if err := store.AddSite(Site{Name: "pole", Height: 0, Siting: model.SitingFixed}); !errors.Is(err, ErrInvalidPreset) {
		t.Fatalf("AddSite(height 0) err = %v, want ErrInvalidPreset", err)
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	names := c.GroundNames()
	if len(names) != 3 || names[0] != "bedrock" {
		t.Fatalf("GroundNames = %v, want 3 sorted presets", names)
	}
	lander, err := c.Site("lander")
	if err != nil || lander.Siting != model.SitingFixed {
		t.Fatalf("Site(lander) = %+v, %v, want fixed siting", lander, err)
	}
	if got := len(c.ListSites()); got != 4 {
		t.Fatalf("ListSites len = %d, want 4", got)
	}
}

func TestLoadYAML(t *testing.T) {
	doc := `
grounds:
  - name: south_pole_ice
    epsilon: 3.15
    sigma: 0.00002
sites:
  - name: relay
    height_m: 12
    siting: fixed
`
	c := NewCatalog()
	if err := c.Load(strings.NewReader(doc)); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	g, err := c.Ground("south_pole_ice")
	if err != nil || g.Epsilon != 3.15 || g.Sigma != 0.00002 {
		t.Fatalf("Ground = %+v, %v", g, err)
	}
	s, err := c.Site("relay")
	if err != nil || s.Height != 12 || s.Siting != model.SitingFixed {
		t.Fatalf("Site = %+v, %v", s, err)
	}
}

func TestLoadRejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"unknown field": "grounds:\n  - name: x\n    epsilon: 2\n    sigma: 1\n    colour: grey\n",
		"bad siting":    "sites:\n  - name: x\n    height_m: 2\n    siting: floating\n",
		"bad ground":    "grounds:\n  - name: x\n    epsilon: 2\n    sigma: 0\n",
	}
	for name, doc := range cases {
		if err := NewCatalog().Load(strings.NewReader(doc)); err == nil {
			t.Fatalf("%s: Load error = nil, want error", name)
		}
	}
	if err := NewCatalog().Load(strings.NewReader("")); err != nil {
		t.Fatalf("Load(empty) = %v, want nil", err)
	}
}

func TestSubscribeReceivesEvents(t *testing.T) {
	c := NewCatalog()

	var got []Event
	unsubscribe := c.Subscribe(func(ev Event) { got = append(got, ev) })

	_ = c.AddGround("a", model.Ground{Epsilon: 2, Sigma: 1})
	_ = c.AddSite(Site{Name: "b", Height: 1, Siting: model.SitingMobile})
	unsubscribe()
	_ = c.AddGround("c", model.Ground{Epsilon: 2, Sigma: 1})

	if len(got) != 2 || got[0].Type != EventGroundAdded || got[1].Name != "b" {
		t.Fatalf("events = %+v, want ground a then site b", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := DefaultCatalog()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.AddGround(fmt.Sprintf("g-%d", i), model.Ground{Epsilon: 2, Sigma: 1})
			_, _ = c.Ground("bedrock")
			_ = c.ListSites()
		}()
	}
	wg.Wait()

	if got := len(c.GroundNames()); got != 19 {
		t.Fatalf("GroundNames len = %d, want 19", got)
	}
}
