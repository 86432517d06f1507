// Package gamedata holds the static tables the inference engine reads:
// species base stats, the CP multiplier curve and the dust cost bands.
package gamedata

import (
	"fmt"
	"sort"
	"strings"
)

// Species is the immutable base stat record of one creature species.
type Species struct {
	Name    string
	Attack  int
	Defense int
	Stamina int
}

// Catalog is a read-only name -> Species lookup.
type Catalog struct {
	byName map[string]Species
}

// NewCatalog builds a catalog from the given species. Names are matched
// case-insensitively; a duplicate name is an error.
func NewCatalog(species ...Species) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]Species, len(species))}
	for _, sp := range species {
		name := strings.TrimSpace(sp.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: species without a name", ErrInvalidTable)
		}
		if sp.Attack <= 0 || sp.Defense <= 0 || sp.Stamina <= 0 {
			return nil, fmt.Errorf("%w: species %q has non-positive base stats", ErrInvalidTable, name)
		}
		key := strings.ToLower(name)
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("%w: duplicate species %q", ErrInvalidTable, name)
		}
		sp.Name = name
		c.byName[key] = sp
	}
	return c, nil
}

// Lookup returns the species with the given name.
func (c *Catalog) Lookup(name string) (Species, error) {
	sp, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Species{}, fmt.Errorf("%w: %q", ErrUnknownSpecies, name)
	}
	return sp, nil
}

// Has reports whether the catalog knows the species.
func (c *Catalog) Has(name string) bool {
	_, err := c.Lookup(name)
	return err == nil
}

// Len returns the number of species in the catalog.
func (c *Catalog) Len() int { return len(c.byName) }

// All returns every species sorted by name.
func (c *Catalog) All() []Species {
	out := make([]Species, 0, len(c.byName))
	for _, sp := range c.byName {
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
