package filter

import (
	"errors"
	"fmt"
)

// ErrUnknownFilter is returned by Lookup for a name not in the catalog.
var ErrUnknownFilter = errors.New("unknown filter")

// Catalog is the ordered registry of themes offered to the player.
type Catalog struct {
	filters []Filter
}

// NewCatalog builds a catalog; later filters with a duplicate name are dropped.
func NewCatalog(filters ...Filter) *Catalog {
	c := &Catalog{}
	seen := make(map[string]struct{}, len(filters))
	for _, f := range filters {
		if _, ok := seen[f.Name]; ok {
			continue
		}
		seen[f.Name] = struct{}{}
		c.filters = append(c.filters, f)
	}
	return c
}

// DefaultCatalog holds the built-in themes.
func DefaultCatalog() *Catalog {
	return NewCatalog(All(), Long(), Love())
}

func (c *Catalog) Filters() []Filter {
	return append([]Filter(nil), c.filters...)
}

func (c *Catalog) Lookup(name string) (Filter, error) {
	for _, f := range c.filters {
		if f.Name == name {
			return f, nil
		}
	}
	return Filter{}, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
}
