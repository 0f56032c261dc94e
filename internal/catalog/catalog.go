// Package catalog holds the per-image feature records that wallpaper
// selection works from, and reads and writes them as CSV.
package catalog

import "slices"

// Entry is the feature record of one image. All fractions are in [0,1].
type Entry struct {
	Path  string
	Red   float64
	Green float64
	Blue  float64
	Light float64
	Dark  float64
}

// Catalog is an ordered set of entries keyed by path.
type Catalog struct {
	entries []Entry
	index   map[string]int
}

// New creates a catalog from entries. Later duplicates replace earlier ones.
func New(entries ...Entry) *Catalog {
	c := &Catalog{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		c.Add(e)
	}
	return c
}

// Add inserts e, or replaces the entry with the same path in place.
func (c *Catalog) Add(e Entry) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[e.Path]; ok {
		c.entries[i] = e
		return
	}
	c.index[e.Path] = len(c.entries)
	c.entries = append(c.entries, e)
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Get returns the entry for path.
func (c *Catalog) Get(path string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	i, ok := c.index[path]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Entries returns a copy of the entries in catalog order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	return slices.Clone(c.entries)
}

// Sorted returns a new catalog with entries ordered by cmp. The receiver is
// left unchanged.
func (c *Catalog) Sorted(cmp func(a, b Entry) int) *Catalog {
	entries := c.Entries()
	slices.SortStableFunc(entries, cmp)
	return New(entries...)
}
