// Package grid holds the static, read-only catalog of inspection grids.
//
// A grid is a versioned list of criteria grouped into sections; it defines
// what an inspection checks. Grids are supplied by this catalog and are never
// mutated by the application.
package grid

// Grid is one catalog entry.
type Grid struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Version     string    `json:"version"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	Sections    []Section `json:"sections"`
}

// Section groups ordered criteria under a title.
type Section struct {
	ID    int         `json:"id"`
	Title string      `json:"title"`
	Items []Criterion `json:"items"`
}

// Criterion is one checkable item within a section. PreOpening marks items
// that already apply before an establishment opens.
type Criterion struct {
	ID          int    `json:"id"`
	Reference   string `json:"reference"`
	Description string `json:"description"`
	PreOpening  bool   `json:"pre_opening"`
}

// CriteriaCount sums the criteria across all sections.
func (g Grid) CriteriaCount() int {
	n := 0
	for _, s := range g.Sections {
		n += len(s.Items)
	}
	return n
}

// SectionCount returns the number of sections.
func (g Grid) SectionCount() int {
	return len(g.Sections)
}

// Summary is the listing projection of a grid with derived counts.
type Summary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Code          string `json:"code"`
	Version       string `json:"version"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	Color         string `json:"color"`
	CriteriaCount int    `json:"criteria_count"`
	SectionCount  int    `json:"section_count"`
}

// Summarize derives the listing projection.
func (g Grid) Summarize() Summary {
	return Summary{
		ID:            g.ID,
		Name:          g.Name,
		Code:          g.Code,
		Version:       g.Version,
		Description:   g.Description,
		Icon:          g.Icon,
		Color:         g.Color,
		CriteriaCount: g.CriteriaCount(),
		SectionCount:  g.SectionCount(),
	}
}

// Catalog is the read-only grid provider the core depends on.
type Catalog interface {
	List() []Grid
	Find(id string) (Grid, bool)
}

// Registry is the built-in static catalog.
type Registry struct {
	grids []Grid
}

// NewRegistry returns the catalog of all built-in grids.
func NewRegistry() *Registry {
	return &Registry{grids: []Grid{buildOfficine(), buildGrossiste()}}
}

// List returns the catalog entries in registration order.
func (r *Registry) List() []Grid {
	out := make([]Grid, len(r.grids))
	copy(out, r.grids)
	return out
}

// Find looks a grid up by id.
func (r *Registry) Find(id string) (Grid, bool) {
	for _, g := range r.grids {
		if g.ID == id {
			return g, true
		}
	}
	return Grid{}, false
}

// builder numbers criteria sequentially across a whole grid.
type builder struct {
	counter int
}

func (b *builder) item(reference, description string) Criterion {
	b.counter++
	return Criterion{ID: b.counter, Reference: reference, Description: description}
}

func (b *builder) pre(reference, description string) Criterion {
	c := b.item(reference, description)
	c.PreOpening = true
	return c
}
