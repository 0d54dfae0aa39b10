package category

import (
	"errors"
	"fmt"
	"strings"
)

// FallbackName is the catch-all category every corpus must define.
const FallbackName = "fallback"

var (
	ErrMissingFallback   = errors.New("corpus has no fallback category")
	ErrEmptyResponses    = errors.New("category has no responses")
	ErrDuplicateCategory = errors.New("duplicate category name")
	ErrUnnamedCategory   = errors.New("category name is required")
)

// Phrase is a short Furbish phrase with its English translation.
type Phrase struct {
	Furbish     string `json:"furbish"`
	Translation string `json:"translation"`
}

// Category is a named bucket of canned responses keyed by its keywords.
type Category struct {
	Name         string   `json:"name"`
	Keywords     []string `json:"keywords"`
	Responses    []string `json:"responses"`
	SoundEffects []string `json:"furbySounds"`
	Phrases      []Phrase `json:"furbishPhrases"`
}

// Table is the immutable, ordered set of categories loaded at startup. It is
// shared read-only by the matcher and the synthesizer.
type Table struct {
	schemaVersion string
	order         []string
	byName        map[string]Category
}

// NewTable validates the categories and freezes them in the given order.
func NewTable(schemaVersion string, categories []Category) (*Table, error) {
	t := &Table{
		schemaVersion: schemaVersion,
		order:         make([]string, 0, len(categories)),
		byName:        make(map[string]Category, len(categories)),
	}

	for _, c := range categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, ErrUnnamedCategory
		}
		if _, exists := t.byName[name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCategory, name)
		}
		if len(nonEmpty(c.Responses)) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyResponses, name)
		}

		t.order = append(t.order, name)
		t.byName[name] = clone(c, name)
	}

	if _, ok := t.byName[FallbackName]; !ok {
		return nil, ErrMissingFallback
	}
	return t, nil
}

// SchemaVersion reports the corpus schema version the table was built from.
func (t *Table) SchemaVersion() string {
	if t == nil {
		return ""
	}
	return t.schemaVersion
}

// Names lists category names in corpus order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.order...)
}

// Get looks up a category by name. The returned value is a copy.
func (t *Table) Get(name string) (Category, bool) {
	if t == nil {
		return Category{}, false
	}
	c, ok := t.byName[name]
	if !ok {
		return Category{}, false
	}
	return clone(c, c.Name), true
}

// Fallback returns the mandatory fallback category.
func (t *Table) Fallback() Category {
	c, _ := t.Get(FallbackName)
	return c
}

// All returns copies of every category in corpus order.
func (t *Table) All() []Category {
	if t == nil {
		return nil
	}
	out := make([]Category, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, clone(t.byName[name], name))
	}
	return out
}

// Len reports how many categories the table holds.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

func clone(c Category, name string) Category {
	return Category{
		Name:         name,
		Keywords:     lowerAll(c.Keywords),
		Responses:    nonEmpty(c.Responses),
		SoundEffects: append([]string(nil), c.SoundEffects...),
		Phrases:      append([]Phrase(nil), c.Phrases...),
	}
}

func lowerAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			out = append(out, item)
		}
	}
	return out
}
