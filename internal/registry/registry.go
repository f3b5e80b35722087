// Package registry catalogues every datatype and component by name so
// that tools can look up declared Arrow layouts and render decoded values
// without knowing the Go types.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/banshee-data/vrtypes/internal/types"
)

// Kind classifies a descriptor.
type Kind string

const (
	KindDatatype           Kind = "datatype"
	KindComponent          Kind = "component"
	KindBlueprintComponent Kind = "blueprint"
)

// ParseKind accepts "datatype", "component" or "blueprint".
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindDatatype, KindComponent, KindBlueprintComponent:
		return k, nil
	}
	return "", fmt.Errorf("unknown kind %q (want datatype, component or blueprint)", s)
}

var (
	ErrDuplicate = errors.New("duplicate registry entry")
	ErrNotFound  = errors.New("no registry entry")
)

// Descriptor is the catalogue entry for one loggable.
type Descriptor struct {
	Name          string
	Kind          Kind
	ArrowDatatype arrow.DataType
	Doc           string

	summarize func(arrow.Array) ([]string, error)
	empty     func(memory.Allocator) (arrow.Array, error)
}

// Describe builds a descriptor for l.
func Describe[T any](kind Kind, l types.Loggable[T], doc string) Descriptor {
	return Descriptor{
		Name:          l.Name(),
		Kind:          kind,
		ArrowDatatype: l.ArrowDatatype(),
		Doc:           doc,
		summarize: func(arr arrow.Array) ([]string, error) {
			vals, err := l.FromArrowOpt(arr)
			if err != nil {
				return nil, err
			}
			out := make([]string, len(vals))
			for i, v := range vals {
				if v == nil {
					out[i] = "null"
					continue
				}
				out[i] = fmt.Sprintf("%v", *v)
			}
			return out, nil
		},
		empty: func(mem memory.Allocator) (arrow.Array, error) {
			return types.ToArrow(mem, l, nil)
		},
	}
}

// DecodeSummary decodes arr with the descriptor's codec and renders one
// string per row.
func (d Descriptor) DecodeSummary(arr arrow.Array) ([]string, error) {
	if d.summarize == nil {
		return nil, fmt.Errorf("%s: no codec attached", d.Name)
	}
	return d.summarize(arr)
}

// EmptyArray serializes zero values.
func (d Descriptor) EmptyArray(mem memory.Allocator) (arrow.Array, error) {
	if d.empty == nil {
		return nil, fmt.Errorf("%s: no codec attached", d.Name)
	}
	return d.empty(mem)
}

// Registry is a name-indexed set of descriptors. It is safe for concurrent
// lookups once populated.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Descriptor
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Descriptor)}
}

// Register adds d, rejecting empty and duplicate names.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("register: empty name")
	}
	if d.ArrowDatatype == nil {
		return fmt.Errorf("register %s: nil arrow datatype", d.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[d.Name]; ok {
		return fmt.Errorf("register %s: %w", d.Name, ErrDuplicate)
	}
	r.entries[d.Name] = d
	return nil
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.entries[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w for %q", ErrNotFound, name)
	}
	return d, nil
}

// List returns descriptors sorted by name. An empty kind lists all.
func (r *Registry) List(kind Kind) []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.entries))
	for _, d := range r.entries {
		if kind == "" || d.Kind == kind {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
