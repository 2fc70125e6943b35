// Package funcs provides the CBS function-metadata registry consulted by
// hover, completion, and signature help.
package funcs

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed functions.yaml
var databaseYAML []byte

// ErrDuplicate is returned when a name or alias is already registered.
var ErrDuplicate = errors.New("duplicate function name")

// Kind classifies a function by the marker in its registered name.
type Kind int

const (
	KindPlain Kind = iota
	KindBlock
	KindSpecial
	KindMath
	KindComment
)

// Function describes one CBS function. Functions returned by a Registry
// are shared and must not be modified.
type Function struct {
	Name        string   `yaml:"name" json:"name"`
	Category    string   `yaml:"category" json:"category"`
	Description string   `yaml:"description" json:"description"`
	Arguments   []string `yaml:"arguments" json:"arguments"`
	Example     string   `yaml:"example" json:"example"`
	Aliases     []string `yaml:"aliases" json:"aliases"`
}

// Kind returns the function's kind.
func (f *Function) Kind() Kind {
	switch {
	case strings.HasPrefix(f.Name, "//"):
		return KindComment
	case strings.HasPrefix(f.Name, "#"):
		return KindBlock
	case strings.HasPrefix(f.Name, ":"):
		return KindSpecial
	case f.Name == "?":
		return KindMath
	default:
		return KindPlain
	}
}

// BaseName returns the name without a block or special marker.
func (f *Function) BaseName() string {
	switch f.Kind() {
	case KindBlock, KindSpecial:
		return f.Name[1:]
	case KindPlain, KindMath, KindComment:
	}
	return f.Name
}

// Signature renders the function as "name(arg1, arg2)".
func (f *Function) Signature() string {
	return f.Name + "(" + strings.Join(f.Arguments, ", ") + ")"
}

// Variadic reports whether the last argument accepts repetition.
func (f *Function) Variadic() bool {
	if len(f.Arguments) == 0 {
		return false
	}
	return strings.HasSuffix(f.Arguments[len(f.Arguments)-1], "...")
}

// Registry holds functions keyed case-insensitively by name and alias.
type Registry struct {
	mu    sync.RWMutex
	byKey map[string]*Function
	list  []*Function
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]*Function)}
}

// Register adds fn. It fails if the name or any alias is already taken.
func (r *Registry) Register(fn Function) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, 1+len(fn.Aliases))
	keys = append(keys, strings.ToLower(fn.Name))
	for _, alias := range fn.Aliases {
		keys = append(keys, strings.ToLower(alias))
	}

	for _, key := range keys {
		if key == "" {
			return fmt.Errorf("function %q: empty name or alias", fn.Name)
		}
		if existing, ok := r.byKey[key]; ok {
			return fmt.Errorf("%w: %q already used by %q", ErrDuplicate, key, existing.Name)
		}
	}

	stored := fn
	for _, key := range keys {
		r.byKey[key] = &stored
	}
	r.list = append(r.list, &stored)

	return nil
}

// Lookup finds a function by name or alias, ignoring case. A bare name
// also matches a special keyword or block of that name, so "else" finds
// ":else" and "when" finds "#when".
func (r *Registry) Lookup(name string) (*Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, false
	}

	for _, candidate := range []string{key, ":" + key, "#" + key} {
		if fn, ok := r.byKey[candidate]; ok {
			return fn, true
		}
	}
	return nil, false
}

// List returns every function once, in registration order.
func (r *Registry) List() []*Function {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Function, len(r.list))
	copy(out, r.list)
	return out
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.list)
}

// Categories returns the category names in first-seen order.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var cats []string
	for _, fn := range r.list {
		if !seen[fn.Category] {
			seen[fn.Category] = true
			cats = append(cats, fn.Category)
		}
	}
	return cats
}

type database struct {
	Functions []Function `yaml:"functions"`
}

// Load builds a registry from a YAML document with a top-level
// "functions" list.
func Load(data []byte) (*Registry, error) {
	var db database

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&db); err != nil {
		return nil, fmt.Errorf("decode function database: %w", err)
	}

	reg := NewRegistry()
	for _, fn := range db.Functions {
		if err := reg.Register(fn); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	reg, err := Load(databaseYAML)
	if err != nil {
		panic(fmt.Sprintf("funcs: embedded database: %v", err))
	}
	return reg
})

// Default returns the registry built from the embedded function database.
func Default() *Registry {
	return defaultRegistry()
}
