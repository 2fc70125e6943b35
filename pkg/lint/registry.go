package lint

import (
	"cmp"
	"slices"
	"strings"
	"sync"
)

// Registry holds the available rules, addressable by ID or name.
type Registry struct {
	mu     sync.RWMutex
	byID   map[string]Rule
	byName map[string]Rule
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[string]Rule),
		byName: make(map[string]Rule),
	}
}

// Register adds a rule. A rule with the same ID is replaced.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[rule.ID()] = rule
	r.byName[rule.Name()] = rule
}

// Resolve returns the canonical ID and rule for a rule ID or name.
// IDs match case-insensitively.
func (r *Registry) Resolve(key string) (string, Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rule, ok := r.byID[strings.ToUpper(key)]; ok {
		return rule.ID(), rule, true
	}
	if rule, ok := r.byName[strings.ToLower(key)]; ok {
		return rule.ID(), rule, true
	}
	return "", nil, false
}

// Rules returns all registered rules sorted by ID.
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Rule, 0, len(r.byID))
	for _, rule := range r.byID {
		result = append(result, rule)
	}
	slices.SortFunc(result, func(a, b Rule) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	return result
}

// NewDefaultRegistry returns a registry holding the built-in rules.
func NewDefaultRegistry() *Registry {
	reg := NewRegistry()
	for _, rule := range BuiltinRules() {
		reg.Register(rule)
	}
	return reg
}

// DefaultRegistry holds the built-in rules.
//
//nolint:gochecknoglobals // Shared read-only rule set.
var DefaultRegistry = NewDefaultRegistry()
