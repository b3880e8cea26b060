package turing

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds named alphabets so that machine definitions can refer to an
// alphabet by name instead of carrying a membership predicate.
//
// The package keeps a default registry preloaded with "ascii", "binary" and
// "unary"; RegisterAlphabet and LookupAlphabet operate on it.
type Registry struct {
	mu        sync.RWMutex
	alphabets map[string]*Alphabet
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{alphabets: make(map[string]*Alphabet)}
}

// Register adds an alphabet under its name. Names are unique.
func (r *Registry) Register(a *Alphabet) error {
	if a == nil || a.name == "" {
		return fmt.Errorf("turing: cannot register unnamed alphabet")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.alphabets[a.name]; ok {
		return fmt.Errorf("turing: alphabet %q already registered", a.name)
	}
	r.alphabets[a.name] = a
	return nil
}

// Lookup returns the alphabet registered under name.
func (r *Registry) Lookup(name string) (*Alphabet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.alphabets[name]
	return a, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.alphabets))
	for name := range r.alphabets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = func() *Registry {
	r := NewRegistry()
	for _, a := range []*Alphabet{
		ASCII,
		mustAlphabet(Symbols("binary", "01", 'ε')),
		mustAlphabet(Symbols("unary", "1", 'ε')),
	} {
		if err := r.Register(a); err != nil {
			panic(err)
		}
	}
	return r
}()

// RegisterAlphabet adds a to the default registry.
func RegisterAlphabet(a *Alphabet) error { return defaultRegistry.Register(a) }

// LookupAlphabet finds an alphabet in the default registry.
func LookupAlphabet(name string) (*Alphabet, bool) { return defaultRegistry.Lookup(name) }

// AlphabetNames lists the default registry.
func AlphabetNames() []string { return defaultRegistry.Names() }
