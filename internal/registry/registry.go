package registry

import (
	"errors"
	"sync"

	"github.com/dobhashi/dobhashi/internal/language"
)

var (
	ErrNotFound            = errors.New("connection not found")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// Unset is the language of a connection that has not selected one yet.
const Unset = ""

// Registry is the only shared mutable state between connection goroutines: a
// map from connection ID to selected language. All operations are in-memory
// map accesses under one lock; nothing slow ever runs while it is held.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]string
}

func New() *Registry {
	return &Registry{conns: make(map[string]string)}
}

// Register creates an entry for a new connection with no language selected.
// Re-registering an ID resets it to Unset.
func (r *Registry) Register(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[connID] = Unset
}

// Unregister removes the connection. Removing an absent ID is a no-op.
func (r *Registry) Unregister(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, connID)
}

// SetLanguage binds the connection to a supported language. Re-selection is
// allowed and overwrites. Unsupported codes are rejected without touching the
// entry.
func (r *Registry) SetLanguage(connID, lang string) error {
	if !language.IsSupported(lang) {
		return ErrUnsupportedLanguage
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[connID]; !ok {
		return ErrNotFound
	}
	r.conns[connID] = lang
	return nil
}

// Language returns the connection's selected language, or Unset if none has
// been selected yet.
func (r *Registry) Language(connID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lang, ok := r.conns[connID]
	if !ok {
		return Unset, ErrNotFound
	}
	return lang, nil
}

// FindByLanguage returns an arbitrary connection currently bound to lang.
// With exactly two supported languages "first found" is the whole pairing
// policy; more languages would need an explicit session concept instead.
func (r *Registry) FindByLanguage(lang string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, l := range r.conns {
		if l == lang {
			return id, true
		}
	}
	return "", false
}

// ActiveCount returns the number of live connections.
func (r *Registry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
