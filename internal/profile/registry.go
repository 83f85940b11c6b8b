package profile

import (
	"fmt"
	"sync"

	"github.com/xtding233/wishmachine/internal/manifest"
)

// Registry builds and caches one engine per profile name.
type Registry struct {
	loader *Loader

	mu      sync.RWMutex
	engines map[string]*manifest.Engine
	gen     uint64 // bumped by Reload
}

func NewRegistry(loader *Loader) *Registry {
	return &Registry{loader: loader, engines: make(map[string]*manifest.Engine)}
}

// Engine returns the engine for a profile, resolving it on first use.
func (r *Registry) Engine(name string) (*manifest.Engine, error) {
	r.mu.RLock()
	e, ok := r.engines[name]
	gen := r.gen
	r.mu.RUnlock()
	if ok {
		return e, nil
	}

	raw, err := r.loader.LoadMerged(name)
	if err != nil {
		return nil, err
	}
	cfg, err := Resolve(raw)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", name, err)
	}
	e, err = manifest.NewEngine(cfg)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", name, err)
	}

	return r.store(name, e, gen), nil
}

// store caches e unless a Reload happened since gen was read; a stale engine
// still serves the call that built it.
func (r *Registry) store(name string, e *manifest.Engine, gen uint64) *manifest.Engine {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		return e
	}
	if cached, ok := r.engines[name]; ok {
		return cached
	}
	r.engines[name] = e
	return e
}

// Reload drops every cached profile; the next Engine call re-reads the files.
// Runs in flight keep the engine they started with.
func (r *Registry) Reload() {
	r.loader.Invalidate()
	r.mu.Lock()
	r.engines = make(map[string]*manifest.Engine)
	r.gen++
	r.mu.Unlock()
}
