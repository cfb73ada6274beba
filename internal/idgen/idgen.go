// Package idgen provides a reference in-memory implementation of the id
// provider collaborator (§6.2): deterministic within a provider instance,
// so the driver and its tests are runnable without a host supplying one.
package idgen

import "sync"

// Provider assigns sequential integer ids to (group, name) pairs, the same
// name always mapping to the same id within one Provider instance.
type Provider struct {
	mu   sync.Mutex
	ids  map[string]map[string]int
	next map[string]int
}

// New constructs an empty provider.
func New() *Provider {
	return &Provider{
		ids:  make(map[string]map[string]int),
		next: make(map[string]int),
	}
}

// FindOrCreateConfig resolves name's id within group, assigning the next
// sequential id the first time this (group, name) pair is seen.
func (p *Provider) FindOrCreateConfig(group, name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	names, ok := p.ids[group]
	if !ok {
		names = make(map[string]int)
		p.ids[group] = names
	}

	if id, ok := names[name]; ok {
		return id
	}

	id := p.next[group]
	p.next[group]++
	names[name] = id

	return id
}

// FindConfig looks up an already-assigned id, failing if name has never been
// interned within group.
func (p *Provider) FindConfig(group, name string) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	names, ok := p.ids[group]
	if !ok {
		return 0, false
	}

	id, ok := names[name]

	return id, ok
}
