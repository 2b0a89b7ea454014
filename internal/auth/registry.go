package auth

import (
	"sync"

	"github.com/DishDash-Admin/DishDash-Admin/internal/credential"
	"github.com/DishDash-Admin/DishDash-Admin/internal/upstream"
)

// Registry owns the auth contexts of all console sessions on this node.
type Registry struct {
	store     *credential.Store
	client    *upstream.Client
	endpoints Endpoints

	mu        sync.RWMutex
	contexts  map[string]*Context
	observers []Observer
}

// NewRegistry creates a registry.
func NewRegistry(store *credential.Store, client *upstream.Client, endpoints Endpoints) *Registry {
	return &Registry{
		store:     store,
		client:    client,
		endpoints: endpoints,
		contexts:  make(map[string]*Context),
	}
}

// Store returns the credential store.
func (r *Registry) Store() *credential.Store {
	return r.store
}

// Endpoints returns the backend paths.
func (r *Registry) Endpoints() Endpoints {
	return r.endpoints
}

// AddObserver registers an observer for logins and logouts.
func (r *Registry) AddObserver(o Observer) {
	r.mu.Lock()
	r.observers = append(r.observers, o)
	r.mu.Unlock()
}

// Get returns the context of sid, creating and hydrating it on first sight.
func (r *Registry) Get(sid string) *Context {
	c := r.Attach(sid)
	c.Hydrate()

	return c
}

// Attach returns the context of sid, creating it on first sight without
// hydrating it. The caller decides when to call Hydrate.
func (r *Registry) Attach(sid string) *Context {
	r.mu.RLock()
	c, ok := r.contexts[sid]
	r.mu.RUnlock()

	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok = r.contexts[sid]; !ok {
		c = newContext(sid, r.store, r.client, r.endpoints, r.notify)
		r.contexts[sid] = c
	}

	return c
}

// Lookup returns the context of sid if this node has seen it.
func (r *Registry) Lookup(sid string) (*Context, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.contexts[sid]

	return c, ok
}

// Drop forgets the context of sid. The stored session is left alone; the next
// Get hydrates a fresh context from the store.
func (r *Registry) Drop(sid string) {
	r.mu.Lock()
	delete(r.contexts, sid)
	r.mu.Unlock()
}

// Each calls fn for every known context until fn returns false. fn runs
// without the registry lock held and may call Drop or Logout.
func (r *Registry) Each(fn func(c *Context) bool) {
	r.mu.RLock()
	snapshot := make([]*Context, 0, len(r.contexts))

	for _, c := range r.contexts {
		snapshot = append(snapshot, c)
	}
	r.mu.RUnlock()

	for _, c := range snapshot {
		if !fn(c) {
			return
		}
	}
}

// Prune forgets the contexts that finished hydrating without a user, such as
// those attached for unknown or stale cookies. It returns how many were dropped.
func (r *Registry) Prune() int {
	dropped := 0

	r.Each(func(c *Context) bool {
		if !c.Loading() && c.User() == nil {
			r.Drop(c.SessionID())

			dropped++
		}

		return true
	})

	return dropped
}

// Len returns the number of known contexts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.contexts)
}

func (r *Registry) notify(loggedIn bool, ev Event) {
	r.mu.RLock()
	observers := make([]Observer, len(r.observers))
	copy(observers, r.observers)
	r.mu.RUnlock()

	for _, o := range observers {
		if loggedIn {
			o.LoggedIn(ev)
		} else {
			o.LoggedOut(ev)
		}
	}
}
