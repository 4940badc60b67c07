package cart

import (
	"sync"

	pkgerrors "github.com/angelmondragon/counterpos/pkg/errors"
	"github.com/google/uuid"
)

// Registry keeps open carts in memory, one per UI session.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	cart *Cart
}

func NewRegistry() *Registry {
	return &Registry{carts: make(map[string]*entry)}
}

// Create opens a new empty cart and returns its id.
func (r *Registry) Create() string {
	id := uuid.NewString()
	r.mu.Lock()
	r.carts[id] = &entry{cart: New(id)}
	r.mu.Unlock()
	return id
}

// Do runs fn with exclusive access to the cart.
func (r *Registry) Do(id string, fn func(c *Cart) error) error {
	r.mu.Lock()
	e, ok := r.carts[id]
	r.mu.Unlock()
	if !ok {
		return notFound(id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.cart)
}

// Delete discards the cart and everything on it.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.carts[id]; !ok {
		return notFound(id)
	}
	delete(r.carts, id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}

func notFound(id string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found").
		WithDetails(map[string]any{"cart_id": id})
}
