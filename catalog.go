package boringservice

import (
	"context"
	"fmt"
	"sync"

	"github.com/zclconf/go-cty/cty"
)

// Catalog is a name-keyed collection of service definitions. It exists so a
// program (or a bound manifest document) can hold a set of services and
// dispatch calls by name.
//
// Registration happens at startup; lookups and calls may then run from any
// goroutine, so access is guarded by a read-write mutex.
type Catalog struct {
	mu       sync.RWMutex
	services map[string]*Service
	order    []string
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{services: make(map[string]*Service)}
}

// Register adds a service definition. Registering two services with the
// same name is a programming mistake and panics with a *DeclarationError.
func (c *Catalog) Register(svc *Service) {
	if svc == nil {
		panic(&DeclarationError{Detail: "Register requires a non-nil service"})
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.services[svc.name]; exists {
		panic(&DeclarationError{Service: svc.name, Detail: "service already registered"})
	}
	c.services[svc.name] = svc
	c.order = append(c.order, svc.name)
}

// Lookup finds a service by name.
func (c *Catalog) Lookup(name string) (*Service, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	svc, ok := c.services[name]
	return svc, ok
}

// Services returns every registered service in registration order.
func (c *Catalog) Services() []*Service {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Service, len(c.order))
	for i, name := range c.order {
		out[i] = c.services[name]
	}
	return out
}

// Len returns the number of registered services.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Call dispatches an invocation to the named service.
func (c *Catalog) Call(ctx context.Context, name string, args map[string]cty.Value) (cty.Value, error) {
	svc, ok := c.Lookup(name)
	if !ok {
		return cty.NilVal, fmt.Errorf("no service named %q is registered", name)
	}
	return svc.Call(ctx, args)
}
