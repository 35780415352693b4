package boringservice

import (
	"fmt"
	"log/slog"
)

// Handlers maps the string identifiers used in manifests to compiled Go
// functions. Manifests refer to a body and to hooks purely by name
// (`body = "ComputeSum"`, `before_run = ["Normalize"]`); binding a manifest
// resolves those names against a Handlers table and fails loudly on any
// reference that has no Go counterpart.
//
// Registration is a program-startup concern; registering a duplicate name
// is a programming mistake and panics.
type Handlers struct {
	bodies map[string]BodyFunc
	hooks  map[string]HookFunc
}

// NewHandlers creates an empty handler table.
func NewHandlers() *Handlers {
	return &Handlers{
		bodies: make(map[string]BodyFunc),
		hooks:  make(map[string]HookFunc),
	}
}

// RegisterBody registers a Go function usable as a service body.
func (h *Handlers) RegisterBody(name string, fn BodyFunc) {
	if name == "" || fn == nil {
		panic(&DeclarationError{Detail: "RegisterBody requires a name and a non-nil function"})
	}
	if _, exists := h.bodies[name]; exists {
		panic(&DeclarationError{Detail: fmt.Sprintf("body handler %q already registered", name)})
	}
	slog.Debug("Registering body handler.", "name", name)
	h.bodies[name] = fn
}

// RegisterHook registers a Go function usable as a named before-run hook.
func (h *Handlers) RegisterHook(name string, fn HookFunc) {
	if name == "" || fn == nil {
		panic(&DeclarationError{Detail: "RegisterHook requires a name and a non-nil function"})
	}
	if _, exists := h.hooks[name]; exists {
		panic(&DeclarationError{Detail: fmt.Sprintf("hook handler %q already registered", name)})
	}
	slog.Debug("Registering hook handler.", "name", name)
	h.hooks[name] = fn
}

// Body looks up a registered body handler.
func (h *Handlers) Body(name string) (BodyFunc, bool) {
	fn, ok := h.bodies[name]
	return fn, ok
}

// Hook looks up a registered hook handler.
func (h *Handlers) Hook(name string) (HookFunc, bool) {
	fn, ok := h.hooks[name]
	return fn, ok
}
