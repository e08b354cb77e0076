// Package tools defines the agent's tool registry: named, schema-carrying
// operations the model may request, each flagged for operator confirmation
// or auto-execution.
package tools

import (
	"context"
	"fmt"
	"sync"
)

// Param describes one parameter in a tool schema.
type Param struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

// Definition is the serializable description of a tool.
type Definition struct {
	Name        string
	Description string
	Params      []Param
	// RequiresConfirmation gates the tool behind the operator. Tools with
	// read-only side effects leave this false and auto-execute.
	RequiresConfirmation bool
}

// RequiredParams returns the names of the required parameters.
func (d Definition) RequiredParams() []string {
	var req []string
	for _, p := range d.Params {
		if p.Required {
			req = append(req, p.Name)
		}
	}
	return req
}

// Executor runs a tool against its validated arguments.
type Executor func(ctx context.Context, args map[string]any) (string, error)

// Registered pairs a tool definition with its executor.
type Registered struct {
	Definition Definition
	Execute    Executor
}

// Registry manages tool registration and lookup.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Registered
	order []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Registered)}
}

// Register adds or replaces a tool. Registration order is preserved for
// listings.
func (r *Registry) Register(tool Registered) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Definition.Name]; !exists {
		r.order = append(r.order, tool.Definition.Name)
	}
	r.tools[tool.Definition.Name] = &tool
}

// Get returns a registered tool by name, or nil if not found.
func (r *Registry) Get(name string) *Registered {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// Names returns all tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Definitions returns all tool definitions in registration order.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition)
	}
	return defs
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Lookup reports the required parameters of a tool, satisfying the response
// parser's schema interface.
func (r *Registry) Lookup(name string) ([]string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	if !ok {
		return nil, false
	}
	return tool.Definition.RequiredParams(), true
}

// ValidateArgs checks args against a definition: every required parameter
// must be present.
func ValidateArgs(def Definition, args map[string]any) error {
	for _, p := range def.Params {
		if !p.Required {
			continue
		}
		if _, ok := args[p.Name]; !ok {
			return fmt.Errorf("tool %s: missing required parameter %q", def.Name, p.Name)
		}
	}
	return nil
}
