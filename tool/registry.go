package tool

import (
	"errors"
	"fmt"
)

// ErrDuplicateName is returned when registering a tool whose name is
// already taken. The registry retains the first registration.
var ErrDuplicateName = errors.New("duplicate tool name")

// Registry holds the tools a server exposes. It is populated before
// serving begins and read-only thereafter, so lookups and listings need no
// synchronization.
type Registry struct {
	tools map[string]*Tool
	order []string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]*Tool),
	}
}

// Register adds a tool. The name must be non-empty and unique, and the
// handler must be set. Registration order is preserved by List.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" {
		return fmt.Errorf("tool name required")
	}
	if t.Handler == nil {
		return fmt.Errorf("tool %q: handler required", t.Name)
	}
	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("tool %q: %w", t.Name, ErrDuplicateName)
	}

	r.tools[t.Name] = &t
	r.order = append(r.order, t.Name)
	return nil
}

// Lookup returns the tool registered under name
func (r *Registry) Lookup(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List returns the registered tools in registration order, with handlers
// stripped so the result is safe to serialize.
func (r *Registry) List() []Tool {
	tools := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		t := *r.tools[name]
		t.Handler = nil
		tools = append(tools, t)
	}
	return tools
}

// Len returns the number of registered tools
func (r *Registry) Len() int {
	return len(r.order)
}
