package tools

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Registry is an ordered, name-keyed collection of tools.
// Lookup is case-insensitive, registration order is preserved.
type Registry struct {
	byName map[string]ITool
	list   []ITool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]ITool),
	}
}

// Register adds tools to the registry.
// Registering a name twice is an error.
func (r *Registry) Register(list ...ITool) error {
	for _, tool := range list {
		key := strings.ToLower(tool.Name())
		if _, ok := r.byName[key]; ok {
			return errors.Errorf("tool already registered: %s", tool.Name())
		}
		r.byName[key] = tool
		r.list = append(r.list, tool)
	}
	return nil
}

// Get returns the tool with the given name, case-insensitive.
func (r *Registry) Get(name string) (ITool, bool) {
	tool, ok := r.byName[strings.ToLower(name)]
	return tool, ok
}

// List returns the tools in registration order.
func (r *Registry) List() []ITool {
	return r.list
}

// Names returns the tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.list))
	for _, tool := range r.list {
		names = append(names, tool.Name())
	}
	return names
}
