package transform

import (
	"fmt"
	"sync"

	yaml "gopkg.in/yaml.v3"
)

// Options is the free-form option set attached to a named processor request.
type Options map[string]any

// Decode unmarshals the options into a typed options struct. Factories use it
// to get from the generic map carried in messages and manifests to their own
// option types.
func (o Options) Decode(out any) error {
	data, err := yaml.Marshal(map[string]any(o))
	if err != nil {
		return fmt.Errorf("unable to encode processor options: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unable to decode processor options: %w", err)
	}
	return nil
}

// Factory builds a processor instance from its options.
type Factory func(opts Options) (Processor, error)

// Registry maps processor names to factories. Hosts register their plugin
// factories here once at startup; descriptor resolution looks names up at
// entry-construction time.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty processor registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a named factory. Registering the same name twice is an error:
// silently replacing a plugin would make entry behavior depend on
// registration order.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" {
		return fmt.Errorf("processor factory requires a name")
	}
	if f == nil {
		return fmt.Errorf("processor factory '%s' is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("processor factory '%s' is already registered", name)
	}
	r.factories[name] = f
	return nil
}

// Resolve builds a processor from a registered factory.
func (r *Registry) Resolve(name string, opts Options) (Processor, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown processor '%s': %w", name, ErrBadDescriptor)
	}
	p, err := f(opts)
	if err != nil {
		return nil, fmt.Errorf("unable to construct processor '%s': %w", name, err)
	}
	return p, nil
}

// Names returns the registered factory names in no particular order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}

// defaultRegistry holds the built-in processors and anything hosts register
// through the package-level Register.
var defaultRegistry = NewRegistry()

// Default returns the shared registry used when no explicit registry is
// supplied.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a named factory to the default registry.
func Register(name string, f Factory) error {
	return defaultRegistry.Register(name, f)
}
