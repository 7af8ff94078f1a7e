package recount

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Registry holds validated recount tool definitions keyed by tool key.
// It only grows: definitions are immutable once registered, and a later
// registration of the same key replaces the earlier one.
type Registry struct {
	mu       sync.RWMutex
	tools    map[string]Definition
	defaults Defaults
	log      *zap.Logger
}

// Defaults bounds the page sizes applied at registration time. The zero
// value means the stock batch size of 20 with no upper cap.
type Defaults struct {
	BatchSize    int64
	MaxBatchSize int64
}

// NewRegistry creates an empty tool registry with stock defaults
func NewRegistry(log *zap.Logger) *Registry {
	return NewRegistryWithDefaults(log, Defaults{})
}

// NewRegistryWithDefaults creates an empty tool registry with configured
// page-size bounds
func NewRegistryWithDefaults(log *zap.Logger, defaults Defaults) *Registry {
	if log == nil {
		log = zap.L()
	}
	if defaults.BatchSize <= 0 {
		defaults.BatchSize = DefaultBatchSize
	}
	return &Registry{
		tools:    make(map[string]Definition),
		defaults: defaults,
		log:      log,
	}
}

// Register validates a batch of tool definitions and merges them into the
// registry. Validation is all-or-nothing: any invalid entry aborts the call
// and nothing from the batch is registered.
func (r *Registry) Register(defs map[string]Definition) error {
	if len(defs) == 0 {
		return &ValidationError{Reason: "no tools provided"}
	}

	validated := make(map[string]Definition, len(defs))
	for key, def := range defs {
		if key == "" {
			return &ValidationError{Reason: "tool key must not be empty"}
		}
		def.Key = key
		if err := def.Validate(); err != nil {
			return err
		}
		def.applyDefaults(r.defaults.BatchSize, r.defaults.MaxBatchSize)
		validated[key] = def
	}

	r.mu.Lock()
	for key, def := range validated {
		r.tools[key] = def
	}
	r.mu.Unlock()

	r.log.Info("registered recount tools", zap.Int("count", len(validated)))
	return nil
}

// Lookup retrieves a definition by key
func (r *Registry) Lookup(key string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.tools[key]
	return def, ok
}

// Keys returns all registered tool keys, sorted
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.tools))
	for key := range r.tools {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Definitions returns all registered definitions ordered by key
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.tools))
	for key := range r.tools {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	defs := make([]Definition, 0, len(keys))
	for _, key := range keys {
		defs = append(defs, r.tools[key])
	}
	return defs
}

// Len returns the number of registered tools
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
