package batch

import (
	"os"
	"sync"

	"github.com/arraypress/edd-register-recount-tools/internal/logger"
)

// Constructor builds a class-based job for one step.
type Constructor func(req Request) Job

// Factory resolves class-based tool definitions to job constructors. It is
// the analogue of the host's dynamic class-loading hook: a class name only
// resolves when a constructor was registered for it and the declared file
// still exists on disk.
type Factory struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// NewFactory creates an empty class factory
func NewFactory() *Factory {
	return &Factory{ctors: make(map[string]Constructor)}
}

// RegisterClass associates a class name with a job constructor
func (f *Factory) RegisterClass(class string, ctor Constructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctors[class] = ctor
}

// Resolve looks up the constructor for a class and verifies its declared
// file. A missing constructor or file is logged, never fatal; the caller
// degrades to an inert job and any real failure surfaces at the host level.
func (f *Factory) Resolve(class, file string) (Constructor, bool) {
	f.mu.RLock()
	ctor, ok := f.ctors[class]
	f.mu.RUnlock()

	if !ok {
		logger.Warn("no constructor registered for recount class", "class", class)
		return nil, false
	}

	if _, err := os.Stat(file); err != nil {
		logger.Warn("recount tool file missing, skipping load", "class", class, "file", file, "error", err)
		return nil, false
	}

	return ctor, true
}
