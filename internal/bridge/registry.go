package bridge

import (
	"log"
	"sync"

	"github.com/csdms/bmi-bridge/internal/bmi"
	apperrors "github.com/csdms/bmi-bridge/internal/platform/errors"
)

// Registry binds a concrete model implementation to the bridge. It holds at
// most one model per instance; a second registration is a process-level error.
type Registry struct {
	mu     sync.Mutex
	handle *Handle
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register stores the model and returns the handle the bridge operates on.
func (r *Registry) Register(model bmi.Model) (*Handle, error) {
	if model == nil {
		return nil, apperrors.New(apperrors.CodeNoModel, "model is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handle != nil {
		return nil, apperrors.New(apperrors.CodeAlreadyRegistered, "a model is already registered")
	}
	r.handle = &Handle{model: model}
	return r.handle, nil
}

// Handle returns the registered model handle, or nil before registration.
func (r *Registry) Handle() *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handle
}

// Handle is the opaque reference to the registered model. It guards the
// model's native resources so they are finalized at most once regardless of
// the shutdown path.
type Handle struct {
	model bmi.Model

	mu        sync.Mutex
	finalized bool
}

// Model returns the underlying model.
func (h *Handle) Model() bmi.Model {
	return h.model
}

// Finalize releases the model's internal state. A second call fails with an
// already-finalized error without reaching the model.
func (h *Handle) Finalize() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.finalized {
		return apperrors.New(apperrors.CodeAlreadyFinalized, "model is already finalized")
	}
	if err := h.model.Finalize(); err != nil {
		return err
	}
	h.finalized = true
	return nil
}

// Release finalizes the model if it has not been finalized yet. It is the
// shutdown-path counterpart of Finalize: errors are logged, not returned,
// because no caller is left to receive them.
func (h *Handle) Release() {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.finalized {
		return
	}
	h.finalized = true
	if err := h.model.Finalize(); err != nil {
		log.Printf("release model: %v", err)
	}
}
