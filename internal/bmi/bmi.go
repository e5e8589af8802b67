// Package bmi defines the capability contract every hosted simulation model
// implements. The bridge depends only on this contract; it never links against
// a specific model's native code.
package bmi

import "context"

// MaxComponentNameLen bounds the component name reported by a model.
const MaxComponentNameLen = 2048

// Model is the full capability set a simulation model exposes to the bridge.
//
// ComponentName is callable at any time. Initialize must be called exactly
// once before Update or UpdateUntil. Finalize releases internal state; a
// second call returns an already-finalized error. Models are not assumed to
// be internally synchronized: the bridge serializes every call.
type Model interface {
	// ComponentName returns the descriptive, immutable component identifier.
	ComponentName() string

	// Initialize parses the configuration resource at configPath and
	// allocates internal model state.
	Initialize(ctx context.Context, configPath string) error

	// Update advances simulated time by one internal step.
	Update(ctx context.Context) error

	// UpdateUntil advances repeatedly until simulated time reaches t.
	// A target earlier than the current time is an error.
	UpdateUntil(ctx context.Context, t float64) error

	// Finalize releases internal model state.
	Finalize() error

	// InputVarNames lists the variables the model accepts via SetValue.
	InputVarNames() []string

	// OutputVarNames lists the variables the model exposes via Value.
	OutputVarNames() []string

	// VarDescriptor describes a declared variable by name.
	VarDescriptor(name string) (VarDescriptor, error)

	// Grid describes the grid a variable is attached to.
	Grid(id int32) (GridDescriptor, error)

	// Value returns a copy of the named variable's current values.
	Value(name string) (Payload, error)

	// SetValue replaces the named variable's values. The payload element
	// type and count must match the declared descriptor.
	SetValue(name string, payload Payload) error

	// Time queries. Valid any time after a successful Initialize.
	CurrentTime() float64
	StartTime() float64
	EndTime() float64
	TimeStep() float64
	TimeUnits() string
}

// VarDescriptor describes a declared model variable. Queried, never mutated.
type VarDescriptor struct {
	Name      string
	Type      ElemType
	ItemCount int64
	Grid      int32
	Units     string
}

// GridDescriptor describes the geometry a variable is defined on.
type GridDescriptor struct {
	ID      int32
	Type    string
	Rank    int32
	Shape   []int64
	Spacing []float64
}

// Size returns the number of grid nodes.
func (g GridDescriptor) Size() int64 {
	size := int64(1)
	for _, dim := range g.Shape {
		size *= dim
	}
	return size
}
