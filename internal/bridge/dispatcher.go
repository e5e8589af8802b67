package bridge

import (
	"context"
	"fmt"
	"sync"

	bmiv1 "github.com/csdms/bmi-bridge/api/bmi/v1"
	"github.com/csdms/bmi-bridge/internal/bmi"
	apperrors "github.com/csdms/bmi-bridge/internal/platform/errors"
)

// State is the process-wide lifecycle state of the hosted model.
type State int32

// Lifecycle states, in registration order.
const (
	StateUnregistered State = iota
	StateRegistered
	StateInitialized
	StateRunning
	StateFinalized
	StateFailed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateUnregistered:
		return "unregistered"
	case StateRegistered:
		return "registered"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateFinalized:
		return "finalized"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// op identifies a dispatchable operation for lifecycle gating.
type op string

const (
	opComponentName op = "get_component_name"
	opVarNames      op = "get_var_names"
	opInitialize    op = "initialize"
	opUpdate        op = "update"
	opUpdateUntil   op = "update_until"
	opFinalize      op = "finalize"
	opGetValue      op = "get_value"
	opSetValue      op = "set_value"
	opTimeQuery     op = "time_query"
	opVarInfo       op = "get_var_info"
	opGridInfo      op = "get_grid_info"
)

// allowedStates gates each operation on the lifecycle states it may run in.
// A call issued in any other state is rejected before reaching the model.
var allowedStates = map[op][]State{
	opComponentName: {StateRegistered, StateInitialized, StateRunning, StateFinalized},
	opVarNames:      {StateRegistered, StateInitialized, StateRunning, StateFinalized},
	opInitialize:    {StateRegistered},
	opUpdate:        {StateInitialized, StateRunning},
	opUpdateUntil:   {StateInitialized, StateRunning},
	opFinalize:      {StateInitialized, StateRunning},
	opGetValue:      {StateRegistered, StateInitialized, StateRunning, StateFinalized},
	opSetValue:      {StateInitialized, StateRunning},
	opTimeQuery:     {StateInitialized, StateRunning, StateFinalized},
	opVarInfo:       {StateRegistered, StateInitialized, StateRunning, StateFinalized},
	opGridInfo:      {StateRegistered, StateInitialized, StateRunning, StateFinalized},
}

// Dispatcher validates each decoded RPC call against the lifecycle state and
// forwards it to the registered model. Model calls are strictly serialized:
// the dispatcher holds an exclusive, non-reentrant lock for the duration of
// each call, so concurrent RPCs queue instead of racing the model. When a
// call's context expires the caller gets a deadline error but the model call
// keeps running to completion in the background; native model code is never
// interrupted mid-call.
type Dispatcher struct {
	registry *Registry

	stateMu    sync.Mutex
	state      State
	failReason string

	sem chan struct{} // exclusive model lock
}

// NewDispatcher creates a dispatcher over an empty registry slot.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		state:    StateUnregistered,
		sem:      make(chan struct{}, 1),
	}
}

// Register binds the model and moves the lifecycle to Registered.
func (d *Dispatcher) Register(model bmi.Model) error {
	d.stateMu.Lock()
	defer d.stateMu.Unlock()
	if d.state != StateUnregistered {
		return apperrors.New(apperrors.CodeAlreadyRegistered, "a model is already registered")
	}
	if _, err := d.registry.Register(model); err != nil {
		return err
	}
	d.state = StateRegistered
	return nil
}

// State returns the current lifecycle state.
func (d *Dispatcher) State() State {
	d.stateMu.Lock()
	defer d.stateMu.Unlock()
	return d.state
}

func (d *Dispatcher) setState(next State) {
	d.stateMu.Lock()
	defer d.stateMu.Unlock()
	if d.state == StateFailed {
		// Failed is terminal.
		return
	}
	d.state = next
}

// fail moves the lifecycle to the terminal Failed state.
func (d *Dispatcher) fail(reason string) {
	d.stateMu.Lock()
	defer d.stateMu.Unlock()
	if d.state == StateFailed {
		return
	}
	d.state = StateFailed
	d.failReason = reason
}

// gate checks the operation against the current lifecycle state.
func (d *Dispatcher) gate(operation op) error {
	d.stateMu.Lock()
	defer d.stateMu.Unlock()

	if d.state == StateFailed {
		return apperrors.WithMetadata(apperrors.CodeUnrecoverable,
			"server is in a failed state and must be restarted",
			map[string]string{"reason": d.failReason})
	}
	if d.state == StateUnregistered {
		return apperrors.New(apperrors.CodeInvalidState, "no model is registered")
	}
	if operation == opFinalize && d.state == StateFinalized {
		return apperrors.New(apperrors.CodeAlreadyFinalized, "model is already finalized")
	}
	for _, allowed := range allowedStates[operation] {
		if d.state == allowed {
			return nil
		}
	}
	return apperrors.WithMetadata(apperrors.CodeInvalidState,
		fmt.Sprintf("%s is not allowed in state %s", operation, d.state),
		map[string]string{"operation": string(operation), "state": d.state.String()})
}

// call runs fn against the model under the exclusive lock. The lock is
// released by the worker goroutine when fn returns, which may be after the
// caller has already given up on its context.
func (d *Dispatcher) call(ctx context.Context, operation op, fn func(bmi.Model) error) error {
	select {
	case d.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	// Gate after acquiring the lock: the state may have moved while queued.
	if err := d.gate(operation); err != nil {
		<-d.sem
		return err
	}

	done := make(chan error, 1)
	go func() {
		defer func() { <-d.sem }()
		defer func() {
			if r := recover(); r != nil {
				d.fail(fmt.Sprintf("panic during %s: %v", operation, r))
				done <- apperrors.New(apperrors.CodeUnrecoverable,
					fmt.Sprintf("internal fault during %s", operation))
			}
		}()
		done <- fn(d.registry.Handle().Model())
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// coerce tags a plain model error with a domain code; errors that already
// carry a code pass through unchanged.
func coerce(err error, code apperrors.Code, message string) error {
	if apperrors.GetCode(err) != apperrors.CodeUnknown {
		return err
	}
	return apperrors.Wrap(code, fmt.Sprintf("%s: %v", message, err), err)
}

// ComponentName returns the model's component identity, truncated to the
// maximum identifier length.
func (d *Dispatcher) ComponentName(ctx context.Context) (string, error) {
	var name string
	err := d.call(ctx, opComponentName, func(m bmi.Model) error {
		name = m.ComponentName()
		if len(name) > bmi.MaxComponentNameLen {
			name = name[:bmi.MaxComponentNameLen]
		}
		return nil
	})
	return name, err
}

// InputVarNames lists the model's declared input variables.
func (d *Dispatcher) InputVarNames(ctx context.Context) ([]string, error) {
	var names []string
	err := d.call(ctx, opVarNames, func(m bmi.Model) error {
		names = m.InputVarNames()
		return nil
	})
	return names, err
}

// OutputVarNames lists the model's declared output variables.
func (d *Dispatcher) OutputVarNames(ctx context.Context) ([]string, error) {
	var names []string
	err := d.call(ctx, opVarNames, func(m bmi.Model) error {
		names = m.OutputVarNames()
		return nil
	})
	return names, err
}

// Initialize configures the model. Failure keeps the lifecycle at Registered
// so a corrected configuration can be retried.
func (d *Dispatcher) Initialize(ctx context.Context, configPath string) error {
	return d.call(ctx, opInitialize, func(m bmi.Model) error {
		if err := m.Initialize(ctx, configPath); err != nil {
			return coerce(err, apperrors.CodeConfigInvalid, "initialize model")
		}
		d.setState(StateInitialized)
		return nil
	})
}

// Update advances the model one time step. The first successful update moves
// the lifecycle to Running. A model error flagged as state-corrupting moves
// it to Failed; any other update error leaves the state untouched so
// diagnostic queries keep working.
func (d *Dispatcher) Update(ctx context.Context) error {
	return d.call(ctx, opUpdate, func(m bmi.Model) error {
		if err := m.Update(ctx); err != nil {
			return d.updateFailure(err)
		}
		d.setState(StateRunning)
		return nil
	})
}

// UpdateUntil advances the model until simulated time reaches t.
func (d *Dispatcher) UpdateUntil(ctx context.Context, t float64) error {
	return d.call(ctx, opUpdateUntil, func(m bmi.Model) error {
		if t < m.CurrentTime() {
			return apperrors.New(apperrors.CodeTimeBackward,
				fmt.Sprintf("target time %g is before current time %g", t, m.CurrentTime()))
		}
		if err := m.UpdateUntil(ctx, t); err != nil {
			return d.updateFailure(err)
		}
		d.setState(StateRunning)
		return nil
	})
}

func (d *Dispatcher) updateFailure(err error) error {
	err = coerce(err, apperrors.CodeModelFault, "update model")
	if apperrors.GetCode(err) == apperrors.CodeModelCorrupt {
		d.fail(err.Error())
	}
	return err
}

// Finalize releases the model's internal state through the registry handle,
// which guarantees the native resources are released at most once.
func (d *Dispatcher) Finalize(ctx context.Context) error {
	return d.call(ctx, opFinalize, func(bmi.Model) error {
		if err := d.registry.Handle().Finalize(); err != nil {
			return coerce(err, apperrors.CodeModelFault, "finalize model")
		}
		d.setState(StateFinalized)
		return nil
	})
}

// GetValue reads the named variable and marshals it for the wire. A
// marshaling failure on a value the model itself produced indicates internal
// corruption and moves the lifecycle to Failed.
func (d *Dispatcher) GetValue(ctx context.Context, name string) (*bmiv1.WirePayload, error) {
	var wire *bmiv1.WirePayload
	err := d.call(ctx, opGetValue, func(m bmi.Model) error {
		payload, err := m.Value(name)
		if err != nil {
			return coerce(err, apperrors.CodeModelFault, "get value")
		}
		wire, err = ToWire(payload)
		if err != nil {
			reason := fmt.Sprintf("marshal %s: %v", name, err)
			d.fail(reason)
			return apperrors.New(apperrors.CodeUnrecoverable, reason)
		}
		return nil
	})
	return wire, err
}

// SetValue validates the payload against the declared descriptor and stores
// it. Validation failures never reach the model's storage.
func (d *Dispatcher) SetValue(ctx context.Context, name string, wire *bmiv1.WirePayload) error {
	return d.call(ctx, opSetValue, func(m bmi.Model) error {
		descriptor, err := m.VarDescriptor(name)
		if err != nil {
			return coerce(err, apperrors.CodeModelFault, "describe variable")
		}
		payload, err := FromWire(wire, descriptor)
		if err != nil {
			return err
		}
		if err := m.SetValue(name, payload); err != nil {
			return coerce(err, apperrors.CodeModelFault, "set value")
		}
		return nil
	})
}

// VarInfo describes a declared variable.
func (d *Dispatcher) VarInfo(ctx context.Context, name string) (bmi.VarDescriptor, error) {
	var descriptor bmi.VarDescriptor
	err := d.call(ctx, opVarInfo, func(m bmi.Model) error {
		var err error
		descriptor, err = m.VarDescriptor(name)
		if err != nil {
			return coerce(err, apperrors.CodeModelFault, "describe variable")
		}
		return nil
	})
	return descriptor, err
}

// GridInfo describes a grid.
func (d *Dispatcher) GridInfo(ctx context.Context, id int32) (bmi.GridDescriptor, error) {
	var grid bmi.GridDescriptor
	err := d.call(ctx, opGridInfo, func(m bmi.Model) error {
		var err error
		grid, err = m.Grid(id)
		if err != nil {
			return coerce(err, apperrors.CodeModelFault, "describe grid")
		}
		return nil
	})
	return grid, err
}

// CurrentTime returns the model's current simulated time.
func (d *Dispatcher) CurrentTime(ctx context.Context) (float64, error) {
	return d.timeQuery(ctx, func(m bmi.Model) float64 { return m.CurrentTime() })
}

// StartTime returns the model's simulation start time.
func (d *Dispatcher) StartTime(ctx context.Context) (float64, error) {
	return d.timeQuery(ctx, func(m bmi.Model) float64 { return m.StartTime() })
}

// EndTime returns the model's simulation end time.
func (d *Dispatcher) EndTime(ctx context.Context) (float64, error) {
	return d.timeQuery(ctx, func(m bmi.Model) float64 { return m.EndTime() })
}

// TimeStep returns the model's internal time step.
func (d *Dispatcher) TimeStep(ctx context.Context) (float64, error) {
	return d.timeQuery(ctx, func(m bmi.Model) float64 { return m.TimeStep() })
}

// TimeUnits returns the model's time unit string.
func (d *Dispatcher) TimeUnits(ctx context.Context) (string, error) {
	var units string
	err := d.call(ctx, opTimeQuery, func(m bmi.Model) error {
		units = m.TimeUnits()
		return nil
	})
	return units, err
}

func (d *Dispatcher) timeQuery(ctx context.Context, query func(bmi.Model) float64) (float64, error) {
	var value float64
	err := d.call(ctx, opTimeQuery, func(m bmi.Model) error {
		value = query(m)
		return nil
	})
	return value, err
}
