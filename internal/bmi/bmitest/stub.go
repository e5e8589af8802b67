// Package bmitest provides a configurable stub model shared by bridge tests.
package bmitest

import (
	"context"
	"sync"
	"time"

	"github.com/csdms/bmi-bridge/internal/bmi"
	apperrors "github.com/csdms/bmi-bridge/internal/platform/errors"
)

// Stub is an in-memory model with scriptable failures and call accounting.
// The zero value is not usable; create stubs with New.
type Stub struct {
	Name string

	// InitErr, UpdateErr and FinalizeErr, when set, are returned by the
	// corresponding lifecycle call.
	InitErr     error
	UpdateErr   error
	FinalizeErr error

	// UpdateDelay makes each Update hold the model for the given duration,
	// for serialization and timeout tests.
	UpdateDelay time.Duration

	mu            sync.Mutex
	initCalls     int
	finalizeCalls int
	current       float64
	start         float64
	end           float64
	step          float64
	units         string
	vars          map[string]*stubVar
	varOrder      []string
	grids         map[int32]bmi.GridDescriptor
	updateSpans   []Span
}

type stubVar struct {
	descriptor bmi.VarDescriptor
	payload    bmi.Payload
	input      bool
	output     bool
}

// Span records the wall-clock window of one Update call.
type Span struct {
	Start time.Time
	End   time.Time
}

// New creates a stub with a one-day time step and an empty variable table.
func New(name string) *Stub {
	return &Stub{
		Name:  name,
		end:   100,
		step:  1,
		units: "d",
		vars:  make(map[string]*stubVar),
		grids: make(map[int32]bmi.GridDescriptor),
	}
}

// DeclareVar adds a variable with its initial payload. Input and output
// flags control which name lists the variable appears in.
func (s *Stub) DeclareVar(descriptor bmi.VarDescriptor, payload bmi.Payload, input, output bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vars[descriptor.Name] = &stubVar{
		descriptor: descriptor,
		payload:    payload.Clone(),
		input:      input,
		output:     output,
	}
	s.varOrder = append(s.varOrder, descriptor.Name)
}

// DeclareGrid adds a grid descriptor.
func (s *Stub) DeclareGrid(grid bmi.GridDescriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grids[grid.ID] = grid
}

// InitCalls reports how many times Initialize ran.
func (s *Stub) InitCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initCalls
}

// FinalizeCalls reports how many times Finalize ran.
func (s *Stub) FinalizeCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalizeCalls
}

// UpdateSpans returns the recorded wall-clock windows of Update calls.
func (s *Stub) UpdateSpans() []Span {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Span(nil), s.updateSpans...)
}

// ComponentName implements bmi.Model.
func (s *Stub) ComponentName() string { return s.Name }

// Initialize implements bmi.Model.
func (s *Stub) Initialize(_ context.Context, _ string) error {
	if s.InitErr != nil {
		return s.InitErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initCalls++
	s.current = s.start
	return nil
}

// Update implements bmi.Model.
func (s *Stub) Update(_ context.Context) error {
	start := time.Now()
	if s.UpdateDelay > 0 {
		time.Sleep(s.UpdateDelay)
	}
	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current += s.step
	s.updateSpans = append(s.updateSpans, Span{Start: start, End: time.Now()})
	return nil
}

// UpdateUntil implements bmi.Model.
func (s *Stub) UpdateUntil(ctx context.Context, t float64) error {
	for s.CurrentTime() < t {
		if err := s.Update(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Finalize implements bmi.Model.
func (s *Stub) Finalize() error {
	if s.FinalizeErr != nil {
		return s.FinalizeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalizeCalls++
	return nil
}

// InputVarNames implements bmi.Model.
func (s *Stub) InputVarNames() []string { return s.varNames(func(v *stubVar) bool { return v.input }) }

// OutputVarNames implements bmi.Model.
func (s *Stub) OutputVarNames() []string { return s.varNames(func(v *stubVar) bool { return v.output }) }

func (s *Stub) varNames(include func(*stubVar) bool) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := []string{}
	for _, name := range s.varOrder {
		if include(s.vars[name]) {
			names = append(names, name)
		}
	}
	return names
}

// VarDescriptor implements bmi.Model.
func (s *Stub) VarDescriptor(name string) (bmi.VarDescriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	variable, ok := s.vars[name]
	if !ok {
		return bmi.VarDescriptor{}, apperrors.New(apperrors.CodeUnknownVariable, "unknown variable "+name)
	}
	return variable.descriptor, nil
}

// Grid implements bmi.Model.
func (s *Stub) Grid(id int32) (bmi.GridDescriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	grid, ok := s.grids[id]
	if !ok {
		return bmi.GridDescriptor{}, apperrors.New(apperrors.CodeUnknownGrid, "unknown grid")
	}
	return grid, nil
}

// Value implements bmi.Model.
func (s *Stub) Value(name string) (bmi.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	variable, ok := s.vars[name]
	if !ok {
		return bmi.Payload{}, apperrors.New(apperrors.CodeUnknownVariable, "unknown variable "+name)
	}
	return variable.payload.Clone(), nil
}

// SetValue implements bmi.Model.
func (s *Stub) SetValue(name string, payload bmi.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	variable, ok := s.vars[name]
	if !ok {
		return apperrors.New(apperrors.CodeUnknownVariable, "unknown variable "+name)
	}
	if payload.Type != variable.descriptor.Type {
		return apperrors.New(apperrors.CodeTypeMismatch, "element type mismatch for "+name)
	}
	if payload.Len() != variable.descriptor.ItemCount {
		return apperrors.New(apperrors.CodeShapeMismatch, "element count mismatch for "+name)
	}
	variable.payload = payload.Clone()
	return nil
}

// SetClock overrides the stub's time coordinates.
func (s *Stub) SetClock(start, end, step float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start, s.end, s.step = start, end, step
	s.current = start
}

// CurrentTime implements bmi.Model.
func (s *Stub) CurrentTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// StartTime implements bmi.Model.
func (s *Stub) StartTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.start
}

// EndTime implements bmi.Model.
func (s *Stub) EndTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.end
}

// TimeStep implements bmi.Model.
func (s *Stub) TimeStep() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// TimeUnits implements bmi.Model.
func (s *Stub) TimeUnits() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.units
}
