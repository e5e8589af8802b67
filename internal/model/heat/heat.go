// Package heat provides the reference model served by the bridge binary: a
// two-dimensional heat diffusion solve on a uniform rectilinear grid. It
// exists to exercise the full model contract end to end, not to be a
// production-grade thermal model.
package heat

import (
	"context"
	"fmt"

	"github.com/csdms/bmi-bridge/internal/bmi"
	apperrors "github.com/csdms/bmi-bridge/internal/platform/errors"
)

// CSDMS standard names for the model's variables.
const (
	VarTemperature = "plate_surface__temperature"
	VarDiffusivity = "plate_surface__thermal_diffusivity"
)

// Grid identifiers.
const (
	gridField  int32 = 0 // the temperature field grid
	gridScalar int32 = 1 // rank-0 grid for scalar parameters
)

// Model is the 2-D heat diffusion model.
type Model struct {
	cfg         Config
	initialized bool
	finalized   bool

	current     float64
	temperature []float64 // row-major [ny*nx]
	scratch     []float64
}

// New creates an uninitialized heat model.
func New() *Model {
	return &Model{}
}

// ComponentName implements bmi.Model.
func (m *Model) ComponentName() string {
	return "The 2D Heat Equation"
}

// Initialize implements bmi.Model. It loads the YAML configuration at
// configPath and allocates the temperature field.
func (m *Model) Initialize(_ context.Context, configPath string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	m.cfg = cfg
	m.current = 0
	size := cfg.Shape[0] * cfg.Shape[1]
	m.temperature = make([]float64, size)
	m.scratch = make([]float64, size)
	for i := range m.temperature {
		m.temperature[i] = cfg.InitialTemperature
	}
	m.initialized = true
	m.finalized = false
	return nil
}

// Update implements bmi.Model: one explicit finite-difference step with
// fixed-value boundaries.
func (m *Model) Update(_ context.Context) error {
	if err := m.usable(); err != nil {
		return err
	}

	ny, nx := m.cfg.Shape[0], m.cfg.Shape[1]
	dy, dx := m.cfg.Spacing[0], m.cfg.Spacing[1]
	alpha, dt := m.cfg.Alpha, m.cfg.TimeStep

	copy(m.scratch, m.temperature)
	for i := int64(1); i < ny-1; i++ {
		for j := int64(1); j < nx-1; j++ {
			idx := i*nx + j
			d2y := (m.temperature[idx+nx] - 2*m.temperature[idx] + m.temperature[idx-nx]) / (dy * dy)
			d2x := (m.temperature[idx+1] - 2*m.temperature[idx] + m.temperature[idx-1]) / (dx * dx)
			m.scratch[idx] = m.temperature[idx] + alpha*dt*(d2y+d2x)
		}
	}
	m.temperature, m.scratch = m.scratch, m.temperature

	m.current += dt
	return nil
}

// UpdateUntil implements bmi.Model.
func (m *Model) UpdateUntil(ctx context.Context, t float64) error {
	if err := m.usable(); err != nil {
		return err
	}
	if t < m.current {
		return apperrors.New(apperrors.CodeTimeBackward,
			fmt.Sprintf("target time %g is before current time %g", t, m.current))
	}
	for m.current < t {
		if err := m.Update(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Finalize implements bmi.Model.
func (m *Model) Finalize() error {
	if m.finalized {
		return apperrors.New(apperrors.CodeAlreadyFinalized, "model is already finalized")
	}
	m.temperature = nil
	m.scratch = nil
	m.initialized = false
	m.finalized = true
	return nil
}

func (m *Model) usable() error {
	if !m.initialized {
		return apperrors.New(apperrors.CodeModelFault, "model is not initialized")
	}
	return nil
}

// InputVarNames implements bmi.Model.
func (m *Model) InputVarNames() []string {
	return []string{VarTemperature, VarDiffusivity}
}

// OutputVarNames implements bmi.Model.
func (m *Model) OutputVarNames() []string {
	return []string{VarTemperature}
}

// VarDescriptor implements bmi.Model.
func (m *Model) VarDescriptor(name string) (bmi.VarDescriptor, error) {
	switch name {
	case VarTemperature:
		return bmi.VarDescriptor{
			Name:      name,
			Type:      bmi.TypeFloat64,
			ItemCount: m.cfg.Shape[0] * m.cfg.Shape[1],
			Grid:      gridField,
			Units:     "K",
		}, nil
	case VarDiffusivity:
		return bmi.VarDescriptor{
			Name:      name,
			Type:      bmi.TypeFloat64,
			ItemCount: 1,
			Grid:      gridScalar,
			Units:     "m2 s-1",
		}, nil
	default:
		return bmi.VarDescriptor{}, apperrors.New(apperrors.CodeUnknownVariable, "unknown variable "+name)
	}
}

// Grid implements bmi.Model.
func (m *Model) Grid(id int32) (bmi.GridDescriptor, error) {
	switch id {
	case gridField:
		return bmi.GridDescriptor{
			ID:      gridField,
			Type:    "uniform_rectilinear",
			Rank:    2,
			Shape:   append([]int64(nil), m.cfg.Shape...),
			Spacing: append([]float64(nil), m.cfg.Spacing...),
		}, nil
	case gridScalar:
		return bmi.GridDescriptor{ID: gridScalar, Type: "scalar", Rank: 0}, nil
	default:
		return bmi.GridDescriptor{}, apperrors.New(apperrors.CodeUnknownGrid, fmt.Sprintf("unknown grid %d", id))
	}
}

// Value implements bmi.Model.
func (m *Model) Value(name string) (bmi.Payload, error) {
	switch name {
	case VarTemperature:
		if m.temperature == nil {
			return bmi.Payload{}, apperrors.New(apperrors.CodeModelFault, "temperature field is released")
		}
		return bmi.Payload{
			Type:   bmi.TypeFloat64,
			Shape:  append([]int64(nil), m.cfg.Shape...),
			Values: append([]float64(nil), m.temperature...),
		}, nil
	case VarDiffusivity:
		return bmi.Scalar(m.cfg.Alpha), nil
	default:
		return bmi.Payload{}, apperrors.New(apperrors.CodeUnknownVariable, "unknown variable "+name)
	}
}

// SetValue implements bmi.Model.
func (m *Model) SetValue(name string, payload bmi.Payload) error {
	descriptor, err := m.VarDescriptor(name)
	if err != nil {
		return err
	}
	if payload.Type != descriptor.Type {
		return apperrors.New(apperrors.CodeTypeMismatch,
			fmt.Sprintf("variable %s expects %s values", name, descriptor.Type))
	}
	if payload.Len() != descriptor.ItemCount {
		return apperrors.New(apperrors.CodeShapeMismatch,
			fmt.Sprintf("variable %s expects %d elements, got %d", name, descriptor.ItemCount, payload.Len()))
	}
	values, ok := payload.Float64s()
	if !ok {
		return apperrors.New(apperrors.CodeTypeMismatch, "payload values are not float64")
	}

	switch name {
	case VarTemperature:
		if m.temperature == nil {
			return apperrors.New(apperrors.CodeModelFault, "temperature field is released")
		}
		copy(m.temperature, values)
	case VarDiffusivity:
		m.cfg.Alpha = values[0]
	}
	return nil
}

// CurrentTime implements bmi.Model.
func (m *Model) CurrentTime() float64 { return m.current }

// StartTime implements bmi.Model.
func (m *Model) StartTime() float64 { return 0 }

// EndTime implements bmi.Model.
func (m *Model) EndTime() float64 { return m.cfg.EndTime }

// TimeStep implements bmi.Model.
func (m *Model) TimeStep() float64 { return m.cfg.TimeStep }

// TimeUnits implements bmi.Model.
func (m *Model) TimeUnits() string { return "s" }
