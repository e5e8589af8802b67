package bridge

import (
	"context"
	"errors"

	bmiv1 "github.com/csdms/bmi-bridge/api/bmi/v1"
	apperrors "github.com/csdms/bmi-bridge/internal/platform/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Service implements the bmi.v1.BmiService gRPC API on top of a Dispatcher.
type Service struct {
	dispatcher *Dispatcher
}

// NewService creates a Service backed by the given dispatcher.
func NewService(dispatcher *Dispatcher) *Service {
	return &Service{dispatcher: dispatcher}
}

// toStatus translates dispatcher errors into gRPC statuses. Domain errors
// map through their code table; context errors map to the matching transport
// codes; anything else is an internal error.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return status.FromContextError(err).Err()
	}
	var domainErr *apperrors.Error
	if errors.As(err, &domainErr) {
		return domainErr.ToGRPCStatus()
	}
	return status.Error(codes.Internal, err.Error())
}

// GetComponentName returns the model's component identity.
func (s *Service) GetComponentName(ctx context.Context, in *bmiv1.Empty) (*bmiv1.GetComponentNameResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get component name request is required")
	}
	name, err := s.dispatcher.ComponentName(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &bmiv1.GetComponentNameResponse{Name: name}, nil
}

// GetInputVarNames lists the model's input variables.
func (s *Service) GetInputVarNames(ctx context.Context, in *bmiv1.Empty) (*bmiv1.GetVarNamesResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get input var names request is required")
	}
	names, err := s.dispatcher.InputVarNames(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &bmiv1.GetVarNamesResponse{Names: names}, nil
}

// GetOutputVarNames lists the model's output variables.
func (s *Service) GetOutputVarNames(ctx context.Context, in *bmiv1.Empty) (*bmiv1.GetVarNamesResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get output var names request is required")
	}
	names, err := s.dispatcher.OutputVarNames(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &bmiv1.GetVarNamesResponse{Names: names}, nil
}

// Initialize configures the model from the given configuration resource.
func (s *Service) Initialize(ctx context.Context, in *bmiv1.InitializeRequest) (*bmiv1.Empty, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "initialize request is required")
	}
	if in.ConfigPath == "" {
		return nil, status.Error(codes.InvalidArgument, "config path is required")
	}
	if err := s.dispatcher.Initialize(ctx, in.ConfigPath); err != nil {
		return nil, toStatus(err)
	}
	return &bmiv1.Empty{}, nil
}

// Update advances the model one time step.
func (s *Service) Update(ctx context.Context, in *bmiv1.Empty) (*bmiv1.Empty, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "update request is required")
	}
	if err := s.dispatcher.Update(ctx); err != nil {
		return nil, toStatus(err)
	}
	return &bmiv1.Empty{}, nil
}

// UpdateUntil advances the model until the requested simulated time.
func (s *Service) UpdateUntil(ctx context.Context, in *bmiv1.UpdateUntilRequest) (*bmiv1.Empty, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "update until request is required")
	}
	if err := s.dispatcher.UpdateUntil(ctx, in.Time); err != nil {
		return nil, toStatus(err)
	}
	return &bmiv1.Empty{}, nil
}

// Finalize releases the model's internal state.
func (s *Service) Finalize(ctx context.Context, in *bmiv1.Empty) (*bmiv1.Empty, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "finalize request is required")
	}
	if err := s.dispatcher.Finalize(ctx); err != nil {
		return nil, toStatus(err)
	}
	return &bmiv1.Empty{}, nil
}

// GetCurrentTime returns the model's current simulated time.
func (s *Service) GetCurrentTime(ctx context.Context, in *bmiv1.Empty) (*bmiv1.GetTimeResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get current time request is required")
	}
	t, err := s.dispatcher.CurrentTime(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &bmiv1.GetTimeResponse{Time: t}, nil
}

// GetStartTime returns the model's simulation start time.
func (s *Service) GetStartTime(ctx context.Context, in *bmiv1.Empty) (*bmiv1.GetTimeResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get start time request is required")
	}
	t, err := s.dispatcher.StartTime(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &bmiv1.GetTimeResponse{Time: t}, nil
}

// GetEndTime returns the model's simulation end time.
func (s *Service) GetEndTime(ctx context.Context, in *bmiv1.Empty) (*bmiv1.GetTimeResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get end time request is required")
	}
	t, err := s.dispatcher.EndTime(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &bmiv1.GetTimeResponse{Time: t}, nil
}

// GetTimeStep returns the model's internal time step.
func (s *Service) GetTimeStep(ctx context.Context, in *bmiv1.Empty) (*bmiv1.GetTimeResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get time step request is required")
	}
	t, err := s.dispatcher.TimeStep(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &bmiv1.GetTimeResponse{Time: t}, nil
}

// GetTimeUnits returns the model's time unit string.
func (s *Service) GetTimeUnits(ctx context.Context, in *bmiv1.Empty) (*bmiv1.GetTimeUnitsResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get time units request is required")
	}
	units, err := s.dispatcher.TimeUnits(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &bmiv1.GetTimeUnitsResponse{Units: units}, nil
}

// GetVarInfo describes a declared variable.
func (s *Service) GetVarInfo(ctx context.Context, in *bmiv1.GetVarInfoRequest) (*bmiv1.GetVarInfoResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get var info request is required")
	}
	descriptor, err := s.dispatcher.VarInfo(ctx, in.Name)
	if err != nil {
		return nil, toStatus(err)
	}
	return &bmiv1.GetVarInfoResponse{
		Type:      string(descriptor.Type),
		ItemCount: descriptor.ItemCount,
		Grid:      descriptor.Grid,
		Units:     descriptor.Units,
	}, nil
}

// GetGridInfo describes a grid.
func (s *Service) GetGridInfo(ctx context.Context, in *bmiv1.GetGridInfoRequest) (*bmiv1.GetGridInfoResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get grid info request is required")
	}
	grid, err := s.dispatcher.GridInfo(ctx, in.Grid)
	if err != nil {
		return nil, toStatus(err)
	}
	return &bmiv1.GetGridInfoResponse{
		Type:    grid.Type,
		Rank:    grid.Rank,
		Shape:   grid.Shape,
		Spacing: grid.Spacing,
	}, nil
}

// GetValue reads the named variable's current values.
func (s *Service) GetValue(ctx context.Context, in *bmiv1.GetValueRequest) (*bmiv1.GetValueResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get value request is required")
	}
	payload, err := s.dispatcher.GetValue(ctx, in.Name)
	if err != nil {
		return nil, toStatus(err)
	}
	return &bmiv1.GetValueResponse{Payload: payload}, nil
}

// SetValue replaces the named variable's values.
func (s *Service) SetValue(ctx context.Context, in *bmiv1.SetValueRequest) (*bmiv1.Empty, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "set value request is required")
	}
	if err := s.dispatcher.SetValue(ctx, in.Name, in.Payload); err != nil {
		return nil, toStatus(err)
	}
	return &bmiv1.Empty{}, nil
}
