package bmiv1

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the full gRPC service name.
const ServiceName = "bmi.v1.BmiService"

// BmiServiceServer is the server API for the bmi.v1.BmiService service.
type BmiServiceServer interface {
	GetComponentName(context.Context, *Empty) (*GetComponentNameResponse, error)
	GetInputVarNames(context.Context, *Empty) (*GetVarNamesResponse, error)
	GetOutputVarNames(context.Context, *Empty) (*GetVarNamesResponse, error)
	Initialize(context.Context, *InitializeRequest) (*Empty, error)
	Update(context.Context, *Empty) (*Empty, error)
	UpdateUntil(context.Context, *UpdateUntilRequest) (*Empty, error)
	Finalize(context.Context, *Empty) (*Empty, error)
	GetCurrentTime(context.Context, *Empty) (*GetTimeResponse, error)
	GetStartTime(context.Context, *Empty) (*GetTimeResponse, error)
	GetEndTime(context.Context, *Empty) (*GetTimeResponse, error)
	GetTimeStep(context.Context, *Empty) (*GetTimeResponse, error)
	GetTimeUnits(context.Context, *Empty) (*GetTimeUnitsResponse, error)
	GetVarInfo(context.Context, *GetVarInfoRequest) (*GetVarInfoResponse, error)
	GetGridInfo(context.Context, *GetGridInfoRequest) (*GetGridInfoResponse, error)
	GetValue(context.Context, *GetValueRequest) (*GetValueResponse, error)
	SetValue(context.Context, *SetValueRequest) (*Empty, error)
}

// RegisterBmiServiceServer registers the service implementation with the
// gRPC server's dispatch table.
func RegisterBmiServiceServer(s grpc.ServiceRegistrar, srv BmiServiceServer) {
	s.RegisterService(&BmiService_ServiceDesc, srv)
}

// unaryHandler builds the MethodDesc handler shim for a unary method, the
// same shape protoc-gen-go-grpc generates.
func unaryHandler[Req any, Resp any](method string, invoke func(BmiServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return invoke(srv.(BmiServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + method,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return invoke(srv.(BmiServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// BmiService_ServiceDesc is the grpc.ServiceDesc for the BmiService service.
var BmiService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BmiServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("GetComponentName", func(s BmiServiceServer, ctx context.Context, in *Empty) (*GetComponentNameResponse, error) {
			return s.GetComponentName(ctx, in)
		}),
		unaryHandler("GetInputVarNames", func(s BmiServiceServer, ctx context.Context, in *Empty) (*GetVarNamesResponse, error) {
			return s.GetInputVarNames(ctx, in)
		}),
		unaryHandler("GetOutputVarNames", func(s BmiServiceServer, ctx context.Context, in *Empty) (*GetVarNamesResponse, error) {
			return s.GetOutputVarNames(ctx, in)
		}),
		unaryHandler("Initialize", func(s BmiServiceServer, ctx context.Context, in *InitializeRequest) (*Empty, error) {
			return s.Initialize(ctx, in)
		}),
		unaryHandler("Update", func(s BmiServiceServer, ctx context.Context, in *Empty) (*Empty, error) {
			return s.Update(ctx, in)
		}),
		unaryHandler("UpdateUntil", func(s BmiServiceServer, ctx context.Context, in *UpdateUntilRequest) (*Empty, error) {
			return s.UpdateUntil(ctx, in)
		}),
		unaryHandler("Finalize", func(s BmiServiceServer, ctx context.Context, in *Empty) (*Empty, error) {
			return s.Finalize(ctx, in)
		}),
		unaryHandler("GetCurrentTime", func(s BmiServiceServer, ctx context.Context, in *Empty) (*GetTimeResponse, error) {
			return s.GetCurrentTime(ctx, in)
		}),
		unaryHandler("GetStartTime", func(s BmiServiceServer, ctx context.Context, in *Empty) (*GetTimeResponse, error) {
			return s.GetStartTime(ctx, in)
		}),
		unaryHandler("GetEndTime", func(s BmiServiceServer, ctx context.Context, in *Empty) (*GetTimeResponse, error) {
			return s.GetEndTime(ctx, in)
		}),
		unaryHandler("GetTimeStep", func(s BmiServiceServer, ctx context.Context, in *Empty) (*GetTimeResponse, error) {
			return s.GetTimeStep(ctx, in)
		}),
		unaryHandler("GetTimeUnits", func(s BmiServiceServer, ctx context.Context, in *Empty) (*GetTimeUnitsResponse, error) {
			return s.GetTimeUnits(ctx, in)
		}),
		unaryHandler("GetVarInfo", func(s BmiServiceServer, ctx context.Context, in *GetVarInfoRequest) (*GetVarInfoResponse, error) {
			return s.GetVarInfo(ctx, in)
		}),
		unaryHandler("GetGridInfo", func(s BmiServiceServer, ctx context.Context, in *GetGridInfoRequest) (*GetGridInfoResponse, error) {
			return s.GetGridInfo(ctx, in)
		}),
		unaryHandler("GetValue", func(s BmiServiceServer, ctx context.Context, in *GetValueRequest) (*GetValueResponse, error) {
			return s.GetValue(ctx, in)
		}),
		unaryHandler("SetValue", func(s BmiServiceServer, ctx context.Context, in *SetValueRequest) (*Empty, error) {
			return s.SetValue(ctx, in)
		}),
	},
	Streams: []grpc.StreamDesc{},
}
