package bmiv1

import (
	"context"

	"google.golang.org/grpc"
)

// BmiServiceClient is the client API for the bmi.v1.BmiService service.
type BmiServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewBmiServiceClient wraps a client connection. Every call pins the cbor
// content-subtype so both peers agree on the message codec.
func NewBmiServiceClient(cc grpc.ClientConnInterface) *BmiServiceClient {
	return &BmiServiceClient{cc: cc}
}

func invoke[Req any, Resp any](ctx context.Context, c *BmiServiceClient, method string, in *Req, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BmiServiceClient) GetComponentName(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetComponentNameResponse, error) {
	return invoke[Empty, GetComponentNameResponse](ctx, c, "GetComponentName", in, opts)
}

func (c *BmiServiceClient) GetInputVarNames(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetVarNamesResponse, error) {
	return invoke[Empty, GetVarNamesResponse](ctx, c, "GetInputVarNames", in, opts)
}

func (c *BmiServiceClient) GetOutputVarNames(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetVarNamesResponse, error) {
	return invoke[Empty, GetVarNamesResponse](ctx, c, "GetOutputVarNames", in, opts)
}

func (c *BmiServiceClient) Initialize(ctx context.Context, in *InitializeRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[InitializeRequest, Empty](ctx, c, "Initialize", in, opts)
}

func (c *BmiServiceClient) Update(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty, Empty](ctx, c, "Update", in, opts)
}

func (c *BmiServiceClient) UpdateUntil(ctx context.Context, in *UpdateUntilRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[UpdateUntilRequest, Empty](ctx, c, "UpdateUntil", in, opts)
}

func (c *BmiServiceClient) Finalize(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty, Empty](ctx, c, "Finalize", in, opts)
}

func (c *BmiServiceClient) GetCurrentTime(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetTimeResponse, error) {
	return invoke[Empty, GetTimeResponse](ctx, c, "GetCurrentTime", in, opts)
}

func (c *BmiServiceClient) GetStartTime(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetTimeResponse, error) {
	return invoke[Empty, GetTimeResponse](ctx, c, "GetStartTime", in, opts)
}

func (c *BmiServiceClient) GetEndTime(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetTimeResponse, error) {
	return invoke[Empty, GetTimeResponse](ctx, c, "GetEndTime", in, opts)
}

func (c *BmiServiceClient) GetTimeStep(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetTimeResponse, error) {
	return invoke[Empty, GetTimeResponse](ctx, c, "GetTimeStep", in, opts)
}

func (c *BmiServiceClient) GetTimeUnits(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetTimeUnitsResponse, error) {
	return invoke[Empty, GetTimeUnitsResponse](ctx, c, "GetTimeUnits", in, opts)
}

func (c *BmiServiceClient) GetVarInfo(ctx context.Context, in *GetVarInfoRequest, opts ...grpc.CallOption) (*GetVarInfoResponse, error) {
	return invoke[GetVarInfoRequest, GetVarInfoResponse](ctx, c, "GetVarInfo", in, opts)
}

func (c *BmiServiceClient) GetGridInfo(ctx context.Context, in *GetGridInfoRequest, opts ...grpc.CallOption) (*GetGridInfoResponse, error) {
	return invoke[GetGridInfoRequest, GetGridInfoResponse](ctx, c, "GetGridInfo", in, opts)
}

func (c *BmiServiceClient) GetValue(ctx context.Context, in *GetValueRequest, opts ...grpc.CallOption) (*GetValueResponse, error) {
	return invoke[GetValueRequest, GetValueResponse](ctx, c, "GetValue", in, opts)
}

func (c *BmiServiceClient) SetValue(ctx context.Context, in *SetValueRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[SetValueRequest, Empty](ctx, c, "SetValue", in, opts)
}
