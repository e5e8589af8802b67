package bridge

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	bmiv1 "github.com/csdms/bmi-bridge/api/bmi/v1"
	"github.com/csdms/bmi-bridge/internal/bmi"
	"github.com/csdms/bmi-bridge/internal/bmi/bmitest"
	"github.com/csdms/bmi-bridge/internal/model/heat"
	platformgrpc "github.com/csdms/bmi-bridge/internal/platform/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func startServer(t *testing.T, model bmi.Model) (*Server, *bmiv1.BmiServiceClient, context.CancelFunc, chan error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	server, err := NewWithAddr("127.0.0.1:0", model)
	if err != nil {
		cancel()
		t.Fatalf("new server: %v", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(ctx)
	}()

	dialCtx, dialCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer dialCancel()
	conn, err := platformgrpc.DialWithHealth(dialCtx, nil, server.Addr(), 0, t.Logf, platformgrpc.DefaultClientDialOptions()...)
	if err != nil {
		cancel()
		t.Fatalf("dial server: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return server, bmiv1.NewBmiServiceClient(conn), cancel, serveErr
}

func writeHeatConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "heat.yaml")
	config := `shape: [4, 5]
spacing: [1.0, 1.0]
alpha: 0.1
time_step: 0.5
end_time: 10.0
initial_temperature: 20.0
`
	if err := os.WriteFile(path, []byte(config), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// TestModelSessionOverWire drives a full model run through the gRPC surface:
// introspection, initialize, stepping, value access and finalize.
func TestModelSessionOverWire(t *testing.T) {
	_, client, cancel, serveErr := startServer(t, heat.New())
	defer cancel()
	ctx := context.Background()

	name, err := client.GetComponentName(ctx, &bmiv1.Empty{})
	if err != nil {
		t.Fatalf("get component name: %v", err)
	}
	if name.Name != "The 2D Heat Equation" {
		t.Fatalf("unexpected component name %q", name.Name)
	}

	outputs, err := client.GetOutputVarNames(ctx, &bmiv1.Empty{})
	if err != nil {
		t.Fatalf("get output var names: %v", err)
	}
	if len(outputs.Names) != 1 || outputs.Names[0] != heat.VarTemperature {
		t.Fatalf("unexpected output names %v", outputs.Names)
	}

	// Stepping before initialize is a lifecycle violation.
	if _, err := client.Update(ctx, &bmiv1.Empty{}); status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("expected failed precondition before initialize, got %v", err)
	}

	if _, err := client.Initialize(ctx, &bmiv1.InitializeRequest{ConfigPath: writeHeatConfig(t)}); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	step, err := client.GetTimeStep(ctx, &bmiv1.Empty{})
	if err != nil {
		t.Fatalf("get time step: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := client.Update(ctx, &bmiv1.Empty{}); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}
	current, err := client.GetCurrentTime(ctx, &bmiv1.Empty{})
	if err != nil {
		t.Fatalf("get current time: %v", err)
	}
	if want := 3 * step.Time; current.Time != want {
		t.Fatalf("expected current time %g, got %g", want, current.Time)
	}

	info, err := client.GetVarInfo(ctx, &bmiv1.GetVarInfoRequest{Name: heat.VarTemperature})
	if err != nil {
		t.Fatalf("get var info: %v", err)
	}
	if info.Type != "float64" || info.ItemCount != 20 {
		t.Fatalf("unexpected var info %+v", info)
	}

	grid, err := client.GetGridInfo(ctx, &bmiv1.GetGridInfoRequest{Grid: info.Grid})
	if err != nil {
		t.Fatalf("get grid info: %v", err)
	}
	if grid.Type != "uniform_rectilinear" || grid.Rank != 2 {
		t.Fatalf("unexpected grid info %+v", grid)
	}

	value, err := client.GetValue(ctx, &bmiv1.GetValueRequest{Name: heat.VarTemperature})
	if err != nil {
		t.Fatalf("get value: %v", err)
	}
	payload, err := FromWire(value.Payload, bmi.VarDescriptor{
		Name: heat.VarTemperature, Type: bmi.TypeFloat64, ItemCount: info.ItemCount,
	})
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Values.([]float64)[0] != 20 {
		t.Fatalf("expected boundary temperature 20, got %g", payload.Values.([]float64)[0])
	}

	if _, err := client.Finalize(ctx, &bmiv1.Empty{}); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if _, err := client.Finalize(ctx, &bmiv1.Empty{}); status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("expected failed precondition for repeated finalize, got %v", err)
	}
	// Queries after finalize fail with a defined error, not a crash.
	if _, err := client.GetValue(ctx, &bmiv1.GetValueRequest{Name: heat.VarTemperature}); status.Code(err) != codes.Internal {
		t.Fatalf("expected internal error reading released field, got %v", err)
	}

	cancel()
	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop in time")
	}
}

// TestSetValueOverWire verifies a typed array survives the round trip through
// the codec and the marshaling layer.
func TestSetValueOverWire(t *testing.T) {
	stub := bmitest.New("stub")
	stub.DeclareVar(bmi.VarDescriptor{
		Name:      "soil__infiltration_rate",
		Type:      bmi.TypeFloat32,
		ItemCount: 2,
	}, bmi.Payload{Type: bmi.TypeFloat32, Shape: []int64{2}, Values: []float32{0, 0}}, true, true)

	_, client, cancel, _ := startServer(t, stub)
	defer cancel()
	ctx := context.Background()

	if _, err := client.Initialize(ctx, &bmiv1.InitializeRequest{ConfigPath: "stub.yaml"}); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	payload, err := bmi.NewPayload(bmi.TypeFloat32, []int64{2}, []float32{1.5, -2.25})
	if err != nil {
		t.Fatalf("new payload: %v", err)
	}
	wire, err := ToWire(payload)
	if err != nil {
		t.Fatalf("to wire: %v", err)
	}
	if _, err := client.SetValue(ctx, &bmiv1.SetValueRequest{Name: "soil__infiltration_rate", Payload: wire}); err != nil {
		t.Fatalf("set value: %v", err)
	}

	got, err := client.GetValue(ctx, &bmiv1.GetValueRequest{Name: "soil__infiltration_rate"})
	if err != nil {
		t.Fatalf("get value: %v", err)
	}
	decoded, err := FromWire(got.Payload, bmi.VarDescriptor{
		Name: "soil__infiltration_rate", Type: bmi.TypeFloat32, ItemCount: 2,
	})
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	values := decoded.Values.([]float32)
	if values[0] != 1.5 || values[1] != -2.25 {
		t.Fatalf("unexpected values %v", values)
	}

	// Unknown variables map to NotFound at the transport boundary.
	if _, err := client.GetValue(ctx, &bmiv1.GetValueRequest{Name: "no_such__variable"}); status.Code(err) != codes.NotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

// TestShutdownReleasesModelOnce verifies the model is finalized exactly once
// whether or not a client already finalized it.
func TestShutdownReleasesModelOnce(t *testing.T) {
	stub := bmitest.New("stub")
	_, client, cancel, serveErr := startServer(t, stub)
	ctx := context.Background()

	if _, err := client.Initialize(ctx, &bmiv1.InitializeRequest{ConfigPath: "stub.yaml"}); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := client.Finalize(ctx, &bmiv1.Empty{}); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	cancel()
	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop in time")
	}

	if stub.FinalizeCalls() != 1 {
		t.Fatalf("expected one finalize call, got %d", stub.FinalizeCalls())
	}
}

// TestShutdownFinalizesUnfinalizedModel verifies the release path runs when
// no client ever called finalize.
func TestShutdownFinalizesUnfinalizedModel(t *testing.T) {
	stub := bmitest.New("stub")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, err := NewWithAddr("127.0.0.1:0", stub)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(ctx)
	}()

	cancel()
	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop in time")
	}

	if stub.FinalizeCalls() != 1 {
		t.Fatalf("expected shutdown to finalize the model, got %d calls", stub.FinalizeCalls())
	}
}

// TestRunWithAddrStopsOnCancel verifies the run helper returns cleanly when
// the context ends.
func TestRunWithAddrStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runErr := make(chan error, 1)
	go func() {
		runErr <- RunWithAddr(ctx, "127.0.0.1:0", bmitest.New("stub"))
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-runErr:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop on cancel")
	}
}

// TestRunPortInUse verifies Run reports a bind failure instead of serving.
func TestRunPortInUse(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer listener.Close()

	_, port, err := net.SplitHostPort(listener.Addr().String())
	if err != nil {
		t.Fatalf("split address %q: %v", listener.Addr().String(), err)
	}
	portNumber, err := strconv.Atoi(port)
	if err != nil {
		t.Fatalf("parse port %q: %v", port, err)
	}

	if err := Run(context.Background(), portNumber, bmitest.New("stub")); err == nil {
		t.Fatal("expected error when port is already in use")
	}
}

// TestNewRejectsNilModel verifies construction fails without a model.
func TestNewRejectsNilModel(t *testing.T) {
	if _, err := NewWithAddr("127.0.0.1:0", nil); err == nil {
		t.Fatal("expected error for nil model")
	}
}
