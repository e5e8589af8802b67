package bridge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"

	bmiv1 "github.com/csdms/bmi-bridge/api/bmi/v1"
	"github.com/csdms/bmi-bridge/internal/bmi"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Server hosts the registered model behind the bmi.v1.BmiService API. It
// owns the model handle for the process lifetime and guarantees the model's
// native resources are released exactly once on every shutdown path.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	dispatcher *Dispatcher
	registry   *Registry
}

// New creates a configured bridge server listening on the provided port.
func New(port int, model bmi.Model) (*Server, error) {
	return NewWithAddr(fmt.Sprintf(":%d", port), model)
}

// NewWithAddr creates a configured bridge server listening on addr. A bind
// failure is fatal at startup: the caller should exit non-zero.
func NewWithAddr(addr string, model bmi.Model) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	registry := NewRegistry()
	dispatcher := NewDispatcher(registry)
	if err := dispatcher.Register(model); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("register model: %w", err)
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
	)
	healthServer := health.NewServer()
	bmiv1.RegisterBmiServiceServer(grpcServer, NewService(dispatcher))
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(bmiv1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		dispatcher: dispatcher,
		registry:   registry,
	}, nil
}

// Addr returns the listener address for the bridge server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Dispatcher exposes the request dispatcher, mainly for introspection.
func (s *Server) Dispatcher() *Dispatcher {
	return s.dispatcher
}

// Run creates and serves a bridge server for model until the context ends.
func Run(ctx context.Context, port int, model bmi.Model) error {
	server, err := New(port, model)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// RunWithAddr creates and serves a bridge server on addr until the context ends.
func RunWithAddr(ctx context.Context, addr string, model bmi.Model) error {
	server, err := NewWithAddr(addr, model)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the bridge server and blocks until it stops or the context
// ends. On shutdown, in-flight calls complete, no new calls are accepted,
// and the model handle is released (finalized if it was not already).
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.registry.Handle().Release()

	log.Printf("bridge server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	handleErr := func(err error) error {
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}

	select {
	case <-ctx.Done():
		if s.health != nil {
			s.health.Shutdown()
		}
		s.grpcServer.GracefulStop()
		err := <-serveErr
		return handleErr(err)
	case err := <-serveErr:
		return handleErr(err)
	}
}
