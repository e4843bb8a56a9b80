// Package grpc exposes the standard gRPC health service for storefront processes.
package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// ServeHealth listens on addr and serves health checks until ctx ends.
func ServeHealth(ctx context.Context, addr string, service string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return errors.New("health address is required")
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen health %s: %w", addr, err)
	}
	return ServeHealthOn(ctx, lis, service)
}

// ServeHealthOn serves health checks on lis until ctx ends. The service and
// the empty (overall) service report SERVING while running and NOT_SERVING
// once shutdown starts.
func ServeHealthOn(ctx context.Context, lis net.Listener, service string) error {
	if lis == nil {
		return errors.New("health listener is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	server := gogrpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	if service = strings.TrimSpace(service); service != "" {
		healthServer.SetServingStatus(service, grpc_health_v1.HealthCheckResponse_SERVING)
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		healthServer.Shutdown()
		server.GracefulStop()
		return nil
	case err := <-serveErr:
		if errors.Is(err, gogrpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve health: %w", err)
	}
}
