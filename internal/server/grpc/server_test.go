package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

func TestServe_ReportsServingAndStops(t *testing.T) {
	srv := NewHealthServer("127.0.0.1:0", nopLogger{})

	listen, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.serve(ctx, listen)
	}()

	conn, err := grpc.NewClient(listen.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer conn.Close()

	client := healthpb.NewHealthClient(conn)
	for _, name := range []string{"", ServiceName} {
		callCtx, callCancel := context.WithTimeout(ctx, 2*time.Second)
		resp, err := client.Check(callCtx, &healthpb.HealthCheckRequest{Service: name}, grpc.WaitForReady(true))
		callCancel()
		if err != nil {
			t.Fatalf("Check(%q): %v", name, err)
		}
		if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
			t.Fatalf("Check(%q) status = %v", name, resp.GetStatus())
		}
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned error on graceful stop: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestSetServing(t *testing.T) {
	srv := NewHealthServer(":0", nopLogger{})
	srv.SetServing(false)

	resp, err := srv.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("status = %v", resp.GetStatus())
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewHealthServer("127.0.0.1:99999", nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Run(ctx); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}
