package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/protojson"
)

// HealthClient queries a daemon's health endpoint
type HealthClient struct {
	conn   *grpc.ClientConn
	client healthpb.HealthClient
}

// NewHealthClient connects lazily to a daemon at host:port
func NewHealthClient(address string) (*HealthClient, error) {
	conn, err := grpc.NewClient(
		address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w", err)
	}

	return &HealthClient{
		conn:   conn,
		client: healthpb.NewHealthClient(conn),
	}, nil
}

// Check returns the serving status of the engine, e.g. "SERVING"
func (c *HealthClient) Check(ctx context.Context) (string, error) {
	resp, err := c.check(ctx)
	if err != nil {
		return "", err
	}
	return resp.GetStatus().String(), nil
}

// CheckJSON returns the raw health response in protobuf JSON form
func (c *HealthClient) CheckJSON(ctx context.Context) ([]byte, error) {
	resp, err := c.check(ctx)
	if err != nil {
		return nil, err
	}
	return protojson.Marshal(resp)
}

func (c *HealthClient) check(ctx context.Context) (*healthpb.HealthCheckResponse, error) {
	resp, err := c.client.Check(ctx, &healthpb.HealthCheckRequest{Service: EngineService})
	if err != nil {
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	return resp, nil
}

// Close closes the gRPC connection
func (c *HealthClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
