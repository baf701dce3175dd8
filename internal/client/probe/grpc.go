// Package probe checks a Centrinote server through its gRPC health service.
package probe

import (
	"context"
	"errors"
	"time"

	"github.com/centrinote/centrinote/internal/client/api"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// ErrUnknownService is returned when the server does not report the service.
var ErrUnknownService = errors.New("health service unknown to server")

const checkTimeout = 5 * time.Second

type GRPCProbe struct {
	conn   *grpc.ClientConn
	client healthpb.HealthClient
}

// NewGRPCProbe prepares a plaintext connection to address. Dialing is lazy,
// so an unreachable server surfaces on the first Check.
func NewGRPCProbe(address string) (*GRPCProbe, error) {
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	return &GRPCProbe{conn: conn, client: healthpb.NewHealthClient(conn)}, nil
}

// Check returns the serving status of service; "" is the server itself.
func (p *GRPCProbe) Check(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	resp, err := p.client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, mapError(err)
	}
	return resp.GetStatus(), nil
}

// Serving is Check reduced to a boolean.
func (p *GRPCProbe) Serving(ctx context.Context, service string) (bool, error) {
	st, err := p.Check(ctx, service)
	if err != nil {
		return false, err
	}
	return st == healthpb.HealthCheckResponse_SERVING, nil
}

func (p *GRPCProbe) Close() error {
	return p.conn.Close()
}

func mapError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return errors.Join(api.ErrUnavailable, err)
	case codes.NotFound:
		return ErrUnknownService
	default:
		return err
	}
}
