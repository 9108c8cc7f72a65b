//go:build protogen

package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/salonflow/salonflow/libs/db"
	"github.com/salonflow/salonflow/libs/grpcx"
	schedulev1 "github.com/salonflow/salonflow/protos/gen/schedule/v1"
)

type grpcProvider struct {
	client schedulev1.ScheduleServiceClient
}

// NewProvider prefers the schedule-service gRPC catalog and falls back
// to the local read model when no address is configured or the dial
// fails.
func NewProvider(logger *slog.Logger, pool *db.Pool, addr string) (Provider, error) {
	if addr == "" {
		return NewDBProvider(pool), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := grpcx.Dial(ctx, addr, grpcx.DialOptions{Timeout: 5 * time.Second})
	if err != nil {
		logger.Warn("grpc catalog provider unavailable, using read model", "err", err)
		return NewDBProvider(pool), nil
	}

	logger.Info("grpc catalog provider enabled", "addr", addr)
	return &grpcProvider{client: schedulev1.NewScheduleServiceClient(conn)}, nil
}

func (p *grpcProvider) GetService(ctx context.Context, businessID, serviceID string) (ServiceInfo, bool, error) {
	resp, err := p.client.GetService(ctx, &schedulev1.GetServiceRequest{
		BusinessId: businessID,
		ServiceId:  serviceID,
	})
	if err != nil {
		return ServiceInfo{}, false, err
	}
	svc := resp.GetService()
	if svc == nil || !svc.GetActive() {
		return ServiceInfo{}, false, nil
	}
	return ServiceInfo{
		Name:            svc.GetName(),
		DurationMinutes: int(svc.GetDurationMinutes()),
		Price:           svc.GetPrice(),
	}, true, nil
}
