//go:build protogen

package grpcserver

import (
	"context"

	"github.com/salonflow/salonflow/libs/db"
	schedulev1 "github.com/salonflow/salonflow/protos/gen/schedule/v1"
	"github.com/salonflow/salonflow/services/schedule-service/internal/storage"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type server struct {
	schedulev1.UnimplementedScheduleServiceServer
	pool *db.Pool
	repo *storage.Repository
}

func Register(grpcServer *grpc.Server, pool *db.Pool, repo *storage.Repository) {
	schedulev1.RegisterScheduleServiceServer(grpcServer, &server{pool: pool, repo: repo})
}

func (s *server) GetService(ctx context.Context, req *schedulev1.GetServiceRequest) (*schedulev1.GetServiceResponse, error) {
	if req.GetBusinessId() == "" || req.GetServiceId() == "" {
		return nil, status.Error(codes.InvalidArgument, "business_id and service_id are required")
	}

	svc, err := s.repo.GetService(ctx, req.GetBusinessId(), req.GetServiceId())
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, status.Error(codes.NotFound, "service not found")
		}
		return nil, status.Error(codes.Internal, "service lookup failed")
	}

	return &schedulev1.GetServiceResponse{
		Service: &schedulev1.Service{
			ServiceId:       svc.ID,
			BusinessId:      svc.BusinessID,
			Name:            svc.Name,
			DurationMinutes: int32(svc.DurationMins),
			Price:           svc.Price,
			Active:          svc.IsActive,
		},
	}, nil
}

func (s *server) GetScheduleSnapshot(ctx context.Context, req *schedulev1.GetScheduleSnapshotRequest) (*schedulev1.GetScheduleSnapshotResponse, error) {
	if req.GetBusinessId() == "" || req.GetStaffId() == "" {
		return nil, status.Error(codes.InvalidArgument, "business_id and staff_id are required")
	}

	profile, err := s.repo.GetOrCreateProfile(ctx, req.GetBusinessId())
	if err != nil {
		return nil, status.Error(codes.Internal, "profile lookup failed")
	}
	timezone := profile.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	hours, err := s.repo.ListWorkingHours(ctx, req.GetBusinessId(), req.GetStaffId())
	if err != nil {
		return nil, status.Error(codes.Internal, "working hours lookup failed")
	}
	blackouts, err := s.repo.ListBlackouts(ctx, req.GetBusinessId(), req.GetStaffId())
	if err != nil {
		return nil, status.Error(codes.Internal, "blackout lookup failed")
	}
	exceptions, err := s.repo.ListExceptions(ctx, req.GetBusinessId(), req.GetStaffId())
	if err != nil {
		return nil, status.Error(codes.Internal, "exception lookup failed")
	}
	rules, err := s.repo.GetRuleSet(ctx, req.GetBusinessId(), req.GetStaffId())
	if err != nil {
		return nil, status.Error(codes.Internal, "rule set lookup failed")
	}

	resp := &schedulev1.GetScheduleSnapshotResponse{
		Timezone:      timezone,
		BlackoutDates: blackouts,
		Rules: &schedulev1.RuleSet{
			MinNoticeMinutes: int32(rules.MinNoticeMinutes),
			MaxAdvanceDays:   int32(rules.MaxAdvanceDays),
			SlotStepMinutes:  int32(rules.SlotStepMinutes),
		},
		GeneratedAt: timestamppb.Now(),
	}
	for _, wh := range hours {
		resp.WeeklyHours = append(resp.WeeklyHours, &schedulev1.WorkingHoursRule{
			Weekday:     int32(wh.Weekday),
			IsWorking:   wh.IsWorking,
			StartMinute: int32(wh.StartMinute),
			EndMinute:   int32(wh.EndMinute),
		})
	}
	for _, ex := range exceptions {
		resp.Exceptions = append(resp.Exceptions, &schedulev1.ScheduleException{
			ExceptionId: ex.ID,
			StartDate:   ex.StartDate,
			EndDate:     ex.EndDate,
			Closed:      ex.Closed,
			StartMinute: int32(ex.StartMinute),
			EndMinute:   int32(ex.EndMinute),
		})
	}
	return resp, nil
}
