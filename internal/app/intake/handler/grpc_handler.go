package handler

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/JoeShih716/go-platform-automation/api/automationrpc"
	"github.com/JoeShih716/go-platform-automation/internal/app/intake/service"
	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
)

// GRPCHandler 負責將 gRPC 請求轉換為受理服務呼叫
type GRPCHandler struct {
	automationrpc.UnimplementedAutomationRPCServer
	svc *service.IntakeService
}

var _ automationrpc.AutomationRPCServer = (*GRPCHandler)(nil)

// NewGRPCHandler 建立 gRPC Handler
func NewGRPCHandler(svc *service.IntakeService) *GRPCHandler {
	return &GRPCHandler{svc: svc}
}

// SubmitJob 受理工作，只回傳 job id，結果需另外查詢
func (h *GRPCHandler) SubmitJob(ctx context.Context, req *automationrpc.SubmitJobRequest) (*automationrpc.SubmitJobResponse, error) {
	job, err := h.svc.Submit(ctx, domain.NewJobRequest{
		Kind:        req.Kind,
		Platform:    req.Platform,
		PlayerRef:   req.PlayerRef,
		Amount:      req.Amount,
		BonusID:     req.BonusId,
		RequestedBy: req.RequestedBy,
		Priority:    req.Priority,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &automationrpc.SubmitJobResponse{JobId: job.ID}, nil
}

// GetJob 查詢工作狀態
func (h *GRPCHandler) GetJob(ctx context.Context, req *automationrpc.GetJobRequest) (*automationrpc.GetJobResponse, error) {
	if req.JobId == "" {
		return nil, status.Error(codes.InvalidArgument, "job_id is required")
	}
	job, err := h.svc.GetJob(ctx, req.JobId)
	if err != nil {
		return nil, toStatus(err)
	}
	return &automationrpc.GetJobResponse{Job: toJob(job)}, nil
}

// GetRecord 查詢紀錄狀態
func (h *GRPCHandler) GetRecord(ctx context.Context, req *automationrpc.GetRecordRequest) (*automationrpc.GetRecordResponse, error) {
	if req.JobId == "" {
		return nil, status.Error(codes.InvalidArgument, "job_id is required")
	}
	rec, err := h.svc.GetRecord(ctx, req.JobId)
	if err != nil {
		return nil, toStatus(err)
	}
	return &automationrpc.GetRecordResponse{
		JobId:           rec.JobID,
		Kind:            string(rec.Kind),
		Status:          rec.Status,
		ConfirmationRef: rec.ConfirmationRef,
		Note:            rec.Note,
		UpdatedAt:       rec.UpdatedAt,
	}, nil
}

func toJob(job *domain.Job) *automationrpc.Job {
	out := &automationrpc.Job{
		Id:           job.ID,
		Kind:         string(job.Kind),
		Platform:     job.Platform.String(),
		PlayerRef:    job.PlayerRef,
		BonusId:      job.BonusID,
		RequestedBy:  job.RequestedBy,
		Priority:     string(job.Priority),
		State:        string(job.State),
		AttemptCount: int32(job.AttemptCount),
		LastError:    job.LastError,
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
	}
	if !job.Amount.IsZero() {
		out.Amount = job.Amount.StringFixed(2)
	}
	return out
}

// toStatus 將 domain 錯誤對應到 gRPC status code
func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidJob), errors.Is(err, domain.ErrUnknownPlatform):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrJobNotFound), errors.Is(err, domain.ErrRecordNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrStorageUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	slog.Error("intake request failed", "error", err)
	return status.Error(codes.Internal, err.Error())
}
