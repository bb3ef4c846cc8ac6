package service

import (
	"context"

	"course_hub/internal/middleware"
	"course_hub/internal/model"
	"course_hub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockery --name AdminService --output ./mocks --outpkg mocks --case=underscore
type AdminService interface {
	// RequestSync は教材の同期要求をキューに積みます。
	RequestSync(ctx context.Context, requestedBy uuid.UUID) (*model.SyncRequest, error)
	ListQueuedSyncs(ctx context.Context) ([]model.SyncRequest, error)
}

type adminService struct {
	db       *gorm.DB
	syncRepo repository.SyncRequestRepository
}

func NewAdminService(db *gorm.DB, syncRepo repository.SyncRequestRepository) AdminService {
	return &adminService{db: db, syncRepo: syncRepo}
}

func (s *adminService) RequestSync(ctx context.Context, requestedBy uuid.UUID) (*model.SyncRequest, error) {
	req := &model.SyncRequest{
		SyncRequestID: uuid.New(),
		RequestedBy:   requestedBy,
		Status:        model.SyncStatusQueued,
	}
	if err := s.syncRepo.Create(ctx, s.db, req); err != nil {
		middleware.GetLogger(ctx).Error("Failed to queue sync request", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "同期要求の登録に失敗しました。", "", err)
	}
	middleware.GetLogger(ctx).Info("Content sync queued", "sync_request_id", req.SyncRequestID, "requested_by", requestedBy)
	return req, nil
}

func (s *adminService) ListQueuedSyncs(ctx context.Context) ([]model.SyncRequest, error) {
	rows, err := s.syncRepo.ListByStatus(ctx, s.db, model.SyncStatusQueued)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "同期要求の取得に失敗しました。", "", err)
	}
	if rows == nil {
		rows = []model.SyncRequest{}
	}
	return rows, nil
}
