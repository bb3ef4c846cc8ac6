//go:generate mockery --name SyncRequestRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"fmt"

	"course_hub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SyncRequestRepository interface {
	Create(ctx context.Context, db *gorm.DB, req *model.SyncRequest) error
	ListByStatus(ctx context.Context, db *gorm.DB, status model.SyncStatus) ([]model.SyncRequest, error)
}

type gormSyncRequestRepository struct {
	requests Table[model.SyncRequest]
}

func NewGormSyncRequestRepository() SyncRequestRepository {
	return &gormSyncRequestRepository{
		requests: NewTable[model.SyncRequest]("sync_requests", "sync_request_id"),
	}
}

func (r *gormSyncRequestRepository) Create(ctx context.Context, db *gorm.DB, req *model.SyncRequest) error {
	if req.SyncRequestID == uuid.Nil {
		req.SyncRequestID = uuid.New()
	}
	if err := r.requests.Insert(ctx, db, req); err != nil {
		return fmt.Errorf("gormSyncRequestRepository.Create: %w", err)
	}
	return nil
}

func (r *gormSyncRequestRepository) ListByStatus(ctx context.Context, db *gorm.DB, status model.SyncStatus) ([]model.SyncRequest, error) {
	rows, err := r.requests.Scan(ctx, db, "status = ?", status)
	if err != nil {
		return nil, fmt.Errorf("gormSyncRequestRepository.ListByStatus: %w", err)
	}
	return rows, nil
}
