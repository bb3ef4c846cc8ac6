//go:generate mockery --name RegistrationRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"course_hub/internal/middleware"
	"course_hub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegistrationRepository interface {
	Find(ctx context.Context, db *gorm.DB, userID, courseID uuid.UUID) (*model.Registration, error)
	Create(ctx context.Context, tx *gorm.DB, reg *model.Registration) error
	Update(ctx context.Context, tx *gorm.DB, reg *model.Registration) error
}

type gormRegistrationRepository struct {
	registrations Table[model.Registration]
}

func NewGormRegistrationRepository() RegistrationRepository {
	return &gormRegistrationRepository{
		registrations: NewTable[model.Registration]("registrations", "registration_id"),
	}
}

func (r *gormRegistrationRepository) Find(ctx context.Context, db *gorm.DB, userID, courseID uuid.UUID) (*model.Registration, error) {
	reg, err := r.registrations.GetFirst(ctx, db, "", "user_id = ? AND course_id = ?", userID, courseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormRegistrationRepository.Find: %w", err)
	}
	return reg, nil
}

func (r *gormRegistrationRepository) Create(ctx context.Context, tx *gorm.DB, reg *model.Registration) error {
	if reg.RegistrationID == uuid.Nil {
		reg.RegistrationID = uuid.New()
	}
	if reg.Role == "" {
		reg.Role = "participant"
	}
	if err := r.registrations.Insert(ctx, tx, reg); err != nil {
		if errors.Is(err, model.ErrConflict) {
			middleware.GetLogger(ctx).Warn("Registration already exists", "user_id", reg.UserID.String(), "course_id", reg.CourseID.String())
			return model.ErrConflict
		}
		return fmt.Errorf("gormRegistrationRepository.Create: %w", err)
	}
	return nil
}

func (r *gormRegistrationRepository) Update(ctx context.Context, tx *gorm.DB, reg *model.Registration) error {
	result := tx.WithContext(ctx).Save(reg)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error updating registration in DB", "error", result.Error, "registration_id", reg.RegistrationID.String())
		return fmt.Errorf("gormRegistrationRepository.Update: %w", result.Error)
	}
	return nil
}
