package model

import (
	"time"

	"github.com/google/uuid"
)

// Registration はユーザーのコース登録。修了証の申請状態もここに持つ
type Registration struct {
	RegistrationID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"registration_id"`
	UserID                 uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_course" json:"user_id"`
	CourseID               uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_course" json:"course_id"`
	Role                   string     `gorm:"not null;default:'participant'" json:"role"`
	CertificateRequestedAt *time.Time `json:"certificate_requested_at,omitempty"`
	CertificateID          *string    `json:"certificate_id,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

func (Registration) TableName() string {
	return "registrations"
}

type CertificateResponse struct {
	CourseSlug    string    `json:"course_slug"`
	CertificateID string    `json:"certificate_id"`
	RequestedAt   time.Time `json:"requested_at"`
	Percentage    int       `json:"percentage"`
}
