package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"course_hub/internal/config"
	"course_hub/internal/model"
	"course_hub/internal/progress"
	"course_hub/internal/repository"
	"course_hub/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCertificateService_RequestCertificate(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		App:    config.AppConfig{Name: "Course Hub", FrontendURL: "http://localhost:3000", CertificateThreshold: 80},
		Mailer: config.MailerConfig{AdminAddress: "admin@example.com"},
	}

	setup := func(t *testing.T, completed, total int) (CertificateService, *mocks.Mailer, uuid.UUID) {
		db := setupTestDB(t)
		seedCourse(t, db)
		user := &model.User{UserID: uuid.New(), Name: "Ada", Email: "ada@example.com", PasswordHash: "x", IsActive: true}
		require.NoError(t, repository.NewGormUserRepository().Create(ctx, db, user))

		progressSvc := mocks.NewProgressService(t)
		progressSvc.On("ComputeCourseProgress", mock.Anything, user.UserID, "intro").
			Return(&model.CourseProgress{
				CourseSlug: "intro", CompletedCount: completed, TotalCount: total,
				Percentage: progress.Percentage(completed, total),
			}, nil)
		mailer := mocks.NewMailer(t)

		svc := NewCertificateService(db, repository.NewGormContentRepository(), repository.NewGormRegistrationRepository(),
			repository.NewGormUserRepository(), progressSvc, mailer, cfg)
		return svc, mailer, user.UserID
	}

	t.Run("異常系: 進捗が閾値未満", func(t *testing.T) {
		svc, _, userID := setup(t, 79, 100)

		_, err := svc.RequestCertificate(ctx, userID, "intro")
		require.ErrorIs(t, err, model.ErrInvalidInput)
		var appErr *model.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "PROGRESS_BELOW_THRESHOLD", appErr.Detail.Code)
	})

	t.Run("異常系: 四捨五入で閾値に届いても未完了があれば発行しない", func(t *testing.T) {
		full := *cfg
		full.App.CertificateThreshold = 100
		db := setupTestDB(t)
		seedCourse(t, db)
		userID := uuid.New()
		progressSvc := mocks.NewProgressService(t)
		progressSvc.On("ComputeCourseProgress", mock.Anything, userID, "intro").
			Return(&model.CourseProgress{CourseSlug: "intro", CompletedCount: 199, TotalCount: 200, Percentage: progress.Percentage(199, 200)}, nil)
		svc := NewCertificateService(db, repository.NewGormContentRepository(), repository.NewGormRegistrationRepository(),
			repository.NewGormUserRepository(), progressSvc, mocks.NewMailer(t), &full)

		_, err := svc.RequestCertificate(ctx, userID, "intro")
		require.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("異常系: 対象が無いコースは発行しない", func(t *testing.T) {
		svc, _, userID := setup(t, 0, 0)

		_, err := svc.RequestCertificate(ctx, userID, "intro")
		require.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("正常系: 初回は発行して受講者と管理者に通知", func(t *testing.T) {
		svc, mailer, userID := setup(t, 4, 5)
		mailer.On("Send", mock.Anything, "ada@example.com", mock.Anything, mock.MatchedBy(func(body string) bool {
			return strings.Contains(body, "修了証番号: CH-")
		})).Return(nil).Once()
		mailer.On("Send", mock.Anything, "admin@example.com", mock.Anything, mock.Anything).Return(nil).Once()

		cert, err := svc.RequestCertificate(ctx, userID, "intro")
		require.NoError(t, err)
		assert.Regexp(t, `^CH-[0-9A-F]{12}$`, cert.CertificateID)
		assert.Equal(t, 80, cert.Percentage)
		assert.False(t, cert.RequestedAt.IsZero())

		// 2回目は同じ番号を返し、メールは送らない
		again, err := svc.RequestCertificate(ctx, userID, "intro")
		require.NoError(t, err)
		assert.Equal(t, cert.CertificateID, again.CertificateID)
		mailer.AssertNumberOfCalls(t, "Send", 2)
	})

	t.Run("正常系: メール送信の失敗は申請を失敗させない", func(t *testing.T) {
		svc, mailer, userID := setup(t, 3, 3)
		mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down")).Twice()

		cert, err := svc.RequestCertificate(ctx, userID, "intro")
		require.NoError(t, err)
		assert.NotEmpty(t, cert.CertificateID)
	})
}

func TestAdminService(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewAdminService(db, repository.NewGormSyncRequestRepository())

	t.Run("正常系: 空のときは空配列", func(t *testing.T) {
		rows, err := svc.ListQueuedSyncs(ctx)
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	t.Run("正常系: 同期要求をキューに積む", func(t *testing.T) {
		admin := uuid.New()
		req, err := svc.RequestSync(ctx, admin)
		require.NoError(t, err)
		assert.Equal(t, model.SyncStatusQueued, req.Status)

		rows, err := svc.ListQueuedSyncs(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, admin, rows[0].RequestedBy)
	})
}
