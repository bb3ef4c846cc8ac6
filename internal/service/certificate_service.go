package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"course_hub/internal/config"
	"course_hub/internal/middleware"
	"course_hub/internal/model"
	"course_hub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockery --name CertificateService --output ./mocks --outpkg mocks --case=underscore
type CertificateService interface {
	// RequestCertificate は進捗が閾値以上なら修了証を発行済みにします。
	// 発行済みなら同じ修了証を返し、メールは再送しません。
	RequestCertificate(ctx context.Context, userID uuid.UUID, slug string) (*model.CertificateResponse, error)
}

type certificateService struct {
	db               *gorm.DB
	contentRepo      repository.ContentRepository
	registrationRepo repository.RegistrationRepository
	userRepo         repository.UserRepository
	progress         ProgressService
	mailer           Mailer
	cfg              *config.Config
	now              func() time.Time
}

func NewCertificateService(
	db *gorm.DB,
	contentRepo repository.ContentRepository,
	registrationRepo repository.RegistrationRepository,
	userRepo repository.UserRepository,
	progress ProgressService,
	mailer Mailer,
	cfg *config.Config,
) CertificateService {
	return &certificateService{
		db:               db,
		contentRepo:      contentRepo,
		registrationRepo: registrationRepo,
		userRepo:         userRepo,
		progress:         progress,
		mailer:           mailer,
		cfg:              cfg,
		now:              time.Now,
	}
}

func (s *certificateService) RequestCertificate(ctx context.Context, userID uuid.UUID, slug string) (*model.CertificateResponse, error) {
	logger := middleware.GetLogger(ctx).With("course_slug", slug)

	// 反映前の楽観的な値で判定しないようキャッシュを通さない
	snap, err := s.progress.ComputeCourseProgress(ctx, userID, slug)
	if err != nil {
		return nil, err
	}
	if !reachesThreshold(snap, s.cfg.App.CertificateThreshold) {
		logger.Info("Certificate requested below threshold", "percentage", snap.Percentage, "threshold", s.cfg.App.CertificateThreshold)
		return nil, model.NewAppError(
			"PROGRESS_BELOW_THRESHOLD",
			fmt.Sprintf("修了証の申請には進捗%d%%以上が必要です (現在%d%%)。", s.cfg.App.CertificateThreshold, snap.Percentage),
			"",
			model.ErrInvalidInput,
		)
	}

	course, err := s.contentRepo.FindCourseBySlug(ctx, s.db, slug)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("COURSE_NOT_FOUND", "コースが見つかりません。", "course_slug", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
	}

	var reg *model.Registration
	issued := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := s.registrationRepo.Find(ctx, tx, userID, course.CourseID)
		switch {
		case errors.Is(err, model.ErrNotFound):
			found = &model.Registration{UserID: userID, CourseID: course.CourseID}
			if err := s.registrationRepo.Create(ctx, tx, found); err != nil {
				return err
			}
		case err != nil:
			return err
		}
		reg = found

		if reg.CertificateID != nil {
			return nil
		}
		now := s.now()
		certID := "CH-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
		reg.CertificateID = &certID
		reg.CertificateRequestedAt = &now
		issued = true
		return s.registrationRepo.Update(ctx, tx, reg)
	})
	if err != nil {
		logger.Error("Failed to record certificate request", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "修了証の申請に失敗しました。", "", err)
	}

	resp := &model.CertificateResponse{
		CourseSlug:    slug,
		CertificateID: *reg.CertificateID,
		Percentage:    snap.Percentage,
	}
	if reg.CertificateRequestedAt != nil {
		resp.RequestedAt = *reg.CertificateRequestedAt
	}

	if issued {
		logger.Info("Certificate issued", "certificate_id", resp.CertificateID)
		s.notify(ctx, userID, course, resp)
	}
	return resp, nil
}

// reachesThreshold は完了数が総数の threshold% 以上かを判定します。
// 四捨五入した Percentage では 199/200 が 100% になるので使わない。
func reachesThreshold(snap *model.CourseProgress, threshold int) bool {
	if snap.TotalCount == 0 {
		return false
	}
	return snap.CompletedCount*100 >= threshold*snap.TotalCount
}

// notify は受講者と管理者へ通知します。送信失敗は申請自体を失敗させません。
func (s *certificateService) notify(ctx context.Context, userID uuid.UUID, course *model.Course, cert *model.CertificateResponse) {
	logger := middleware.GetLogger(ctx)

	user, err := s.userRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		logger.Warn("Certificate mail skipped: user not found", "error", err)
		return
	}

	subject := fmt.Sprintf("【%s】修了証の申請を受け付けました", s.cfg.App.Name)
	body := fmt.Sprintf(
		"%s さん\n\n「%s」の修了証の申請を受け付けました。\n修了証番号: %s\n\n%s/courses/%s",
		user.Name, course.Title, cert.CertificateID, s.cfg.App.FrontendURL, course.Slug,
	)
	if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
		logger.Error("Failed to send certificate mail", "error", err, "to", user.Email)
	}

	if admin := s.cfg.Mailer.AdminAddress; admin != "" {
		adminBody := fmt.Sprintf("%s <%s> が「%s」の修了証を申請しました (%s)。", user.Name, user.Email, course.Title, cert.CertificateID)
		if err := s.mailer.Send(ctx, admin, subject, adminBody); err != nil {
			logger.Error("Failed to send certificate mail to admin", "error", err)
		}
	}
}
