package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"course_hub/internal/config"
	"course_hub/internal/middleware"
	"course_hub/internal/model"
	"course_hub/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockery --name AuthService --output ./mocks --outpkg mocks --case=underscore
type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error)
	// Refresh は有効なトークンを持つユーザーに新しいトークンを発行します。
	// sessionStart はログイン時刻 (不明ならゼロ値) で、refresh_window を超えていたら拒否します。
	Refresh(ctx context.Context, userID uuid.UUID, sessionStart time.Time) (*model.TokenResponse, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

type authService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	cfg      *config.Config
	now      func() time.Time
}

// NewAuthService は AuthService の新しいインスタンスを生成します
func NewAuthService(db *gorm.DB, userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{db: db, userRepo: userRepo, cfg: cfg, now: time.Now}
}

// Register は新しいユーザーを登録します。メール確認は行わず、登録直後から有効です。
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	logger := middleware.GetLogger(ctx)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var newUser *model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := s.userRepo.FindByEmail(ctx, tx, email)
		if err == nil {
			logger.Warn("Email already exists", "email", email)
			return model.NewAppError("DUPLICATE_EMAIL", "このメールアドレスは既に使用されています。", "email", model.ErrConflict)
		}
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to check email existence", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("Failed to hash password", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "パスワードの処理中にエラーが発生しました。", "", err)
		}

		user := &model.User{
			UserID:       uuid.New(),
			Name:         strings.TrimSpace(req.Name),
			Email:        email,
			PasswordHash: string(hashedPassword),
			IsActive:     true,
		}
		if err := s.userRepo.Create(ctx, tx, user); err != nil {
			// 同時登録で一意制約に引っかかった場合
			if errors.Is(err, model.ErrConflict) {
				return model.NewAppError("DUPLICATE_EMAIL", "このメールアドレスは既に使用されています。", "email", model.ErrConflict)
			}
			logger.Error("Failed to create user in DB", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "ユーザーの作成に失敗しました。", "", err)
		}
		newUser = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("User registered", "user_id", newUser.UserID, "email", newUser.Email)
	return newUser, nil
}

// Login はユーザーを認証し、JWTを返します
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	logger := middleware.GetLogger(ctx).With("email", email)

	user, err := s.userRepo.FindByEmail(ctx, s.db, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Login failed: user not found")
			return nil, model.NewAppError("AUTHENTICATION_FAILED", "メールアドレスまたはパスワードが正しくありません。", "", model.ErrUnauthorized)
		}
		logger.Error("Login failed: db error on FindByEmail", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Warn("Login failed: password mismatch", "user_id", user.UserID)
		return nil, model.NewAppError("AUTHENTICATION_FAILED", "メールアドレスまたはパスワードが正しくありません。", "", model.ErrUnauthorized)
	}

	if !user.IsActive {
		logger.Warn("Login failed: account not active", "user_id", user.UserID)
		return nil, model.NewAppError("ACCOUNT_NOT_ACTIVE", "アカウントが無効になっています。", "", model.ErrForbidden)
	}

	resp, err := s.issueToken(user, s.now())
	if err != nil {
		logger.Error("Failed to sign JWT", "error", err, "user_id", user.UserID)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "トークンの生成に失敗しました。", "", err)
	}

	logger.Info("Login successful", "user_id", user.UserID)
	return resp, nil
}

func (s *authService) Refresh(ctx context.Context, userID uuid.UUID, sessionStart time.Time) (*model.TokenResponse, error) {
	logger := middleware.GetLogger(ctx)
	now := s.now()

	if sessionStart.IsZero() {
		sessionStart = now
	}
	if now.Sub(sessionStart) > s.cfg.JWT.RefreshWindow {
		logger.Warn("Refresh rejected: session too old", "user_id", userID, "session_start", sessionStart)
		return nil, model.NewAppError("SESSION_EXPIRED", "再度ログインしてください。", "", model.ErrUnauthorized)
	}

	user, err := s.userRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("UNAUTHORIZED", "ユーザーが見つかりません。", "", model.ErrUnauthorized)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}
	if !user.IsActive {
		return nil, model.NewAppError("ACCOUNT_NOT_ACTIVE", "アカウントが無効になっています。", "", model.ErrForbidden)
	}

	resp, err := s.issueToken(user, sessionStart)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "トークンの生成に失敗しました。", "", err)
	}
	logger.Debug("Token refreshed", "user_id", userID, "expires_at", resp.ExpiresAt)
	return resp, nil
}

// GetUser は指定されたIDのユーザーを取得します
func (s *authService) GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
		}
		middleware.GetLogger(ctx).Error("Error finding user by ID", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}
	return user, nil
}

func (s *authService) issueToken(user *model.User, sessionStart time.Time) (*model.TokenResponse, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.JWT.AccessTokenTTL)
	claims := &model.JWTCustomClaims{
		Email:        user.Email,
		IsAdmin:      user.IsAdmin,
		SessionStart: jwt.NewNumericDate(sessionStart),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.App.Name,
			Subject:   user.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return nil, err
	}
	return &model.TokenResponse{
		AccessToken: signed,
		Email:       user.Email,
		ExpiresAt:   expiresAt.Truncate(time.Second),
	}, nil
}
