package service_test // 公開 API だけをテストする

import (
	"context"
	"testing"
	"time"

	"course_hub/internal/config"
	"course_hub/internal/middleware"
	"course_hub/internal/model"
	"course_hub/internal/repository/mocks"
	"course_hub/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type AuthServiceTestSuite struct {
	suite.Suite

	mockUserRepo *mocks.UserRepository
	cfg          *config.Config
	authService  service.AuthService
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.mockUserRepo = mocks.NewUserRepository(s.T())

	s.cfg = &config.Config{
		App: config.AppConfig{Name: "Course Hub", FrontendURL: "http://localhost:3000"},
		JWT: config.JWTConfig{
			SecretKey:      "test-secret",
			AccessTokenTTL: 15 * time.Minute,
			RefreshWindow:  24 * time.Hour,
		},
	}

	// Register はトランザクションを張るので形だけの DB を渡す
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)

	s.authService = service.NewAuthService(db, s.mockUserRepo, s.cfg)
}

func TestAuthService(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) TestRegister() {
	ctx := context.Background()

	s.Run("正常系: メールアドレスを正規化して登録", func() {
		s.SetupTest()
		s.mockUserRepo.On("FindByEmail", mock.Anything, mock.Anything, "ada@example.com").Return(nil, model.ErrNotFound).Once()
		s.mockUserRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "ada@example.com" && u.IsActive && u.PasswordHash != "password123"
		})).Return(nil).Once()

		user, err := s.authService.Register(ctx, &model.RegisterRequest{Name: " Ada ", Email: " Ada@Example.com", Password: "password123"})
		s.Require().NoError(err)
		s.Equal("Ada", user.Name)
		s.NoError(bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	})

	s.Run("異常系: メールアドレス重複", func() {
		s.SetupTest()
		s.mockUserRepo.On("FindByEmail", mock.Anything, mock.Anything, "ada@example.com").Return(&model.User{}, nil).Once()

		_, err := s.authService.Register(ctx, &model.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "password123"})
		s.ErrorIs(err, model.ErrConflict)
	})
}

func (s *AuthServiceTestSuite) TestLoginAndRefresh() {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	s.Require().NoError(err)
	user := &model.User{UserID: uuid.New(), Name: "Ada", Email: "ada@example.com", PasswordHash: string(hash), IsActive: true, IsAdmin: true}

	s.Run("正常系: ログインでトークンを発行", func() {
		s.SetupTest()
		s.mockUserRepo.On("FindByEmail", mock.Anything, mock.Anything, "ada@example.com").Return(user, nil).Once()

		resp, err := s.authService.Login(ctx, &model.LoginRequest{Email: "ada@example.com", Password: "password123"})
		s.Require().NoError(err)
		s.Equal("ada@example.com", resp.Email)
		s.WithinDuration(time.Now().Add(15*time.Minute), resp.ExpiresAt, 2*time.Second)

		claims, err := middleware.ParseToken(resp.AccessToken, "test-secret")
		s.Require().NoError(err)
		s.Equal(user.UserID.String(), claims.Subject)
		s.True(claims.IsAdmin)
		s.NotNil(claims.SessionStart)
	})

	s.Run("異常系: パスワード不一致は 401 相当", func() {
		s.SetupTest()
		s.mockUserRepo.On("FindByEmail", mock.Anything, mock.Anything, "ada@example.com").Return(user, nil).Once()

		_, err := s.authService.Login(ctx, &model.LoginRequest{Email: "ada@example.com", Password: "wrong-password"})
		s.ErrorIs(err, model.ErrUnauthorized)
	})

	s.Run("正常系: リフレッシュはセッション開始時刻を引き継ぐ", func() {
		s.SetupTest()
		s.mockUserRepo.On("FindByID", mock.Anything, mock.Anything, user.UserID).Return(user, nil).Once()
		start := time.Now().Add(-2 * time.Hour).Truncate(time.Second)

		resp, err := s.authService.Refresh(ctx, user.UserID, start)
		s.Require().NoError(err)

		claims, err := middleware.ParseToken(resp.AccessToken, "test-secret")
		s.Require().NoError(err)
		s.Equal(start.Unix(), claims.SessionStart.Unix())
	})

	s.Run("異常系: リフレッシュ可能期間を過ぎたら再ログイン", func() {
		s.SetupTest()
		_, err := s.authService.Refresh(ctx, user.UserID, time.Now().Add(-25*time.Hour))
		s.ErrorIs(err, model.ErrUnauthorized)
	})

	s.Run("異常系: 無効化されたユーザー", func() {
		s.SetupTest()
		inactive := *user
		inactive.IsActive = false
		s.mockUserRepo.On("FindByID", mock.Anything, mock.Anything, user.UserID).Return(&inactive, nil).Once()

		_, err := s.authService.Refresh(ctx, user.UserID, time.Time{})
		s.ErrorIs(err, model.ErrForbidden)
	})
}
