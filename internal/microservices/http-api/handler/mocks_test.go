package handler

import (
	"context"
	"io"
	"log/slog"

	"codelens/internal/microservices/http-api/dto"
	"codelens/internal/microservices/http-api/models"
	"codelens/internal/microservices/http-api/service"
	"codelens/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) authResult(args mock.Arguments) (*service.AuthResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) SignUp(ctx context.Context, email, password string) (*service.AuthResult, error) {
	return m.authResult(m.Called(email, password))
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*service.AuthResult, error) {
	return m.authResult(m.Called(email, password))
}

func (m *MockAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*service.AuthResult, error) {
	return m.authResult(m.Called(refreshToken))
}

func (m *MockAuthService) ValidateToken(ctx context.Context, tokenString string) (*shared.Session, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Session), args.Error(1)
}

func (m *MockAuthService) SignOut(ctx context.Context, session *shared.Session) error {
	return m.Called(session).Error(0)
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	return m.Called(email).Error(0)
}

func (m *MockAuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	return m.Called(token, newPassword).Error(0)
}

func (m *MockAuthService) UpdateCredentials(ctx context.Context, session *shared.Session, email, password string) error {
	return m.Called(session, email, password).Error(0)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, session *shared.Session) (*models.User, error) {
	args := m.Called(session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockReviewService mocks the ReviewService interface
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) ReviewCode(ctx context.Context, session *shared.Session, code, language string) (*dto.ReviewResponse, error) {
	args := m.Called(session, code, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) ListReviews(ctx context.Context, session *shared.Session) ([]dto.ReviewSummary, error) {
	args := m.Called(session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.ReviewSummary), args.Error(1)
}

func (m *MockReviewService) GetReview(ctx context.Context, session *shared.Session, id string) (*dto.ReviewDetail, error) {
	args := m.Called(session, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewDetail), args.Error(1)
}

func (m *MockReviewService) DashboardStats(ctx context.Context, session *shared.Session) (*dto.DashboardStats, error) {
	args := m.Called(session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DashboardStats), args.Error(1)
}

func (m *MockReviewService) ProfileStats(ctx context.Context, session *shared.Session) (*dto.ProfileStats, error) {
	args := m.Called(session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ProfileStats), args.Error(1)
}

var (
	aliceSession = &shared.Session{UserID: "alice-id", Email: "alice@example.com", TokenID: "jti-a"}
	bobSession   = &shared.Session{UserID: "bob-id", Email: "bob@example.com", TokenID: "jti-b"}
)

// newTestRouter wires the real router around mocks. "alice-token" and
// "bob-token" authenticate; every other token is rejected.
func newTestRouter() (*gin.Engine, *MockAuthService, *MockReviewService) {
	gin.SetMode(gin.TestMode)
	authSvc := new(MockAuthService)
	reviewSvc := new(MockReviewService)

	authSvc.On("ValidateToken", "alice-token").Return(aliceSession, nil).Maybe()
	authSvc.On("ValidateToken", "bob-token").Return(bobSession, nil).Maybe()
	authSvc.On("ValidateToken", mock.Anything).Return(nil, service.ErrInvalidToken).Maybe()

	router := NewRouter(RouterConfig{
		AuthService:     authSvc,
		ReviewService:   reviewSvc,
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		ReviewRateLimit: 100,
		ReviewRateBurst: 100,
	})
	return router, authSvc, reviewSvc
}
