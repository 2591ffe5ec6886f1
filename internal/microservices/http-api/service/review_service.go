package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"codelens/internal/llm"
	"codelens/internal/logger"
	"codelens/internal/metrics"
	"codelens/internal/microservices/http-api/dto"
	"codelens/internal/microservices/http-api/models"
	"codelens/internal/microservices/http-api/repository"
	"codelens/internal/shared"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var (
	ErrInvalidInput = errors.New("invalid review input")
	ErrReviewFailed = errors.New("failed to review code")
)

// ReviewService runs code reviews and serves the caller's review history.
// The session is always passed in; a nil session means an anonymous caller.
type ReviewService interface {
	ReviewCode(ctx context.Context, session *shared.Session, code, language string) (*dto.ReviewResponse, error)
	ListReviews(ctx context.Context, session *shared.Session) ([]dto.ReviewSummary, error)
	GetReview(ctx context.Context, session *shared.Session, id string) (*dto.ReviewDetail, error)
	DashboardStats(ctx context.Context, session *shared.Session) (*dto.DashboardStats, error)
	ProfileStats(ctx context.Context, session *shared.Session) (*dto.ProfileStats, error)
}

type reviewService struct {
	reviewer llm.Reviewer
	repo     repository.ReviewRepository // nil disables persistence and history
}

func NewReviewService(reviewer llm.Reviewer, repo repository.ReviewRepository) ReviewService {
	return &reviewService{reviewer: reviewer, repo: repo}
}

func (s *reviewService) ReviewCode(ctx context.Context, session *shared.Session, code, language string) (*dto.ReviewResponse, error) {
	log := logger.FromContext(ctx)
	language = strings.ToLower(strings.TrimSpace(language))

	if strings.TrimSpace(code) == "" {
		metrics.ObserveReview(language, "invalid")
		return nil, fmt.Errorf("%w: code must not be empty", ErrInvalidInput)
	}
	if !shared.IsSupportedLanguage(language) {
		metrics.ObserveReview(language, "invalid")
		return nil, fmt.Errorf("%w: unsupported language %q", ErrInvalidInput, language)
	}

	start := time.Now()
	feedback, err := s.reviewer.Review(ctx, code, language)
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			metrics.ObserveReview(language, "unconfigured")
			log.Error("review requested without a Gemini API key")
			return nil, err
		}
		metrics.ObserveLLM("error", time.Since(start))
		metrics.ObserveReview(language, "failed")
		log.Error("review failed", "language", language, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrReviewFailed, err)
	}
	metrics.ObserveLLM("ok", time.Since(start))
	metrics.ObserveReview(language, "ok")
	metrics.ObserveScore(feedback.Score)

	if session != nil && s.repo != nil {
		s.persist(ctx, session, code, language, feedback)
	}

	return &dto.ReviewResponse{
		Score:            feedback.Score,
		SyntaxErrors:     feedback.SyntaxErrors,
		LogicFlaws:       feedback.LogicFlaws,
		OptimizationTips: feedback.OptimizationTips,
	}, nil
}

// persist stores the review. Failures are logged and counted but never
// reach the caller, who still gets the feedback.
func (s *reviewService) persist(ctx context.Context, session *shared.Session, code, language string, feedback *llm.Feedback) {
	review := &models.Review{
		UserID:           session.UserID,
		CodeSnippet:      code,
		Language:         language,
		Score:            feedback.Score,
		SyntaxErrors:     datatypes.JSONSlice[string](feedback.SyntaxErrors),
		LogicFlaws:       datatypes.JSONSlice[string](feedback.LogicFlaws),
		OptimizationTips: datatypes.JSONSlice[string](feedback.OptimizationTips),
	}
	if err := s.repo.Create(ctx, review); err != nil {
		metrics.PersistFailed()
		logger.FromContext(ctx).Error("failed to save review", "user_id", session.UserID, "error", err)
		return
	}
	logger.FromContext(ctx).Debug("review saved", "review_id", review.ID, "user_id", session.UserID)
}

// history returns the session user's reviews, newest first. Without a
// repository every user has an empty history.
func (s *reviewService) history(ctx context.Context, session *shared.Session) ([]models.Review, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.ListByUser(ctx, session.UserID)
}

func (s *reviewService) ListReviews(ctx context.Context, session *shared.Session) ([]dto.ReviewSummary, error) {
	reviews, err := s.history(ctx, session)
	if err != nil {
		return nil, err
	}
	summaries := make([]dto.ReviewSummary, 0, len(reviews))
	for i := range reviews {
		summaries = append(summaries, toSummary(&reviews[i]))
	}
	return summaries, nil
}

func (s *reviewService) GetReview(ctx context.Context, session *shared.Session, id string) (*dto.ReviewDetail, error) {
	// postgres rejects malformed uuids with a syntax error; treat them as missing
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrReviewNotFound
	}
	if s.repo == nil {
		return nil, repository.ErrReviewNotFound
	}
	review, err := s.repo.GetByIDForUser(ctx, id, session.UserID)
	if err != nil {
		return nil, err
	}
	return toDetail(review), nil
}

func (s *reviewService) DashboardStats(ctx context.Context, session *shared.Session) (*dto.DashboardStats, error) {
	reviews, err := s.history(ctx, session)
	if err != nil {
		return nil, err
	}
	stats := ComputeDashboardStats(reviews)
	return &stats, nil
}

func (s *reviewService) ProfileStats(ctx context.Context, session *shared.Session) (*dto.ProfileStats, error) {
	reviews, err := s.history(ctx, session)
	if err != nil {
		return nil, err
	}
	stats := ComputeProfileStats(reviews)
	return &stats, nil
}
