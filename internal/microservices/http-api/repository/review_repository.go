package repository

import (
	"context"
	"errors"
	"fmt"

	"codelens/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

var ErrReviewNotFound = errors.New("review not found")

// ReviewRepository is the persistence gateway for reviews. Every read is
// scoped to the requesting user inside the query itself.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	ListByUser(ctx context.Context, userID string) ([]models.Review, error)
	GetByIDForUser(ctx context.Context, id, userID string) (*models.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts a review; id and created_at are filled in by the store
func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// ListByUser returns the user's reviews, newest first
func (r *reviewRepository) ListByUser(ctx context.Context, userID string) ([]models.Review, error) {
	reviews := []models.Review{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// GetByIDForUser fetches one review owned by userID. A review owned by
// someone else is indistinguishable from a missing one.
func (r *reviewRepository) GetByIDForUser(ctx context.Context, id, userID string) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return &review, nil
}
