package service

import (
	"math"

	"codelens/internal/microservices/http-api/dto"
	"codelens/internal/microservices/http-api/models"
)

// Grades shown next to a score.
const (
	GradeGood = "good"
	GradeOK   = "ok"
	GradePoor = "poor"
)

func Grade(score int) string {
	switch {
	case score >= 80:
		return GradeGood
	case score >= 50:
		return GradeOK
	default:
		return GradePoor
	}
}

// ComputeDashboardStats sums over the given rows; nothing is cached.
func ComputeDashboardStats(reviews []models.Review) dto.DashboardStats {
	stats := dto.DashboardStats{TotalReviews: len(reviews)}
	sum := 0
	for i := range reviews {
		sum += reviews[i].Score
		stats.TotalIssues += reviews[i].IssueCount()
		stats.TotalTips += reviews[i].TipCount()
	}
	stats.AverageScore = averageScore(sum, len(reviews))
	return stats
}

func ComputeProfileStats(reviews []models.Review) dto.ProfileStats {
	sum := 0
	for i := range reviews {
		sum += reviews[i].Score
	}
	return dto.ProfileStats{Total: len(reviews), AvgScore: averageScore(sum, len(reviews))}
}

// ComputeMetrics derives the radar values of a single review.
func ComputeMetrics(r *models.Review) dto.ReviewMetrics {
	syntax, logic, tips := len(r.SyntaxErrors), len(r.LogicFlaws), len(r.OptimizationTips)

	bestPractices := 60
	if r.Score > 80 {
		bestPractices = 95
	}

	return dto.ReviewMetrics{
		SyntaxHealth:      max(0, 100-15*syntax),
		LogicalSoundness:  max(0, 100-20*logic),
		OptimizationLevel: min(100, 50+10*tips),
		BestPractices:     bestPractices,
		Breakdown: dto.IssueBreakdown{
			Errors: syntax,
			Flaws:  logic,
			Tips:   tips,
		},
	}
}

func averageScore(sum, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}

func toSummary(r *models.Review) dto.ReviewSummary {
	return dto.ReviewSummary{
		ID:         r.ID,
		Language:   r.Language,
		Score:      r.Score,
		Grade:      Grade(r.Score),
		IssueCount: r.IssueCount(),
		TipCount:   r.TipCount(),
		CreatedAt:  r.CreatedAt,
	}
}

func toDetail(r *models.Review) *dto.ReviewDetail {
	return &dto.ReviewDetail{
		ID:               r.ID,
		CodeSnippet:      r.CodeSnippet,
		Language:         r.Language,
		Score:            r.Score,
		Grade:            Grade(r.Score),
		SyntaxErrors:     nonNilList(r.SyntaxErrors),
		LogicFlaws:       nonNilList(r.LogicFlaws),
		OptimizationTips: nonNilList(r.OptimizationTips),
		CreatedAt:        r.CreatedAt,
		Metrics:          ComputeMetrics(r),
	}
}

func nonNilList(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
