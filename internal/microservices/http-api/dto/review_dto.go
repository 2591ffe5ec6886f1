package dto

import "time"

// ReviewRequest: code submitted for review
type ReviewRequest struct {
	Code     string `json:"code" binding:"required"`
	Language string `json:"language" binding:"required"`
}

// ReviewResponse is the structured feedback returned for one submission.
type ReviewResponse struct {
	Score            int      `json:"score"`
	SyntaxErrors     []string `json:"syntax_errors"`
	LogicFlaws       []string `json:"logic_flaws"`
	OptimizationTips []string `json:"optimization_tips"`
}

// ReviewSummary is one history row.
type ReviewSummary struct {
	ID         string    `json:"id"`
	Language   string    `json:"language"`
	Score      int       `json:"score"`
	Grade      string    `json:"grade"`
	IssueCount int       `json:"issue_count"`
	TipCount   int       `json:"tip_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type ReviewListResponse struct {
	Reviews []ReviewSummary `json:"reviews"`
	Total   int             `json:"total"`
}

// ReviewMetrics are display values derived from a stored review.
type ReviewMetrics struct {
	SyntaxHealth      int            `json:"syntax_health"`
	LogicalSoundness  int            `json:"logical_soundness"`
	OptimizationLevel int            `json:"optimization_level"`
	BestPractices     int            `json:"best_practices"`
	Breakdown         IssueBreakdown `json:"breakdown"`
}

type IssueBreakdown struct {
	Errors int `json:"errors"`
	Flaws  int `json:"flaws"`
	Tips   int `json:"tips"`
}

// ReviewDetail is a stored review with its derived metrics.
type ReviewDetail struct {
	ID               string        `json:"id"`
	CodeSnippet      string        `json:"code_snippet"`
	Language         string        `json:"language"`
	Score            int           `json:"score"`
	Grade            string        `json:"grade"`
	SyntaxErrors     []string      `json:"syntax_errors"`
	LogicFlaws       []string      `json:"logic_flaws"`
	OptimizationTips []string      `json:"optimization_tips"`
	CreatedAt        time.Time     `json:"created_at"`
	Metrics          ReviewMetrics `json:"metrics"`
}

type DashboardStats struct {
	TotalReviews int `json:"total_reviews"`
	AverageScore int `json:"average_score"`
	TotalIssues  int `json:"total_issues"`
	TotalTips    int `json:"total_tips"`
}

type ProfileStats struct {
	Total    int `json:"total"`
	AvgScore int `json:"avg_score"`
}

type ProfileResponse struct {
	User  UserResponse `json:"user"`
	Stats ProfileStats `json:"stats"`
}

type LanguageResponse struct {
	Tag         string `json:"tag"`
	DisplayName string `json:"display_name"`
	Template    string `json:"template"`
}
