package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Review is one stored code review. Rows are written once and never updated.
type Review struct {
	ID               string                      `gorm:"primaryKey;type:uuid" json:"id"`
	UserID           string                      `gorm:"type:uuid;not null;index:idx_reviews_user_created,priority:1" json:"user_id"`
	CodeSnippet      string                      `gorm:"type:text;not null" json:"code_snippet"`
	Language         string                      `gorm:"not null" json:"language"`
	Score            int                         `gorm:"not null;check:score >= 0 AND score <= 100" json:"score"`
	SyntaxErrors     datatypes.JSONSlice[string] `gorm:"not null" json:"syntax_errors"`
	LogicFlaws       datatypes.JSONSlice[string] `gorm:"not null" json:"logic_flaws"`
	OptimizationTips datatypes.JSONSlice[string] `gorm:"not null" json:"optimization_tips"`
	CreatedAt        time.Time                   `gorm:"autoCreateTime;index:idx_reviews_user_created,priority:2,sort:desc" json:"created_at"`
}

// BeforeCreate assigns the id and guarantees the list columns are arrays.
func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.SyntaxErrors == nil {
		r.SyntaxErrors = datatypes.JSONSlice[string]{}
	}
	if r.LogicFlaws == nil {
		r.LogicFlaws = datatypes.JSONSlice[string]{}
	}
	if r.OptimizationTips == nil {
		r.OptimizationTips = datatypes.JSONSlice[string]{}
	}
	return
}

// IssueCount is syntax errors plus logic flaws; recomputed, never stored.
func (r *Review) IssueCount() int {
	return len(r.SyntaxErrors) + len(r.LogicFlaws)
}

// TipCount is the number of optimization tips.
func (r *Review) TipCount() int {
	return len(r.OptimizationTips)
}

func (Review) TableName() string {
	return "reviews"
}
