package handler

import (
	"net/http"

	"codelens/internal/microservices/http-api/dto"
	"codelens/internal/microservices/http-api/middleware"
	"codelens/internal/microservices/http-api/service"
	"codelens/internal/shared"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService service.ReviewService
	authService   service.AuthService
}

func NewReviewHandler(reviewService service.ReviewService, authService service.AuthService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, authService: authService}
}

// Submit reviews code for signed-in and anonymous callers alike; only
// signed-in reviews are saved.
func (h *ReviewHandler) Submit(c *gin.Context) {
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := h.reviewService.ReviewCode(c.Request.Context(), middleware.SessionFrom(c), req.Code, req.Language)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReviewHandler) List(c *gin.Context) {
	reviews, err := h.reviewService.ListReviews(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReviewListResponse{Reviews: reviews, Total: len(reviews)})
}

func (h *ReviewHandler) Get(c *gin.Context) {
	review, err := h.reviewService.GetReview(c.Request.Context(), middleware.SessionFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) DashboardStats(c *gin.Context) {
	stats, err := h.reviewService.DashboardStats(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *ReviewHandler) Profile(c *gin.Context) {
	session := middleware.SessionFrom(c)

	user, err := h.authService.CurrentUser(c.Request.Context(), session)
	if err != nil {
		writeError(c, err)
		return
	}
	stats, err := h.reviewService.ProfileStats(c.Request.Context(), session)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{User: toUserResponse(user), Stats: *stats})
}

// Languages lists the supported languages with their starter templates.
func Languages(c *gin.Context) {
	out := make([]dto.LanguageResponse, 0, len(shared.Languages))
	for _, l := range shared.Languages {
		out = append(out, dto.LanguageResponse{Tag: l.Tag, DisplayName: l.DisplayName, Template: l.Template})
	}
	c.JSON(http.StatusOK, out)
}
