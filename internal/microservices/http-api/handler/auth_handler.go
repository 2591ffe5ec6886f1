package handler

import (
	"net/http"

	"codelens/internal/microservices/http-api/dto"
	"codelens/internal/microservices/http-api/middleware"
	"codelens/internal/microservices/http-api/models"
	"codelens/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

const (
	msgResetSent          = "Password reset link sent to your email."
	msgPasswordReset      = "Password updated successfully."
	msgCredentialsUpdated = "Profile security credentials updated successfully."
	msgSignedOut          = "Signed out."
)

// AuthHandler serves both API clients (JSON) and plain HTML form posts.
// Form posts get a session cookie and a redirect instead of a JSON body.
type AuthHandler struct {
	authService  service.AuthService
	cookieSecure bool
}

func NewAuthHandler(authService service.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{authService: authService, cookieSecure: cookieSecure}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.authService.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respondWithSession(c, http.StatusCreated, result)
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respondWithSession(c, http.StatusOK, result)
}

// Refresh rotates both tokens.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.authService.RefreshAccessToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAuthResponse(result))
}

func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: msgResetSent})
}

func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req dto.ConfirmResetRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.authService.ConfirmPasswordReset(c.Request.Context(), req.Token, req.Password); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: msgPasswordReset})
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.authService.SignOut(c.Request.Context(), middleware.SessionFrom(c)); err != nil {
		writeError(c, err)
		return
	}

	h.clearSessionCookie(c)
	if isFormPost(c) {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: msgSignedOut})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.CurrentUser(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *AuthHandler) UpdateCredentials(c *gin.Context) {
	var req dto.UpdateCredentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	err := h.authService.UpdateCredentials(c.Request.Context(), middleware.SessionFrom(c), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: msgCredentialsUpdated})
}

func (h *AuthHandler) respondWithSession(c *gin.Context, status int, result *service.AuthResult) {
	if isFormPost(c) {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(middleware.SessionCookie, result.AccessToken, int(result.ExpiresIn), "/", "", h.cookieSecure, true)
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	c.JSON(status, toAuthResponse(result))
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.cookieSecure, true)
}

func isFormPost(c *gin.Context) bool {
	switch c.ContentType() {
	case gin.MIMEPOSTForm, gin.MIMEMultipartPOSTForm:
		return true
	}
	return false
}

func toAuthResponse(result *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    result.ExpiresIn,
		User:         toUserResponse(result.User),
	}
}

func toUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		LastLogin: user.LastLogin,
	}
}
