package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"codelens/internal/microservices/http-api/dto"
	"codelens/internal/microservices/http-api/middleware"
	"codelens/internal/microservices/http-api/models"
	"codelens/internal/microservices/http-api/service"
	"codelens/internal/middleware/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func jsonRequest(method, path string, body any, token string) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func sampleAuthResult() *service.AuthResult {
	return &service.AuthResult{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresIn:    900,
		User:         &models.User{ID: "alice-id", Email: "alice@example.com"},
	}
}

func TestSignUp_JSON(t *testing.T) {
	router, authSvc, _ := newTestRouter()
	authSvc.On("SignUp", "alice@example.com", "password123").Return(sampleAuthResult(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/auth/signup", dto.SignUpRequest{Email: "alice@example.com", Password: "password123"}, ""))

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "access", resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "alice-id", resp.User.ID)
}

func TestSignUp_Validation(t *testing.T) {
	router, authSvc, _ := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/auth/signup", dto.SignUpRequest{Email: "not-an-email", Password: "password123"}, ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	authSvc.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
}

func TestSignUp_EmailInUse(t *testing.T) {
	router, authSvc, _ := newTestRouter()
	authSvc.On("SignUp", "alice@example.com", "password123").Return(nil, service.ErrEmailInUse)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/auth/signup", dto.SignUpRequest{Email: "alice@example.com", Password: "password123"}, ""))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"email already in use"}`, w.Body.String())
}

func TestSignIn_FormRedirects(t *testing.T) {
	router, authSvc, _ := newTestRouter()
	authSvc.On("SignIn", "alice@example.com", "password123").Return(sampleAuthResult(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, formRequest("/auth/login", url.Values{"email": {"alice@example.com"}, "password": {"password123"}}))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
	assert.Equal(t, "access", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	router, authSvc, _ := newTestRouter()
	authSvc.On("SignIn", "alice@example.com", "wrong").Return(nil, service.ErrInvalidCredentials)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/auth/login", dto.SignInRequest{Email: "alice@example.com", Password: "wrong"}, ""))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid login credentials"}`, w.Body.String())
}

func TestRefresh(t *testing.T) {
	router, authSvc, _ := newTestRouter()
	authSvc.On("RefreshAccessToken", "refresh").Return(sampleAuthResult(), nil)
	authSvc.On("RefreshAccessToken", "stale").Return(nil, service.ErrExpiredToken)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/auth/refresh", dto.RefreshTokenRequest{RefreshToken: "refresh"}, ""))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/auth/refresh", dto.RefreshTokenRequest{RefreshToken: "stale"}, ""))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestPasswordReset(t *testing.T) {
	router, authSvc, _ := newTestRouter()
	authSvc.On("RequestPasswordReset", "alice@example.com").Return(nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/auth/reset-password", dto.ResetPasswordRequest{Email: "alice@example.com"}, ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":"Password reset link sent to your email."}`, w.Body.String())
}

func TestRequestPasswordReset_ProviderError(t *testing.T) {
	router, authSvc, _ := newTestRouter()
	authSvc.On("RequestPasswordReset", "alice@example.com").Return(errors.New("smtp: 421 try later"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/auth/reset-password", dto.ResetPasswordRequest{Email: "alice@example.com"}, ""))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"error"`)
}

func TestConfirmPasswordReset(t *testing.T) {
	router, authSvc, _ := newTestRouter()
	authSvc.On("ConfirmPasswordReset", "good", "newpassword1").Return(nil)
	authSvc.On("ConfirmPasswordReset", "used", "newpassword1").Return(service.ErrInvalidResetToken)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, formRequest("/auth/reset-password/update", url.Values{"token": {"good"}, "password": {"newpassword1"}}))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/auth/reset-password/update", dto.ConfirmResetRequest{Token: "used", Password: "newpassword1"}, ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPasswordTooLong(t *testing.T) {
	router, authSvc, _ := newTestRouter()
	authSvc.On("ConfirmPasswordReset", "good", strings.Repeat("€", 25)).Return(auth.ErrPasswordTooLong)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/auth/signup", dto.SignUpRequest{Email: "alice@example.com", Password: strings.Repeat("a", 73)}, ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	authSvc.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)

	// within the rune limit but over bcrypt's byte limit
	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/auth/reset-password/update", dto.ConfirmResetRequest{Token: "good", Password: strings.Repeat("€", 25)}, ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"password must be at most 72 bytes"}`, w.Body.String())
}

func TestSignOut(t *testing.T) {
	router, authSvc, _ := newTestRouter()
	authSvc.On("SignOut", aliceSession).Return(nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/auth/logout", nil, "alice-token"))

	assert.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestSignOut_FormRedirectsToLogin(t *testing.T) {
	router, authSvc, _ := newTestRouter()
	authSvc.On("SignOut", aliceSession).Return(nil)

	req := formRequest("/auth/logout", url.Values{})
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "alice-token"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestSignOut_RequiresAuth(t *testing.T) {
	router, authSvc, _ := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/auth/logout", nil, ""))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	authSvc.AssertNotCalled(t, "SignOut", mock.Anything)
}

func TestMe(t *testing.T) {
	router, authSvc, _ := newTestRouter()
	authSvc.On("CurrentUser", aliceSession).Return(&models.User{ID: "alice-id", Email: "alice@example.com"}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodGet, "/auth/me", nil, "alice-token"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"alice@example.com"`)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestUpdateCredentials(t *testing.T) {
	router, authSvc, _ := newTestRouter()
	authSvc.On("UpdateCredentials", aliceSession, "", "").Return(service.ErrNoChanges)
	authSvc.On("UpdateCredentials", aliceSession, "new@example.com", "").Return(nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPatch, "/auth/me", dto.UpdateCredentialsRequest{}, "alice-token"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"No changes provided."}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPatch, "/auth/me", dto.UpdateCredentialsRequest{Email: "new@example.com"}, "alice-token"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":"Profile security credentials updated successfully."}`, w.Body.String())
}
