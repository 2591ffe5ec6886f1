package client

// http_client.go = talks to the codelens API on behalf of the CLI.

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"codelens/internal/microservices/http-api/dto"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// constructor for HTTP client; reviews wait on the LLM so the timeout is generous
func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: apiURL,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

// set token for HTTP client
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

func (c *HTTPClient) SignUp(req *dto.SignUpRequest) (*dto.AuthResponse, error) {
	var result dto.AuthResponse
	if err := c.do(http.MethodPost, "/auth/signup", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Login(req *dto.SignInRequest) (*dto.AuthResponse, error) {
	var result dto.AuthResponse
	if err := c.do(http.MethodPost, "/auth/login", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Refresh(refreshToken string) (*dto.AuthResponse, error) {
	var result dto.AuthResponse
	if err := c.do(http.MethodPost, "/auth/refresh", &dto.RefreshTokenRequest{RefreshToken: refreshToken}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Logout() error {
	return c.do(http.MethodPost, "/auth/logout", nil, nil)
}

func (c *HTTPClient) Me() (*dto.UserResponse, error) {
	var result dto.UserResponse
	if err := c.do(http.MethodGet, "/auth/me", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) RequestPasswordReset(email string) (*dto.MessageResponse, error) {
	var result dto.MessageResponse
	if err := c.do(http.MethodPost, "/auth/reset-password", &dto.ResetPasswordRequest{Email: email}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Review(req *dto.ReviewRequest) (*dto.ReviewResponse, error) {
	var result dto.ReviewResponse
	if err := c.do(http.MethodPost, "/api/reviews", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ListReviews() (*dto.ReviewListResponse, error) {
	var result dto.ReviewListResponse
	if err := c.do(http.MethodGet, "/api/reviews", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetReview(id string) (*dto.ReviewDetail, error) {
	var result dto.ReviewDetail
	if err := c.do(http.MethodGet, "/api/reviews/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) DashboardStats() (*dto.DashboardStats, error) {
	var result dto.DashboardStats
	if err := c.do(http.MethodGet, "/api/dashboard/stats", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Languages() ([]dto.LanguageResponse, error) {
	var result []dto.LanguageResponse
	if err := c.do(http.MethodGet, "/api/languages", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// do sends body as JSON and decodes a 2xx response into out.
func (c *HTTPClient) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer response.Body.Close() // Ensure the response body is closed

	if response.StatusCode < 200 || response.StatusCode > 299 {
		var apiErr dto.ErrorResponse
		if err := json.NewDecoder(response.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			apiErr.Error = response.Status
		}
		return &APIError{Status: response.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(out)
}
