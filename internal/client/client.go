// Package client is a typed HTTP client for the course registration API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	domain "course-portal/internal/domain/registration"
	"course-portal/internal/domain/user"

	"github.com/google/uuid"
)

// APIClient talks to the registration API. Tokens are passed per call so one
// client can serve several sessions.
type APIClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &APIClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
	Code       domain.ErrorKind
	Missing    []int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// Kind classifies the failure for portal callers.
func (e *APIError) Kind() domain.ErrorKind {
	return domain.KindFromResponse(e.StatusCode, string(e.Code), e.Message)
}

// KindOf classifies any error returned by APIClient.
func KindOf(err error) domain.ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind()
	}
	return domain.KindOf(err)
}

// MessageOf returns the server's message for API errors and the error text
// for transport failures.
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func (c *APIClient) doRequest(ctx context.Context, method, endpoint, token string, body interface{}, headers map[string]string) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	fullURL, err := url.JoinPath(c.BaseURL, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to join URL path: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// handleResponse closes the body and decodes it into result on success.
func (c *APIClient) handleResponse(resp *http.Response, result interface{}) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiError := &APIError{StatusCode: resp.StatusCode}

		var errorResp struct {
			Error   string `json:"error"`
			Message string `json:"message"`
			Code    string `json:"code"`
			Missing []int  `json:"missing"`
		}
		if json.Unmarshal(body, &errorResp) == nil {
			apiError.Message = errorResp.Error
			if apiError.Message == "" {
				apiError.Message = errorResp.Message
			}
			apiError.Code = domain.ErrorKind(errorResp.Code)
			apiError.Missing = errorResp.Missing
		}
		if apiError.Message == "" {
			apiError.Message = http.StatusText(resp.StatusCode)
		}
		return apiError
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}

func (c *APIClient) call(ctx context.Context, method, endpoint, token string, body, result interface{}, headers map[string]string) error {
	//nolint:bodyclose // Response body is closed by handleResponse
	resp, err := c.doRequest(ctx, method, endpoint, token, body, headers)
	if err != nil {
		return err
	}
	return c.handleResponse(resp, result)
}

// Login exchanges credentials for an identity and token.
func (c *APIClient) Login(ctx context.Context, username, password string) (*user.LoginResponse, error) {
	req := user.LoginRequest{Username: username, Password: password}

	var resp user.LoginResponse
	if err := c.call(ctx, http.MethodPost, "/login", "", req, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) GetCurrentTerm(ctx context.Context, token string) (*domain.Term, error) {
	var term domain.Term
	if err := c.call(ctx, http.MethodGet, "/current_term", token, nil, &term, nil); err != nil {
		return nil, err
	}
	return &term, nil
}

func (c *APIClient) GetCourses(ctx context.Context, termID int, token string) ([]domain.Course, error) {
	var resp struct {
		Courses []domain.Course `json:"courses"`
	}
	endpoint := "/terms/" + strconv.Itoa(termID) + "/courses"
	if err := c.call(ctx, http.MethodGet, endpoint, token, nil, &resp, nil); err != nil {
		return nil, err
	}
	if resp.Courses == nil {
		resp.Courses = []domain.Course{}
	}
	return resp.Courses, nil
}

func (c *APIClient) GetStudentRegistrations(ctx context.Context, studentID, token string) ([]domain.Registration, error) {
	var resp struct {
		Registrations []domain.Registration `json:"registrations"`
	}
	endpoint := "/students/" + url.PathEscape(studentID) + "/registrations"
	if err := c.call(ctx, http.MethodGet, endpoint, token, nil, &resp, nil); err != nil {
		return nil, err
	}
	if resp.Registrations == nil {
		resp.Registrations = []domain.Registration{}
	}
	return resp.Registrations, nil
}

func (c *APIClient) GetStudentProfile(ctx context.Context, studentID, token string) (*domain.StudentProfile, error) {
	var profile domain.StudentProfile
	endpoint := "/students/" + url.PathEscape(studentID)
	if err := c.call(ctx, http.MethodGet, endpoint, token, nil, &profile, nil); err != nil {
		return nil, err
	}
	return &profile, nil
}

type idempotencyKeyCtx struct{}

// WithIdempotencyKey makes RegisterForCourse send key as its Idempotency-Key.
// A caller that retries with the same context gets the first response
// replayed instead of a second enrollment.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, idempotencyKeyCtx{}, key)
}

func idempotencyKeyFrom(ctx context.Context) string {
	if key, ok := ctx.Value(idempotencyKeyCtx{}).(string); ok && key != "" {
		return key
	}
	return uuid.NewString()
}

// RegisterForCourse submits a registration. The Idempotency-Key comes from
// WithIdempotencyKey, or is a fresh UUID when the caller set none.
func (c *APIClient) RegisterForCourse(ctx context.Context, studentID string, courseID, termID int, token string) (*domain.Registration, error) {
	endpoint := "/students/" + url.PathEscape(studentID) + "/courses/" + strconv.Itoa(courseID) + "/register"
	headers := map[string]string{"Idempotency-Key": idempotencyKeyFrom(ctx)}

	var resp domain.RegisterResponse
	if err := c.call(ctx, http.MethodPost, endpoint, token, domain.RegisterRequest{TermID: termID}, &resp, headers); err != nil {
		return nil, err
	}
	return resp.Registration, nil
}

// Health checks the server's /health endpoint, which lives outside /api.
func (c *APIClient) Health(ctx context.Context) error {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse base URL: %w", err)
	}
	base.Path = "/health"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return c.handleResponse(resp, nil)
}
