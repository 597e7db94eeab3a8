package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

// Register creates an account and returns its first session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthSession, error) {
	var session AuthSession
	if _, err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &session, false); err != nil {
		return nil, err
	}
	return &session, nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthSession, error) {
	body := map[string]string{"email": email, "password": password}
	var session AuthSession
	if _, err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &session, false); err != nil {
		return nil, err
	}
	return &session, nil
}

// Refresh rotates the access token using a refresh token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*AuthSession, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var session AuthSession
	if _, err := c.do(ctx, http.MethodPost, "/api/auth/refresh", body, &session, false); err != nil {
		return nil, err
	}
	return &session, nil
}

// Profile fetches the current user.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var user User
	if _, err := c.do(ctx, http.MethodGet, "/api/user/profile", nil, &user, true); err != nil {
		return nil, err
	}
	return &user, nil
}

// ProfileUpdate carries the mutable profile fields. Nil pointers are omitted.
type ProfileUpdate struct {
	FullName          *string `json:"full_name,omitempty"`
	CompanyName       *string `json:"company_name,omitempty"`
	PreferredLanguage *string `json:"preferred_language,omitempty"`
}

// UpdateProfile patches the current user.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	var user User
	if _, err := c.do(ctx, http.MethodPatch, "/api/user/profile", update, &user, true); err != nil {
		return nil, err
	}
	return &user, nil
}

// Projects lists the user's projects, newest first.
func (c *Client) Projects(ctx context.Context, page, limit int) ([]Project, *Meta, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", fmt.Sprint(page))
	}
	if limit > 0 {
		query.Set("limit", fmt.Sprint(limit))
	}
	path := "/api/projects"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var projects []Project
	meta, err := c.do(ctx, http.MethodGet, path, nil, &projects, true)
	if err != nil {
		return nil, nil, err
	}
	return projects, meta, nil
}

// Project fetches a single project by id.
func (c *Client) Project(ctx context.Context, id string) (*Project, error) {
	var project Project
	if _, err := c.do(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(id), nil, &project, true); err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProjectRequest holds the wizard's step-1 submission. Only the product
// name is required.
type CreateProjectRequest struct {
	ProductName        string `json:"product_name"`
	ProductDescription string `json:"product_description,omitempty"`
	ProductURL         string `json:"product_url,omitempty"`
	ProductImageURL    string `json:"product_image_url,omitempty"`
}

// CreateProject creates a draft project.
func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	var project Project
	if _, err := c.do(ctx, http.MethodPost, "/api/projects", req, &project, true); err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject removes a project.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/projects/"+url.PathEscape(id), nil, nil, true)
	return err
}

// GenerateRequest starts video generation for a project.
type GenerateRequest struct {
	AvatarID      string `json:"avatar_id"`
	Script        string `json:"script"`
	Language      string `json:"language"`
	Format        string `json:"format"`
	VideoDuration int    `json:"video_duration"`
}

// Generate queues generation and returns the updated project.
func (c *Client) Generate(ctx context.Context, projectID string, req GenerateRequest) (*Project, error) {
	var project Project
	path := "/api/projects/" + url.PathEscape(projectID) + "/generate"
	if _, err := c.do(ctx, http.MethodPost, path, req, &project, true); err != nil {
		return nil, err
	}
	return &project, nil
}

// Avatars lists the avatar catalog.
func (c *Client) Avatars(ctx context.Context) ([]Avatar, error) {
	var avatars []Avatar
	if _, err := c.do(ctx, http.MethodGet, "/api/avatars", nil, &avatars, true); err != nil {
		return nil, err
	}
	return avatars, nil
}

// Upload sends a file to the backend and returns its remote URL.
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	token := c.Token()
	if token == "" {
		return "", ErrNoToken
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	var body strings.Builder
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("read upload content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", strings.NewReader(body.String()))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		URL string `json:"url"`
	}
	if _, err := decodeEnvelope(resp, &result); err != nil {
		return "", err
	}
	if result.URL == "" {
		return "", fmt.Errorf("upload: response missing url")
	}
	return result.URL, nil
}

// CheckoutRequest creates a hosted checkout session.
type CheckoutRequest struct {
	PlanID     string `json:"plan_id"`
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

// CreateCheckout returns the processor-hosted checkout URL for a plan.
func (c *Client) CreateCheckout(ctx context.Context, req CheckoutRequest) (string, error) {
	var result struct {
		SessionURL string `json:"session_url"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/api/payments/checkout", req, &result, true); err != nil {
		return "", err
	}
	if result.SessionURL == "" {
		return "", fmt.Errorf("checkout: response missing session_url")
	}
	return result.SessionURL, nil
}
