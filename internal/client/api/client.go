package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Error is a failed API call. The server always answers failures with
// {"error": "<message>"} and a status code; both are carried here.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Client is a typed JSON client for the backend HTTP surface.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given base URL (no trailing slash needed).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// --- Auth ---

// RequestLink asks the server to email a magic link.
func (c *Client) RequestLink(ctx context.Context, email, mode string) error {
	body := map[string]string{"email": email, "mode": mode}
	return c.post(ctx, "/auth/request-link", body, nil)
}

// Verify redeems a magic-link token and returns the verified email.
func (c *Client) Verify(ctx context.Context, token string) (string, error) {
	var out struct {
		Email string `json:"email"`
	}
	body := map[string]string{"token": token}
	if err := c.post(ctx, "/auth/verify", body, &out); err != nil {
		return "", err
	}
	return out.Email, nil
}

// Login authenticates with email+password and returns the profile.
func (c *Client) Login(ctx context.Context, email, password string) (*Profile, error) {
	var out struct {
		Profile *Profile `json:"profile"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return out.Profile, nil
}

// --- Profiles ---

// GetProfile fetches a profile by email. A missing profile is an Error
// with status 404; check with IsNotFound.
func (c *Client) GetProfile(ctx context.Context, email string) (*Profile, error) {
	var out struct {
		Profile *Profile `json:"profile"`
	}
	path := "/users/profile?email=" + url.QueryEscape(email)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Profile, nil
}

// SaveProfile creates or updates a profile.
func (c *Client) SaveProfile(ctx context.Context, email string, profile *Profile) error {
	body := map[string]any{"email": email, "profile": profile}
	return c.post(ctx, "/users/profile", body, nil)
}

// CheckUsername reports whether a username is free for the given account.
func (c *Client) CheckUsername(ctx context.Context, username, currentEmail string) (bool, error) {
	var out struct {
		Available bool `json:"available"`
	}
	body := map[string]string{"username": username, "currentEmail": currentEmail}
	if err := c.post(ctx, "/users/check-username", body, &out); err != nil {
		return false, err
	}
	return out.Available, nil
}

// --- Publications ---

// CreatePublication stores a new publication.
func (c *Client) CreatePublication(ctx context.Context, p *Publication) error {
	return c.post(ctx, "/publications/create", p, nil)
}

// ListPublications returns all publications newest-first.
func (c *Client) ListPublications(ctx context.Context) ([]Publication, error) {
	var out struct {
		Publications []Publication `json:"publications"`
	}
	if err := c.get(ctx, "/publications/list", &out); err != nil {
		return nil, err
	}
	return out.Publications, nil
}

// DeletePublication removes a publication by id.
func (c *Client) DeletePublication(ctx context.Context, id string) error {
	body := map[string]string{"publicationId": id}
	return c.post(ctx, "/publications/delete", body, nil)
}

// --- Images ---

// UploadImage sends a data URI to the server and returns the hosted URL.
func (c *Client) UploadImage(ctx context.Context, dataURI string) (*UploadedImage, error) {
	var out UploadedImage
	body := map[string]string{"image": dataURI}
	if err := c.post(ctx, "/images/upload", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Transport helpers ---

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errBody struct {
			Error string `json:"error"`
		}
		message := http.StatusText(resp.StatusCode)
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil && errBody.Error != "" {
			message = errBody.Error
		}
		return &Error{Status: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", req.URL.Path, err)
	}

	return nil
}
