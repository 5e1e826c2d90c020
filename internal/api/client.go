// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/docuchat/docuchat-tui/internal/model"
	"github.com/docuchat/docuchat-tui/internal/util"
)

// Configuration constants for the backend API.
const (
	// DefaultBaseURL is the default backend base URL.
	DefaultBaseURL = "http://localhost:3000"

	// SessionCookieName is the opaque session cookie. The client never
	// parses its value, only forwards it.
	SessionCookieName = "session"

	// MaxResponseSize bounds response bodies to prevent memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB

	// defaultRequestsPerSecond throttles outbound calls so progress
	// polling and asks cannot stampede the backend.
	defaultRequestsPerSecond = 10
)

// Error variables for common backend failures.
var (
	// ErrNoSession indicates no session token is available.
	ErrNoSession = errors.New("no session token")

	// ErrInvalidJSON indicates a 2xx body that was not the expected JSON.
	ErrInvalidJSON = errors.New("invalid JSON response")
)

// APIError represents a backend-reported failure: a non-2xx status with a
// structured {error} body or a plain-text message.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.Status)
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// UploadResult is the response to an attachment upload. Exactly one of
// SessionID (PDF path, progress is polled) or Analysis (image path,
// metadata is edited inline) is normally present; both may be absent.
type UploadResult struct {
	SessionID string               `json:"session_id"`
	Analysis  *model.AnalysisDraft `json:"analysis"`
}

// Progress is one reading from the processing-progress endpoint.
type Progress struct {
	Progress int
	Error    string
}

// progressResponse is the wire form; the backend reports a JSON number.
type progressResponse struct {
	Progress float64 `json:"progress"`
	Error    string  `json:"error"`
}

// HistoryEntry is one question/answer pair from persisted chat history.
type HistoryEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type historyResponse struct {
	ChatHistory []HistoryEntry `json:"chat_history"`
}

// LoginResult identifies the authenticated user. The session cookie is
// captured by the client's cookie jar as a side effect.
type LoginResult struct {
	UsersID string `json:"usersid"`
	RoleID  string `json:"roleid"`
}

// AuthStatus is the session-verification response.
type AuthStatus struct {
	Status  string `json:"status"`
	UsersID string `json:"usersid"`
	RoleID  string `json:"roleid"`
}

type askResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is the HTTP client for the docuchat backend.
//
// There is deliberately no default request timeout: the original client set
// none, and a hung ask leaves the turn pending until the user stops it.
// Callers that want a bound pass one via WithTimeout or a context deadline.
type Client struct {
	baseURL     string
	verifyURL   string
	httpClient  *http.Client
	jar         *cookiejar.Jar
	limiter     *rate.Limiter
	logger      *zap.Logger
	sessionFile string
}

// NewClient creates a backend client with a fresh cookie jar.
func NewClient() *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL:    DefaultBaseURL,
		verifyURL:  "",
		httpClient: &http.Client{Jar: jar},
		jar:        jar,
		limiter:    rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultRequestsPerSecond),
		logger:     zap.NewNop(),
	}
}

// WithBaseURL sets the backend base URL.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

// WithVerifyURL sets the external session-verification endpoint.
func (c *Client) WithVerifyURL(u string) *Client {
	c.verifyURL = u
	return c
}

// WithTimeout bounds all requests. Zero disables the bound.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.httpClient.Timeout = d
	return c
}

// WithLogger sets the structured logger.
func (c *Client) WithLogger(l *zap.Logger) *Client {
	c.logger = l
	return c
}

// WithSessionFile sets the file used to persist the session token.
func (c *Client) WithSessionFile(path string) *Client {
	c.sessionFile = path
	return c
}

// WithRateLimit overrides the outbound request throttle.
func (c *Client) WithRateLimit(perSecond int) *Client {
	if perSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), perSecond)
	}
	return c
}

// =============================================================================
// SESSION PERSISTENCE
// =============================================================================

// LoadSession reads the persisted session token and installs it in the
// cookie jar for both the backend and verification hosts. A missing file
// is not an error; the caller checks SessionToken afterwards.
func (c *Client) LoadSession() error {
	if c.sessionFile == "" {
		return nil
	}
	data, err := os.ReadFile(c.sessionFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read session file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return nil
	}
	c.setSessionCookie(token)
	return nil
}

// SaveSession persists the current session token to disk.
func (c *Client) SaveSession() error {
	if c.sessionFile == "" {
		return nil
	}
	token := c.SessionToken()
	if token == "" {
		return ErrNoSession
	}
	return util.AtomicWriteFile(c.sessionFile, []byte(token), 0o600)
}

// SessionToken returns the current opaque session token, or "".
func (c *Client) SessionToken() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	for _, cookie := range c.jar.Cookies(u) {
		if cookie.Name == SessionCookieName {
			return cookie.Value
		}
	}
	return ""
}

// ClearSession forgets the session token in the jar and on disk.
func (c *Client) ClearSession() {
	c.setSessionCookie("")
	if c.sessionFile != "" {
		os.Remove(c.sessionFile)
	}
}

func (c *Client) setSessionCookie(token string) {
	cookie := &http.Cookie{Name: SessionCookieName, Value: token, Path: "/"}
	for _, raw := range []string{c.baseURL, c.verifyURL} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err == nil {
			c.jar.SetCookies(u, []*http.Cookie{cookie})
		}
	}
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Ask submits a question and returns the response body text.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	form := url.Values{"question": {question}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/ask", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req)
	if err != nil {
		return "", err
	}
	var resp askResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w from /api/ask", ErrInvalidJSON)
	}
	return resp.Response, nil
}

// UploadFile uploads one attachment as multipart form data.
func (c *Client) UploadFile(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/upload_file", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	var result UploadResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w from /api/upload_file", ErrInvalidJSON)
	}
	return &result, nil
}

// CheckProgress polls the processing progress for an upload session.
func (c *Client) CheckProgress(ctx context.Context, sessionID string) (*Progress, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/progress/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return nil, err
	}
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	var resp progressResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w from /api/progress", ErrInvalidJSON)
	}
	return &Progress{Progress: int(resp.Progress), Error: resp.Error}, nil
}

// FetchChatHistory loads the persisted question/answer pairs.
func (c *Client) FetchChatHistory(ctx context.Context) ([]HistoryEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/fetch_chat_history", nil)
	if err != nil {
		return nil, err
	}
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	var resp historyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w from /api/fetch_chat_history", ErrInvalidJSON)
	}
	return resp.ChatHistory, nil
}

// EmbedAnalysis persists an edited image-analysis draft.
func (c *Client) EmbedAnalysis(ctx context.Context, filename string, draft *model.AnalysisDraft) error {
	payload, err := json.Marshal(struct {
		Filename string               `json:"filename"`
		Analysis *model.AnalysisDraft `json:"analysis"`
	}{filename, draft})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/embed_analysis", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	_, err = c.do(req)
	return err
}

// Login authenticates with email and password. On success the backend sets
// the session cookie, which is captured by the jar and persisted.
func (c *Client) Login(ctx context.Context, gmail, password string) (*LoginResult, error) {
	payload, err := json.Marshal(struct {
		Gmail    string `json:"gmail"`
		Password string `json:"password"`
	}{gmail, password})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/login2", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	var result LoginResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w from /api/login2", ErrInvalidJSON)
	}
	if err := c.SaveSession(); err != nil && !errors.Is(err, ErrNoSession) {
		c.logger.Warn("failed to persist session", zap.Error(err))
	}
	return &result, nil
}

// CheckAuth verifies the current session against the external verification
// endpoint. The session cookie is forwarded automatically.
func (c *Client) CheckAuth(ctx context.Context) (*AuthStatus, error) {
	if c.verifyURL == "" {
		return nil, errors.New("verify URL not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.verifyURL, nil)
	if err != nil {
		return nil, err
	}
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	var status AuthStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("%w from check_auth", ErrInvalidJSON)
	}
	return &status, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// do executes the request and returns the body for 2xx responses. Non-2xx
// bodies are normalized into *APIError. Only method, path, status, and
// duration are logged; never bodies or cookies.
func (c *Client) do(req *http.Request) ([]byte, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("api request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}

	c.logger.Debug("api response",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, normalizeError(resp.StatusCode, body)
	}
	return body, nil
}

// normalizeError converts a non-2xx body into an *APIError: the structured
// {error} field when the body is JSON, the plain text otherwise.
func normalizeError(status int, body []byte) error {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error != "" {
		return &APIError{Status: status, Message: resp.Error}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return &APIError{Status: status, Message: text}
	}
	return &APIError{Status: status}
}
