package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"sync"

	siteerrors "github.com/siteship/siteship-cli/internal/errors"
	"go.uber.org/zap"
)

// Client talks to the siteship deployment API.
//
// Every call is attempted exactly once. 4xx responses come back as
// *errors.ValidationError, any other unexpected status as *errors.StatusError.
// Transport errors (including context cancellation and deadlines) are
// returned unwrapped enough for errors.Is to see them.
type Client struct {
	baseURL    string       // API base, always ending in "/", e.g. https://siteship.sh/api/
	token      string       // value for "Authorization: Token ..."
	httpClient *http.Client // injectable for timeouts and tests
	logger     *zap.Logger
}

// NewClient creates a Client. A nil httpClient uses a client without a
// timeout; deadlines come from the context.
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// WithToken returns a copy of c that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SiteURL is the canonical API resource for a site, used to reference it
// from other endpoints.
func (c *Client) SiteURL(id string) string {
	return c.baseURL + "sites/" + id + "/"
}

// Site is a site as returned by the API.
type Site struct {
	ID     ID     `json:"id"`
	Domain string `json:"domain"`
}

// Credentials are returned by signup.
type Credentials struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// ProgressFunc receives the number of request body bytes sent so far and the
// total body size.
type ProgressFunc func(sent, total int64)

// Signup creates an account and returns its credentials.
func (c *Client) Signup(ctx context.Context, email, password string) (*Credentials, error) {
	var out Credentials
	if err := c.doJSON(ctx, "signup", http.MethodPost, "signup/", signupRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	if out.Email == "" {
		out.Email = email
	}
	if out.Token == "" {
		return nil, siteerrors.New(siteerrors.ErrTypeAPI, "signup: response did not include a token")
	}
	return &out, nil
}

// Authenticate exchanges a username and password for a token.
func (c *Client) Authenticate(ctx context.Context, username, password string) (string, error) {
	var out tokenResponse
	if err := c.doJSON(ctx, "authenticate", http.MethodPost, "auth/", authRequest{Username: username, Password: password}, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", siteerrors.New(siteerrors.ErrTypeAPI, "authenticate: response did not include a token")
	}
	return out.Token, nil
}

// CreateSite asks the API for a new site. The request has no body.
func (c *Client) CreateSite(ctx context.Context) (*Site, error) {
	var out Site
	if err := c.doJSON(ctx, "create site", http.MethodPost, "sites/", nil, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, siteerrors.New(siteerrors.ErrTypeAPI, "create site: response did not include an id")
	}
	return &out, nil
}

// ListSites returns the sites of the authenticated user.
func (c *Client) ListSites(ctx context.Context) ([]Site, error) {
	var out []Site
	if err := c.doJSON(ctx, "list sites", http.MethodGet, "sites/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadDeploy posts a multipart form with the site reference and the zip
// archive. The body is streamed from archive; progress, when non-nil, is
// called synchronously as bytes are consumed and never after UploadDeploy
// returns.
func (c *Client) UploadDeploy(ctx context.Context, siteID string, archive io.Reader, size int64, filename string, progress ProgressFunc) error {
	const op = "upload deploy"

	var frame bytes.Buffer
	mw := multipart.NewWriter(&frame)
	if err := mw.WriteField("site", c.SiteURL(siteID)); err != nil {
		return fmt.Errorf("failed to build multipart body: %w", err)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="upload"; filename="%s"`, filename))
	h.Set("Content-Type", "application/zip")
	if _, err := mw.CreatePart(h); err != nil {
		return fmt.Errorf("failed to build multipart body: %w", err)
	}
	headLen := frame.Len()
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to build multipart body: %w", err)
	}
	head := frame.Bytes()[:headLen]
	tail := frame.Bytes()[headLen:]

	total := int64(len(head)) + size + int64(len(tail))
	body := &countingReader{
		r:        io.MultiReader(bytes.NewReader(head), io.LimitReader(archive, size), bytes.NewReader(tail)),
		total:    total,
		progress: progress,
	}
	defer body.finish()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"deploys/", body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", mw.FormDataContentType())

	c.logger.Debug("API request",
		zap.String("operation", op),
		zap.String("url", req.URL.String()),
		zap.String("site", siteID),
		zap.String("filename", filename),
		zap.Int64("content_length", total))

	return c.send(req, op, nil)
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	var data []byte
	if in != nil {
		var err error
		data, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Request bodies carry passwords; log only their size.
	c.logger.Debug("API request",
		zap.String("operation", op),
		zap.String("method", method),
		zap.String("url", req.URL.String()),
		zap.Int("body_size", len(data)))

	return c.send(req, op, out)
}

func (c *Client) send(req *http.Request, op string, out any) error {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Keep context errors visible to errors.Is.
		return siteerrors.Wrap(siteerrors.ErrTypeNetwork, op+" failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return siteerrors.Wrap(siteerrors.ErrTypeNetwork, op+": failed to read response", err)
	}

	c.logger.Debug("API response",
		zap.String("operation", op),
		zap.Int("status_code", resp.StatusCode),
		zap.Int("response_size", len(bodyBytes)))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &siteerrors.ValidationError{
			StatusCode: resp.StatusCode,
			Fields:     parseFieldErrors(resp.StatusCode, bodyBytes),
		}
	default:
		return &siteerrors.StatusError{Operation: op, StatusCode: resp.StatusCode}
	}

	if out == nil || len(bytes.TrimSpace(bodyBytes)) == 0 {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return siteerrors.Wrap(siteerrors.ErrTypeAPI, op+": failed to parse response", err)
	}
	return nil
}

// parseFieldErrors accepts {"field": "msg"} and {"field": ["msg", ...]}.
// Anything else is reported under "detail".
func parseFieldErrors(status int, body []byte) siteerrors.FieldErrors {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) == 0 {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(status)
		}
		return siteerrors.FieldErrors{"detail": {msg}}
	}

	fields := make(siteerrors.FieldErrors, len(raw))
	for name, value := range raw {
		var one string
		if err := json.Unmarshal(value, &one); err == nil {
			fields[name] = []string{one}
			continue
		}
		var many []string
		if err := json.Unmarshal(value, &many); err == nil {
			fields[name] = many
			continue
		}
		fields[name] = []string{string(value)}
	}
	return fields
}

// countingReader reports read progress until finish is called. The
// transport may read the body from its own goroutine, so the callback runs
// under mu and finish waits for an in-flight callback.
type countingReader struct {
	r        io.Reader
	sent     int64
	total    int64
	progress ProgressFunc

	mu   sync.Mutex
	done bool
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 && cr.progress != nil {
		cr.mu.Lock()
		cr.sent += int64(n)
		if !cr.done {
			cr.progress(cr.sent, cr.total)
		}
		cr.mu.Unlock()
	}
	return n, err
}

func (cr *countingReader) finish() {
	cr.mu.Lock()
	cr.done = true
	cr.mu.Unlock()
}
