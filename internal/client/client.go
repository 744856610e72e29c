// ABOUTME: HTTP client for the F1 data API
// ABOUTME: Wraps API calls with proper error handling for CLI and TUI usage

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/painel-f1/painel/internal/gateway"
)

// Client is the API client for the F1 data API. Every call except Login
// goes through the authenticated gateway.
type Client struct {
	gw *gateway.Gateway
}

// New creates a new API client on top of gw
func New(gw *gateway.Gateway) *Client {
	return &Client{gw: gw}
}

// BaseURL returns the API root
func (c *Client) BaseURL() string {
	return c.gw.BaseURL()
}

// Login calls POST /api/login and stores the returned token. It bypasses
// the gateway: bad credentials answer 401, which must not count as a
// session being revoked.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	body, err := json.Marshal(LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gw.BaseURL()+"/api/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.gw.HTTPClient().Do(req)
	if err != nil {
		return nil, &gateway.TransportError{URL: c.gw.BaseURL(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, handleErrorResponse(resp, "login")
	}

	var login LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		return nil, fmt.Errorf("invalid response from API: %w", err)
	}
	if login.Token == "" {
		return nil, errors.New("login response did not include a token")
	}

	if err := c.gw.Store().Set(login.Token); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}
	slog.Info("Logged in", "user", username)

	return &login, nil
}

// Logout calls POST /logout on a best-effort basis, then always clears the
// token and hard-redirects to the login route.
func (c *Client) Logout(ctx context.Context) {
	resp, err := c.gw.Do(ctx, "/logout", gateway.Options{Method: http.MethodPost})
	if errors.Is(err, gateway.ErrSessionExpired) {
		// the gateway already ended the session
		return
	}
	if err != nil {
		slog.Warn("Logout request failed", "error", err)
	} else {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
	c.gw.EndSession()
}

// UserInfo calls GET /api/user-info
func (c *Client) UserInfo(ctx context.Context) (*UserInfo, error) {
	var out userInfoResponse
	if err := c.call(ctx, "/api/user-info", gateway.Options{}, "fetch user information", &out); err != nil {
		return nil, err
	}
	if out.UserInfo == nil {
		return nil, errors.New("invalid response from API: missing userInfo")
	}
	return out.UserInfo, nil
}

// Views calls GET /api/views
func (c *Client) Views(ctx context.Context) (*ViewsResponse, error) {
	var out ViewsResponse
	if err := c.call(ctx, "/api/views", gateway.Options{}, "fetch views", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// View calls GET /api/view/:viewName with server-side pagination
func (c *Client) View(ctx context.Context, name string, page, limit int) (*ViewResponse, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var out ViewResponse
	opts := gateway.Options{Query: query}
	if err := c.call(ctx, "/api/view/"+url.PathEscape(name), opts, "fetch view data", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateDriver calls POST /api/drivers
func (c *Client) CreateDriver(ctx context.Context, input *DriverInput) (Record, error) {
	var out Record
	opts := gateway.Options{Method: http.MethodPost, JSON: input}
	if err := c.call(ctx, "/api/drivers", opts, "insert driver", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateConstructor calls POST /api/constructors
func (c *Client) CreateConstructor(ctx context.Context, input *ConstructorInput) (Record, error) {
	var out Record
	opts := gateway.Options{Method: http.MethodPost, JSON: input}
	if err := c.call(ctx, "/api/constructors", opts, "insert constructor", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchDrivers calls GET /api/search-drivers
func (c *Client) SearchDrivers(ctx context.Context, surname string) ([]Row, error) {
	query := url.Values{}
	query.Set("surname", surname)

	var out driversResponse
	if err := c.call(ctx, "/api/search-drivers", gateway.Options{Query: query}, "search drivers", &out); err != nil {
		return nil, err
	}
	if out.Drivers == nil {
		return []Row{}, nil
	}
	return out.Drivers, nil
}

// UploadDrivers calls POST /api/upload-drivers with r as the multipart "file" part
func (c *Client) UploadDrivers(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	payload, err := gateway.MultipartFile("file", filename, r)
	if err != nil {
		return nil, err
	}

	var out UploadResult
	opts := gateway.Options{Method: http.MethodPost, Binary: payload}
	if err := c.call(ctx, "/api/upload-drivers", opts, "upload file", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reports calls GET /api/reports
func (c *Client) Reports(ctx context.Context) (*ReportsResponse, error) {
	var out ReportsResponse
	if err := c.call(ctx, "/api/reports", gateway.Options{}, "fetch reports", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExecuteReport calls POST /api/reports/execute
func (c *Client) ExecuteReport(ctx context.Context, id ReportID, params map[string]string) (*ReportResult, error) {
	if params == nil {
		params = map[string]string{}
	}
	var out ReportResult
	opts := gateway.Options{
		Method: http.MethodPost,
		JSON:   executeRequest{ReportID: id, Params: params},
	}
	if err := c.call(ctx, "/api/reports/execute", opts, "execute report", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// call sends a request through the gateway and decodes a 2xx JSON body into out
func (c *Client) call(ctx context.Context, target string, opts gateway.Options, op string, out any) error {
	resp, err := c.gw.Do(ctx, target, opts)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return handleErrorResponse(resp, op)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from API: %w", err)
	}
	return nil
}

// handleErrorResponse parses API error responses
func handleErrorResponse(resp *http.Response, op string) error {
	apiErr := &APIError{Status: resp.StatusCode, Op: op}

	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
		apiErr.Message = errResp.Message
		if apiErr.Message == "" {
			apiErr.Message = errResp.Error
		}
	}
	return apiErr
}
