package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/frahmantamala/bill-tracking/internal"
	"github.com/frahmantamala/bill-tracking/internal/bills"
)

// TokenSource provides the bearer token attached to every request,
// typically the session store.
type TokenSource interface {
	Token() (string, error)
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the remote bills service over HTTP. It implements
// bills.Gateway, owns no bill state, and converts every fault into a
// transport error for the caller to handle.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
}

func NewClient(cfg Config, tokens TokenSource, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		logger:     logger,
	}
}

type listResponse struct {
	Bills []bills.Bill `json:"bills"`
}

// List fetches all bills visible to the current identity.
func (c *Client) List(ctx context.Context) ([]bills.Bill, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/bills", nil, "")
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return resp.Bills, nil
}

// Create uploads a receipt as multipart form data and returns the stored
// file location plus the key of the draft bill record.
func (c *Client) Create(ctx context.Context, payload bills.ReceiptPayload) (bills.ReceiptUpload, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("email", payload.Email); err != nil {
		return bills.ReceiptUpload{}, internal.NewInternalError("building upload request", err)
	}

	part, err := writer.CreateFormFile("file", payload.FileName)
	if err != nil {
		return bills.ReceiptUpload{}, internal.NewInternalError("building upload request", err)
	}
	if _, err := io.Copy(part, payload.Content); err != nil {
		return bills.ReceiptUpload{}, internal.NewInternalError("reading receipt content", err)
	}
	if err := writer.Close(); err != nil {
		return bills.ReceiptUpload{}, internal.NewInternalError("building upload request", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/bills", &body, writer.FormDataContentType())
	if err != nil {
		return bills.ReceiptUpload{}, err
	}

	var upload bills.ReceiptUpload
	if err := c.do(req, &upload); err != nil {
		return bills.ReceiptUpload{}, err
	}
	return upload, nil
}

// Update replaces the bill record identified by bill.ID with the given
// content and returns the persisted record.
func (c *Client) Update(ctx context.Context, bill bills.Bill) (bills.Bill, error) {
	data, err := json.Marshal(bill)
	if err != nil {
		return bills.Bill{}, internal.NewInternalError("encoding bill", err)
	}

	path := "/api/v1/bills/" + url.PathEscape(bill.ID)
	req, err := c.newRequest(ctx, http.MethodPut, path, bytes.NewReader(data), "application/json")
	if err != nil {
		return bills.Bill{}, err
	}

	var updated bills.Bill
	if err := c.do(req, &updated); err != nil {
		return bills.Bill{}, err
	}
	return updated, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, internal.NewInternalError("building request", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	token, err := c.tokens.Token()
	if err != nil {
		c.logger.Debug("no bearer token available", "error", err)
	} else {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return internal.NewTransportError("bills service unreachable", 0).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return internal.NewTransportError(
			fmt.Sprintf("bills service returned %d for %s %s", resp.StatusCode, req.Method, req.URL.Path),
			resp.StatusCode,
		)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return internal.NewTransportError("decoding bills service response", resp.StatusCode).WithCause(err)
	}
	return nil
}
