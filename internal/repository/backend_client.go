package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-accompaniment-dashboard/internal/dto"
	appErrors "github.com/noah-isme/sma-accompaniment-dashboard/pkg/errors"
	"github.com/noah-isme/sma-accompaniment-dashboard/pkg/middleware/requestid"
)

const maxBodyBytes = 4 << 20

type backendObserver interface {
	ObserveBackendCall(endpoint string, status int, duration time.Duration)
}

type accessTokenKey struct{}

// WithAccessToken stores the caller's bearer token so backend calls made with
// ctx are authenticated as that user.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

func accessTokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey{}).(string)
	return token
}

// BackendClient performs JSON calls against the reports REST backend.
type BackendClient struct {
	baseURL string
	client  *http.Client
	metrics backendObserver
	logger  *zap.Logger
}

// NewBackendClient constructs a client. timeout bounds every call, including
// the create-report request.
func NewBackendClient(baseURL string, timeout time.Duration, metrics backendObserver, logger *zap.Logger) *BackendClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		metrics: metrics,
		logger:  logger,
	}
}

type backendResponse struct {
	Status int
	Body   []byte
}

func (r *backendResponse) ok() bool {
	return r.Status >= 200 && r.Status < 300
}

// do issues a request and returns the raw response. Only transport failures are
// returned as errors; status handling is left to the caller.
func (c *BackendClient) do(ctx context.Context, endpoint, method, path string, query url.Values, body interface{}) (*backendResponse, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode backend payload")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build backend request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.HeaderKey, id)
	}
	if token := accessTokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.observe(endpoint, 0, time.Since(start))
		c.logger.Warn("backend call failed",
			zap.String("endpoint", endpoint),
			zap.String("request_id", requestid.FromContext(ctx)),
			zap.Error(err))
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.observe(endpoint, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, transportError(err)
	}
	return &backendResponse{Status: resp.StatusCode, Body: raw}, nil
}

func (c *BackendClient) observe(endpoint string, status int, d time.Duration) {
	if c.metrics != nil {
		c.metrics.ObserveBackendCall(endpoint, status, d)
	}
}

// Ping reports whether the backend answers at all. Any status below 500
// counts as reachable.
func (c *BackendClient) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, "ping", http.MethodGet, "/", nil, nil)
	if err != nil {
		return err
	}
	if resp.Status >= http.StatusInternalServerError {
		return statusError(resp.Status, resp.Body)
	}
	return nil
}

// getJSON performs a GET and decodes a 2xx body into dest.
func (c *BackendClient) getJSON(ctx context.Context, endpoint, path string, query url.Values, dest interface{}) error {
	resp, err := c.do(ctx, endpoint, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return decodeResponse(resp, dest)
}

// postJSON performs a POST and decodes a 2xx body into dest.
func (c *BackendClient) postJSON(ctx context.Context, endpoint, path string, body, dest interface{}) error {
	resp, err := c.do(ctx, endpoint, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	return decodeResponse(resp, dest)
}

func decodeResponse(resp *backendResponse, dest interface{}) error {
	if !resp.ok() {
		return statusError(resp.Status, resp.Body)
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrBackend.Code, appErrors.ErrBackend.Status, "invalid backend payload")
	}
	return nil
}

func transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return appErrors.Wrap(err, appErrors.ErrBackendTimeout.Code, appErrors.ErrBackendTimeout.Status, appErrors.ErrBackendTimeout.Message)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return appErrors.Wrap(err, appErrors.ErrBackendTimeout.Code, appErrors.ErrBackendTimeout.Status, appErrors.ErrBackendTimeout.Message)
	}
	return appErrors.Wrap(err, appErrors.ErrBackendUnavailable.Code, appErrors.ErrBackendUnavailable.Status, appErrors.ErrBackendUnavailable.Message)
}

// statusError maps a non-2xx backend response onto the error taxonomy. The
// backend detail text, when present, becomes the message.
func statusError(status int, body []byte) *appErrors.Error {
	detail := parseDetail(body)

	var base *appErrors.Error
	switch {
	case status == http.StatusUnauthorized:
		base = appErrors.ErrUnauthorized
	case status == http.StatusForbidden:
		base = appErrors.ErrForbidden
	case status == http.StatusNotFound:
		base = appErrors.ErrNotFound
	case status == http.StatusConflict:
		base = appErrors.ErrConflict
	case status >= 400 && status < 500:
		base = appErrors.ErrValidation
	default:
		base = appErrors.ErrBackend
	}

	appErr := appErrors.Clone(base, detail)
	appErr.Details = dto.BackendFailure{Status: status, Detail: detail}
	if status >= 500 {
		appErr.Err = fmt.Errorf("backend responded %d", status)
	}
	return appErr
}

// parseDetail extracts the human readable "detail" field. The backend emits a
// string, an object with a message, or a list of field errors.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var object struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Detail, &object); err == nil && object.Message != "" {
		return strings.TrimSpace(object.Message)
	}

	var list []struct {
		Msg string        `json:"msg"`
		Loc []interface{} `json:"loc"`
	}
	if err := json.Unmarshal(envelope.Detail, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if item.Msg == "" {
				continue
			}
			if len(item.Loc) > 0 {
				parts = append(parts, fmt.Sprintf("%v: %s", item.Loc[len(item.Loc)-1], item.Msg))
				continue
			}
			parts = append(parts, item.Msg)
		}
		return strings.Join(parts, "; ")
	}

	return ""
}
