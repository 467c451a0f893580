// Package remote implements the backend contract over HTTP.
package remote

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
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/grupo8/reparafacil/internal/contract"
	"github.com/grupo8/reparafacil/internal/core/domain"
	"github.com/grupo8/reparafacil/internal/core/ports"
	"github.com/grupo8/reparafacil/internal/metrics"
)

const (
	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 1 << 20
)

// Options configures a Client.
type Options struct {
	// BaseURL is the backend root; relative endpoint paths are resolved
	// against it.
	BaseURL string
	// Timeout bounds every call. Defaults to 30s.
	Timeout time.Duration
	// RateLimit is the sustained number of requests per second; zero
	// disables limiting.
	RateLimit float64
	RateBurst int
	// HTTPClient overrides the underlying client (tests).
	HTTPClient *http.Client
}

// Client is an HTTP client for the ReparaFácil backend.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger
}

var _ ports.RemoteAPI = (*Client)(nil)

// New creates a Client. It fails only when BaseURL is not an absolute URL.
func New(opts Options, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("remote: invalid base url %q", opts.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &Client{
		base:       base,
		httpClient: hc,
		limiter:    limiter,
		log:        log.With().Str("component", "remote").Logger(),
	}, nil
}

// Signup registers an account.
func (c *Client) Signup(ctx context.Context, in ports.SignupInput) (*ports.AuthResult, error) {
	body := contract.SignupRequest{
		Email:    in.Email,
		Password: in.Password,
		Name:     in.Name,
		Phone:    in.Phone,
	}
	if in.Role != "" {
		body.Role = in.Role.Wire()
	}
	var resp contract.AuthResponse
	if err := c.do(ctx, call{op: "signup", method: http.MethodPost, path: "auth/signup", body: body}, &resp); err != nil {
		return nil, err
	}
	return toAuthResult("signup", resp)
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	body := contract.LoginRequest{Email: email, Password: password}
	var resp contract.AuthResponse
	if err := c.do(ctx, call{op: "login", method: http.MethodPost, path: "auth/login", body: body}, &resp); err != nil {
		return nil, err
	}
	return toAuthResult("login", resp)
}

// GetMyProfile returns the user that owns token.
func (c *Client) GetMyProfile(ctx context.Context, token string) (*domain.User, error) {
	var resp contract.User
	if err := c.do(ctx, call{op: "get_profile", method: http.MethodGet, path: "auth/me", token: token}, &resp); err != nil {
		return nil, err
	}
	return resp.ToUser(), nil
}

func (c *Client) ListServices(ctx context.Context, token string) ([]domain.ServiceRequest, error) {
	var resp []contract.Service
	if err := c.do(ctx, call{op: "list_services", method: http.MethodGet, path: "servicios", token: token}, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.ServiceRequest, 0, len(resp))
	for _, s := range resp {
		out = append(out, s.ToServiceRequest())
	}
	return out, nil
}

// CreateService raises a repair request. A non-empty IdempotencyKey is sent
// as the Idempotency-Key header.
func (c *Client) CreateService(ctx context.Context, token string, in ports.NewServiceInput) (*domain.ServiceRequest, error) {
	body := contract.CreateServiceRequest{
		Type:        in.Type,
		Description: in.Description,
		Address:     in.Address,
		Status:      domain.StatusPending.Wire(),
	}
	var resp contract.Service
	err := c.do(ctx, call{
		op:             "create_service",
		method:         http.MethodPost,
		path:           "servicios",
		token:          token,
		idempotencyKey: in.IdempotencyKey,
		body:           body,
	}, &resp)
	if err != nil {
		return nil, err
	}
	s := resp.ToServiceRequest()
	return &s, nil
}

func (c *Client) GetService(ctx context.Context, token string, id int64) (*domain.ServiceRequest, error) {
	var resp contract.Service
	if err := c.do(ctx, call{op: "get_service", method: http.MethodGet, path: servicePath(id), token: token}, &resp); err != nil {
		return nil, err
	}
	s := resp.ToServiceRequest()
	return &s, nil
}

func (c *Client) UpdateService(ctx context.Context, token string, id int64, patch ports.ServicePatch) (*domain.ServiceRequest, error) {
	body := contract.UpdateServiceRequest{TechnicianID: patch.TechnicianID}
	if patch.Status != "" {
		body.Status = patch.Status.Wire()
	}
	var resp contract.Service
	if err := c.do(ctx, call{op: "update_service", method: http.MethodPatch, path: servicePath(id), token: token, body: body}, &resp); err != nil {
		return nil, err
	}
	s := resp.ToServiceRequest()
	return &s, nil
}

func servicePath(id int64) string {
	return "servicios/" + strconv.FormatInt(id, 10)
}

func toAuthResult(op string, resp contract.AuthResponse) (*ports.AuthResult, error) {
	if resp.AuthToken == "" {
		return nil, &domain.TransportError{Op: op, Err: errors.New("response carries no auth token")}
	}
	out := &ports.AuthResult{Token: resp.AuthToken, UserID: resp.UserID}
	if resp.User != nil {
		out.User = resp.User.ToUser()
	}
	return out, nil
}

// ── transport ────────────────────────────────────────────────────────────────

type call struct {
	op             string
	method         string
	path           string
	token          string
	idempotencyKey string
	body           any
}

func (c *Client) do(ctx context.Context, cl call, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &domain.TransportError{Op: cl.op, Err: err}
	}

	var payload io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return &domain.TransportError{Op: cl.op, Err: fmt.Errorf("encode request: %w", err)}
		}
		payload = bytes.NewReader(b)
	}

	target := c.base.ResolveReference(&url.URL{Path: cl.path})
	req, err := http.NewRequestWithContext(ctx, cl.method, target.String(), payload)
	if err != nil {
		return &domain.TransportError{Op: cl.op, Err: fmt.Errorf("create request: %w", err)}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}
	if cl.idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", cl.idempotencyKey)
	}

	log := c.log.With().Str("op", cl.op).Str("request_id", requestID).Logger()
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ClientRemoteRequestDuration.WithLabelValues(cl.op, "error").Observe(time.Since(start).Seconds())
		log.Warn().Err(err).Msg("remote call failed")
		return &domain.TransportError{Op: cl.op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	metrics.ClientRemoteRequestDuration.WithLabelValues(cl.op, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())
	if err != nil {
		return &domain.TransportError{Op: cl.op, Err: fmt.Errorf("read response: %w", err)}
	}

	log.Debug().Int("status", resp.StatusCode).Dur("duration", time.Since(start)).Msg("remote call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.RemoteRejection{Op: cl.op, Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.TransportError{Op: cl.op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errorMessage extracts the server message from an error body.
func errorMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
