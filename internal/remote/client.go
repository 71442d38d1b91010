package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	movingaverage "github.com/RobinUS2/golang-moving-average"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/rcliao/patchdash/internal/logging"
	"github.com/rcliao/patchdash/internal/metrics"
	"github.com/rcliao/patchdash/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const bestHourKey = "best_hour"

// Client implements Service over HTTP. Each call is a single attempt.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
	metrics *metrics.Metrics

	bestHours *cache.Cache

	mu      sync.Mutex
	latency *movingaverage.MovingAverage
	samples int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.client = h }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics records call durations into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithBestHourTTL caches the best-hour response for ttl. Zero disables caching.
func WithBestHourTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl <= 0 {
			c.bestHours = nil
			return
		}
		c.bestHours = cache.New(ttl, 2*ttl)
	}
}

// New creates a client for the API rooted at baseURL (e.g. http://localhost:5000/api).
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		latency: movingaverage.New(20),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrGlobal(c.logger)
	return c
}

// AvgLatency is the moving average of the last 20 call durations.
func (c *Client) AvgLatency() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.samples == 0 {
		return 0
	}
	return time.Duration(c.latency.Avg() * float64(time.Millisecond))
}

func (c *Client) Stats(ctx context.Context) (model.Stats, error) {
	var out model.Stats
	err := c.getJSON(ctx, CallStats, "/stats", &out)
	return out, err
}

func (c *Client) BestHour(ctx context.Context) (model.BestHour, error) {
	if c.bestHours != nil {
		if v, ok := c.bestHours.Get(bestHourKey); ok {
			return v.(model.BestHour), nil
		}
	}
	var payload struct {
		OptimalHour *model.BestHour `json:"optimal_hour"`
	}
	if err := c.getJSON(ctx, CallBestHour, "/best-hours", &payload); err != nil {
		return model.BestHour{}, err
	}
	if payload.OptimalHour == nil {
		return model.BestHour{}, &APIError{Call: CallBestHour, Message: "response without optimal_hour"}
	}
	if c.bestHours != nil {
		c.bestHours.SetDefault(bestHourKey, *payload.OptimalHour)
	}
	return *payload.OptimalHour, nil
}

func (c *Client) NetworkLoad(ctx context.Context) ([]model.NetworkLoadSample, error) {
	var out []model.NetworkLoadSample
	err := c.getJSON(ctx, CallNetworkLoad, "/network-load", &out)
	return out, err
}

func (c *Client) Crew(ctx context.Context) ([]model.CrewMember, error) {
	var out []model.CrewMember
	err := c.getJSON(ctx, CallCrew, "/crew", &out)
	return out, err
}

func (c *Client) Patches(ctx context.Context) ([]model.Patch, error) {
	var out []model.Patch
	err := c.getJSON(ctx, CallPatches, "/patches", &out)
	return out, err
}

type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

func (c *Client) CreatePatch(ctx context.Context, in model.PatchInput) (model.Patch, error) {
	var payload struct {
		envelope
		Patch *model.Patch `json:"patch"`
	}
	status, body, err := c.do(ctx, CallCreatePatch, http.MethodPost, "/patches", in)
	if err != nil {
		return model.Patch{}, err
	}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil && isSuccess(status) {
			return model.Patch{}, fmt.Errorf("%s: decode response: %w", CallCreatePatch, err)
		}
	}
	if !isSuccess(status) || (payload.Success != nil && !*payload.Success) {
		return model.Patch{}, &APIError{Call: CallCreatePatch, Status: status, Message: orDefault(payload.Error, "failed to create patch")}
	}
	if payload.Patch == nil {
		return model.Patch{Name: in.Name, Duration: in.Duration, Priority: in.Priority, MinCrew: in.MinCrew, Notes: in.Notes, Urgent: in.Urgent}, nil
	}
	return *payload.Patch, nil
}

func (c *Client) Optimize(ctx context.Context) (OptimizeResult, error) {
	var payload struct {
		envelope
		OptimizeResult
	}
	status, body, err := c.do(ctx, CallOptimize, http.MethodPost, "/optimize-schedule", nil)
	if err != nil {
		return OptimizeResult{}, err
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		if !isSuccess(status) {
			return OptimizeResult{}, &APIError{Call: CallOptimize, Status: status, Message: http.StatusText(status)}
		}
		return OptimizeResult{}, fmt.Errorf("%s: decode response: %w", CallOptimize, err)
	}
	if payload.Success == nil || !*payload.Success {
		return OptimizeResult{}, &APIError{Call: CallOptimize, Status: status, Message: orDefault(payload.Error, "Optimization failed")}
	}
	return payload.OptimizeResult, nil
}

// Chat decodes the reply whatever the status; the service reports failures in the payload.
// An error is returned only when the call itself fails or the body is unreadable.
func (c *Client) Chat(ctx context.Context, message string) (ChatReply, error) {
	status, body, err := c.do(ctx, CallChat, http.MethodPost, "/chat", map[string]string{"message": message})
	if err != nil {
		return ChatReply{}, err
	}
	var reply ChatReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return ChatReply{}, &APIError{Call: CallChat, Status: status, Message: "unreadable reply"}
	}
	return reply, nil
}

func (c *Client) getJSON(ctx context.Context, call, path string, out any) error {
	status, body, err := c.do(ctx, call, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if !isSuccess(status) {
		var env envelope
		_ = json.Unmarshal(body, &env)
		return &APIError{Call: call, Status: status, Message: orDefault(env.Error, http.StatusText(status))}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", call, err)
	}
	return nil
}

// do performs one request and returns the status and body. Transport failures are errors;
// HTTP statuses are left to the caller.
func (c *Client) do(ctx context.Context, call, method, path string, in any) (int, []byte, error) {
	var reqBody io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, nil, fmt.Errorf("%s: encode request: %w", call, err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", call, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.observe(call, method, path, reqID, 0, err, time.Since(start))
		return 0, nil, fmt.Errorf("%s request failed: %w", call, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		c.observe(call, method, path, reqID, resp.StatusCode, err, elapsed)
		return resp.StatusCode, nil, fmt.Errorf("%s: read response: %w", call, err)
	}

	var statusErr error
	if !isSuccess(resp.StatusCode) {
		statusErr = fmt.Errorf("status %d", resp.StatusCode)
	}
	c.observe(call, method, path, reqID, resp.StatusCode, statusErr, elapsed)
	return resp.StatusCode, body, nil
}

func (c *Client) observe(call, method, path, reqID string, status int, err error, d time.Duration) {
	c.mu.Lock()
	c.latency.Add(float64(d) / float64(time.Millisecond))
	c.samples++
	c.mu.Unlock()
	c.metrics.ObserveCall(call, err, d)

	fields := []zap.Field{
		zap.String("call", call),
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", reqID),
		zap.Int("status", status),
		zap.Duration("duration", d),
	}
	if err != nil {
		c.logger.Warn("Remote call failed", append(fields, zap.Error(err))...)
		return
	}
	c.logger.Debug("Remote call", fields...)
}

func isSuccess(status int) bool { return status >= 200 && status < 300 }

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
