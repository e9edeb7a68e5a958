// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dsws

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/logging"
	"golang.org/x/time/rate"
	"resty.dev/v3"

	"github.com/vishalbelsare/Datastream/frame"
	"github.com/vishalbelsare/Datastream/wire"
)

type contextKey int

const (
	clientContextKey contextKey = iota
)

// URL is the default server URL used when Config.URL is empty. It may be
// overwritten in tests before creating a new client.
var URL = "https://product.datastream.com"

// ServicePath of the REST API relative to the server URL.
const ServicePath = "/DSWSClient/V1/DSService.svc/rest/"

// Defaults of the client configuration.
const (
	DefaultTimeout       = 180 * time.Second
	DefaultRetries       = 3
	DefaultTokenLifetime = time.Hour
	tokenMargin          = time.Minute // renew the token this early
)

// Wait times between retries; exposed for tests.
var (
	RetryWaitTime    = 1 * time.Second
	RetryMaxWaitTime = 10 * time.Second
)

// Config of the client. It is typically loaded from a TOML credentials file.
type Config struct {
	URL      string  `toml:"url"` // server URL; "http:" is upgraded to "https:"
	Username string  `toml:"username"`
	Password string  `toml:"password"`
	Source   string  `toml:"source"` // data source: PROD, STAGING, QA
	AppID    string  `toml:"app_id"`
	Timeout  int     `toml:"timeout"` // in seconds; default 180
	Proxy    string  `toml:"proxy"`
	CertFile string  `toml:"cert_file"` // PEM root certificates
	Retries  int     `toml:"retries"`   // default 3; negative disables retries
	Rate     float64 `toml:"rate"`      // max requests per second; 0 = unlimited
	Workers  int     `toml:"workers"`   // bundle projection workers; default 1
}

// Validate the config and set defaults.
func (c *Config) Validate() error {
	if c.Username == "" {
		return errors.Reason("username is required")
	}
	if c.Password == "" {
		return errors.Reason("password is required")
	}
	if c.Timeout < 0 {
		return errors.Reason("timeout must be non-negative: %d", c.Timeout)
	}
	if c.Rate < 0 {
		return errors.Reason("rate must be non-negative: %f", c.Rate)
	}
	if c.Timeout == 0 {
		c.Timeout = int(DefaultTimeout / time.Second)
	}
	if c.Retries == 0 {
		c.Retries = DefaultRetries
	} else if c.Retries < 0 {
		c.Retries = 0
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	return nil
}

// serviceURL is the base URL of the REST methods. Only the scheme is
// normalized; the rest of a configured URL is kept as is.
func serviceURL(u string) string {
	if u = strings.TrimSpace(u); u == "" {
		u = URL
	} else if i := strings.Index(u, "://"); i >= 0 {
		scheme := strings.ToLower(u[:i])
		if scheme == "http" {
			scheme = "https"
		}
		u = scheme + u[i:]
	}
	return strings.TrimSuffix(u, "/") + ServicePath
}

// restyLogger sends resty's own messages to the context logger.
type restyLogger struct {
	ctx context.Context
}

var _ resty.Logger = restyLogger{}

func (l restyLogger) Errorf(format string, v ...any) { logging.Errorf(l.ctx, format, v...) }
func (l restyLogger) Warnf(format string, v ...any)  { logging.Warningf(l.ctx, format, v...) }
func (l restyLogger) Debugf(format string, v ...any) { logging.Debugf(l.ctx, format, v...) }

func retryCondition(r *resty.Response, err error) bool {
	if err != nil || r == nil || r.RawResponse == nil {
		return true
	}
	code := r.StatusCode()
	return fetch.ResponseRetriable(r.RawResponse) ||
		code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
}

func retryHook(r *resty.Response, err error) {
	if r == nil || r.Request == nil {
		return
	}
	ctx := r.Request.Context()
	if err != nil {
		logging.Debugf(ctx, "retrying %s [attempt %d]: %s", r.Request.URL, r.Request.Attempt, err.Error())
		return
	}
	logging.Debugf(ctx, "retrying %s [attempt %d]: status %d", r.Request.URL, r.Request.Attempt, r.StatusCode())
}

// Client of the DSWS service.
type Client struct {
	config  Config
	baseURL string
	http    *resty.Client
	limiter *rate.Limiter
	now     func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewClient creates a new client. The context is used for logging by the
// underlying HTTP client. An HTTP client injected with fetch.UseClient, if
// any, is used as the base transport; proxy and certificate settings are
// applied to it.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Annotate(err, "invalid config")
	}
	hc := resty.New()
	if base := fetch.GetClient(ctx); base != nil {
		hc = resty.NewWithClient(base)
	}
	hc.SetLogger(restyLogger{ctx: ctx}).
		SetHeader("Accept", "application/json").
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(RetryWaitTime).
		SetRetryMaxWaitTime(RetryMaxWaitTime).
		SetAllowNonIdempotentRetry(true).
		AddRetryConditions(retryCondition).
		AddRetryHooks(retryHook)
	if cfg.Proxy != "" {
		hc.SetProxy(cfg.Proxy)
	}
	if cfg.CertFile != "" {
		hc.SetRootCertificates(cfg.CertFile)
	}
	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	return &Client{
		config:  cfg,
		baseURL: serviceURL(cfg.URL),
		http:    hc,
		limiter: rate.NewLimiter(limit, 1),
		now:     time.Now,
	}, nil
}

// Close releases the resources of the client.
func (c *Client) Close() error {
	return c.http.Close()
}

// Config of the client with the defaults filled in.
func (c *Client) Config() Config { return c.config }

// GetClient extracts the Client from the context, if any.
func GetClient(ctx context.Context) *Client {
	c, ok := ctx.Value(clientContextKey).(*Client)
	if !ok {
		return nil
	}
	return c
}

// UseClient injects the client into the context.
func UseClient(ctx context.Context, c *Client) context.Context {
	return context.WithValue(ctx, clientContextKey, c)
}

func (c *Client) properties() []Property {
	var props []Property
	if c.config.Source != "" {
		props = append(props, Property{Key: SourceKey, Value: c.config.Source})
	}
	if c.config.AppID != "" {
		props = append(props, Property{Key: AppIDKey, Value: c.config.AppID})
	}
	return props
}

// Token returns a valid access token, fetching a new one when the cached
// token is missing or about to expire. A service message instead of a token
// is a frame.ServiceError.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expiry) {
		return c.token, nil
	}
	body := &TokenRequest{
		UserName:   c.config.Username,
		Password:   c.config.Password,
		Properties: c.properties(),
	}
	var tr wire.TokenResponse
	if err := c.post(ctx, "GetToken", body, &tr); err != nil {
		return "", errors.Annotate(err, "failed to fetch token")
	}
	if tr.Message != "" {
		return "", frame.NewServiceError(tr.Message)
	}
	if tr.TokenValue == "" {
		return "", frame.NewServiceError("invalid token value")
	}
	expiry, err := wire.ParseTime(tr.TokenExpiry)
	if err != nil {
		logging.Debugf(ctx, "token expiry '%s' not recognized, assuming %s",
			tr.TokenExpiry, DefaultTokenLifetime)
		expiry = c.now().Add(DefaultTokenLifetime)
	}
	c.token = tr.TokenValue
	c.expiry = expiry.Add(-tokenMargin)
	logging.Debugf(ctx, "new token expires at %s", expiry.Format(time.RFC3339))
	return c.token, nil
}

// post sends the JSON body to the REST method and decodes the response into
// result.
func (c *Client) post(ctx context.Context, method string, body, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Annotate(err, "rate limiter failed")
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetExpectResponseContentType("application/json").
		SetBody(body).
		SetResult(result).
		Post(c.baseURL + method)
	if err != nil {
		return errors.Annotate(err, "%s failed", method)
	}
	if !resp.IsSuccess() {
		return errors.Reason("%s returned status %d: %s", method, resp.StatusCode(), resp.String())
	}
	return nil
}

// FetchData sends a single request and returns the raw response.
func (c *Client) FetchData(ctx context.Context, req *DataRequest) (*wire.DataResponse, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}
	body := &DataEnvelope{DataRequest: req, Properties: c.properties(), TokenValue: token}
	var env wire.DataEnvelope
	if err := c.post(ctx, "GetData", body, &env); err != nil {
		return nil, err
	}
	if env.DataResponse == nil {
		if env.Message != "" {
			return nil, frame.NewServiceError(env.Message)
		}
		return nil, frame.NewMalformedError()
	}
	if req.ReturnsNames() {
		logNames(ctx, env.DataResponse)
	}
	return env.DataResponse, nil
}

// FetchDataBundle sends several requests in one call and returns the raw
// responses.
func (c *Client) FetchDataBundle(ctx context.Context, reqs []*DataRequest) ([]wire.DataResponse, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}
	body := &BundleEnvelope{DataRequests: reqs, Properties: c.properties(), TokenValue: token}
	var env wire.BundleEnvelope
	if err := c.post(ctx, "GetDataBundle", body, &env); err != nil {
		return nil, err
	}
	if env.DataResponses == nil {
		if env.Message != "" {
			return nil, frame.NewServiceError(env.Message)
		}
		return nil, frame.NewMalformedError()
	}
	if len(env.DataResponses) != len(reqs) {
		logging.Warningf(ctx, "bundle of %d requests returned %d responses",
			len(reqs), len(env.DataResponses))
	}
	for i := range env.DataResponses {
		if i < len(reqs) && reqs[i].ReturnsNames() {
			logNames(ctx, &env.DataResponses[i])
		}
	}
	return env.DataResponses, nil
}

// GetData sends a single request and projects the response into a frame.
func (c *Client) GetData(ctx context.Context, req *DataRequest) (*frame.Frame, error) {
	resp, err := c.FetchData(ctx, req)
	if err != nil {
		return nil, err
	}
	return frame.Project(ctx, resp)
}

// GetDataBundle sends several requests in one call and projects each
// response. The error is non-nil only when the call as a whole fails;
// failures of individual responses are in the results. There is exactly one
// result per request: surplus responses are dropped, and requests left
// without a response get a MalformedResponse error.
func (c *Client) GetDataBundle(ctx context.Context, reqs []*DataRequest) (frame.Results, error) {
	resps, err := c.FetchDataBundle(ctx, reqs)
	if err != nil {
		return nil, err
	}
	if len(resps) > len(reqs) {
		resps = resps[:len(reqs)]
	}
	res := frame.ProjectBundle(ctx, resps, c.config.Workers)
	for len(res) < len(reqs) {
		res = append(res, frame.Result{Err: frame.NewMalformedError()})
	}
	return res, nil
}

// GetData is a shortcut for GetClient(ctx).GetData(ctx, req).
func GetData(ctx context.Context, req *DataRequest) (*frame.Frame, error) {
	c := GetClient(ctx)
	if c == nil {
		return nil, errors.Reason("no client in context")
	}
	return c.GetData(ctx, req)
}

// GetDataBundle is a shortcut for GetClient(ctx).GetDataBundle(ctx, reqs).
func GetDataBundle(ctx context.Context, reqs []*DataRequest) (frame.Results, error) {
	c := GetClient(ctx)
	if c == nil {
		return nil, errors.Reason("no client in context")
	}
	return c.GetDataBundle(ctx, reqs)
}
