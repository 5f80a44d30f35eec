package reddit

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultAPIBaseURL  = "https://oauth.reddit.com"
	defaultAuthBaseURL = "https://www.reddit.com"
)

// Config holds the credentials and pacing budget for the client.
type Config struct {
	ClientID          string
	ClientSecret      string
	UserAgent         string
	RequestsPerMinute int
}

// Client is an application-only (script) API client. It is not safe for
// concurrent use: token state and the pacer assume a single calling
// goroutine, which matches the sequential scrape/analyze flow.
type Client struct {
	cfg      Config
	http     *http.Client
	pacer    *Pacer
	apiBase  string
	authBase string

	token       string
	tokenExpiry time.Time
}

// Option configures the client.
type Option func(*Client)

// WithAPIBaseURL overrides the API base URL.
func WithAPIBaseURL(u string) Option {
	return func(c *Client) { c.apiBase = strings.TrimRight(u, "/") }
}

// WithAuthBaseURL overrides the token-endpoint base URL.
func WithAuthBaseURL(u string) Option {
	return func(c *Client) { c.authBase = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a client with a pacer sized to cfg.RequestsPerMinute.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = "threadlens/1.0"
	}
	c := &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		pacer:    NewPacer(cfg.RequestsPerMinute),
		apiBase:  defaultAPIBaseURL,
		authBase: defaultAuthBaseURL,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Pacer exposes the client's pacer so callers sharing the client can honor
// the same budget.
func (c *Client) Pacer() *Pacer {
	return c.pacer
}

type tokenResponse struct {
	AccessToken string  `json:"access_token"`
	ExpiresIn   float64 `json:"expires_in"`
}

func (c *Client) authenticate(ctx context.Context) error {
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.authBase+"/api/v1/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return eris.Wrap(err, "reddit: create token request")
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "reddit: token request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "reddit: read token response")
	}
	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("reddit: token endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return eris.Wrap(err, "reddit: unmarshal token response")
	}
	if tok.AccessToken == "" {
		return eris.New("reddit: token endpoint returned no access token (check credentials)")
	}

	c.token = tok.AccessToken
	// Renew a minute early so in-flight batches never race expiry.
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - time.Minute)

	return nil
}

// getJSON performs an authenticated GET and decodes the response into out.
// Callers are responsible for pacing; getJSON itself never sleeps.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.authenticate(ctx); err != nil {
		return err
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("raw_json", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.apiBase+path+"?"+query.Encode(), nil)
	if err != nil {
		return eris.Wrapf(err, "reddit: create request %s", path)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrapf(err, "reddit: get %s", path)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrapf(err, "reddit: read response %s", path)
	}
	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("reddit: %s returned %d: %s", path, resp.StatusCode, truncate(string(body), 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrapf(err, "reddit: unmarshal response %s", path)
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
