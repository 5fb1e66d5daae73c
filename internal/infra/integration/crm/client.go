package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kundanj/leadpilot/internal/entity"
)

// Cookie names under which the CRM issues its CSRF token, matched
// case-insensitively.
var csrfCookieNames = []string{"xsrf-token", "xsrftoken"}

const (
	preflightTimeout = 10 * time.Second
	saveTimeout      = 15 * time.Second
)

// Client posts leads to the CRM. The CRM uses a Sanctum-style handshake: a
// GET to /sanctum/csrf-cookie seeds a cookie jar with a CSRF token, which is
// then echoed back in the X-XSRF-TOKEN header on the store call.
type Client struct {
	apiURL *url.URL
	apiKey string
	http   *http.Client
}

func NewClient(apiURL, apiKey string) (*Client, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return nil, eris.Wrap(err, "crm: parse api url")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, eris.Wrap(err, "crm: cookie jar")
	}

	return &Client{
		apiURL: u,
		apiKey: apiKey,
		// Timeouts are set per call; the save deadline is longer than the
		// preflight deadline.
		http: &http.Client{Jar: jar},
	}, nil
}

// Save normalizes the lead and posts it to the CRM. The CSRF preflight is
// best effort: if the token cannot be obtained the store call proceeds
// without it. A non-2xx status or transport failure on the store call itself
// is an error; on success the CRM's response body is returned verbatim.
func (c *Client) Save(ctx context.Context, lead entity.LeadRecord) (map[string]any, error) {
	c.fetchCSRFCookie(ctx)

	body, err := json.Marshal(Normalize(lead))
	if err != nil {
		return nil, eris.Wrap(err, "crm: marshal payload")
	}

	reqCtx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.apiURL.String(), bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "crm: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", c.apiURL.String())
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}
	if token := c.csrfToken(); token != "" {
		req.Header.Set("X-XSRF-TOKEN", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "crm: store request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "crm: read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, eris.Errorf("crm: store failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var ack map[string]any
	if err := json.Unmarshal(respBody, &ack); err != nil {
		return nil, eris.Wrap(err, "crm: decode response")
	}
	return ack, nil
}

// fetchCSRFCookie performs the best-effort preflight. Failures are swallowed:
// the store call is attempted regardless.
func (c *Client) fetchCSRFCookie(ctx context.Context) {
	reqCtx, cancel := context.WithTimeout(ctx, preflightTimeout)
	defer cancel()

	csrfURL := *c.apiURL
	csrfURL.Path = "/sanctum/csrf-cookie"
	csrfURL.RawQuery = ""

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, csrfURL.String(), nil)
	if err != nil {
		return
	}

	resp, err := c.http.Do(req)
	if err != nil {
		zap.L().Debug("crm csrf preflight failed", zap.Error(err))
		return
	}
	resp.Body.Close()
}

func (c *Client) csrfToken() string {
	for _, cookie := range c.http.Jar.Cookies(c.apiURL) {
		name := strings.ToLower(cookie.Name)
		for _, want := range csrfCookieNames {
			if name == want {
				return cookie.Value
			}
		}
	}
	return ""
}
