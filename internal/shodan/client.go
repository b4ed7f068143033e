// Package shodan is a minimal client for the Shodan REST API, covering the
// two endpoints the host-intel phase needs: domain search and host lookup.
// Rate limits and plan restrictions are the service's concern; errors from
// either surface as ordinary request errors.
package shodan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wkarim/osintagent/internal/models"
)

const defaultBaseURL = "https://api.shodan.io"

// Client wraps the Shodan REST API
type Client struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

// NewClient creates a Shodan API client. The key may be empty; every call
// then fails with a descriptive error, which the host-intel phase records
// as a recoverable error rather than aborting the run.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
}

// SearchDomain searches for hosts whose hostname matches the target domain,
// returning at most maxResults summaries.
func (c *Client) SearchDomain(ctx context.Context, domain string, maxResults int) ([]models.HostSummary, error) {
	body, err := c.get(ctx, "/shodan/host/search", map[string]string{
		"query": "hostname:" + domain,
	})
	if err != nil {
		return nil, fmt.Errorf("shodan domain search for %q: %w", domain, err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing shodan search response: %w", err)
	}

	matches := resp.Matches
	if maxResults > 0 && len(matches) > maxResults {
		matches = matches[:maxResults]
	}

	hosts := make([]models.HostSummary, 0, len(matches))
	for _, m := range matches {
		hosts = append(hosts, models.HostSummary{
			IP:        m.IPStr,
			Port:      m.Port,
			Hostnames: m.Hostnames,
			Org:       m.Org,
			Product:   m.Product,
		})
	}
	return hosts, nil
}

// HostLookup fetches the full record for a single IP: open ports, service
// banners, and flagged vulnerabilities.
func (c *Client) HostLookup(ctx context.Context, ip string) (*models.HostDetail, error) {
	body, err := c.get(ctx, "/shodan/host/"+url.PathEscape(ip), nil)
	if err != nil {
		return nil, fmt.Errorf("shodan host lookup for %q: %w", ip, err)
	}

	var resp hostResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing shodan host response: %w", err)
	}

	detail := &models.HostDetail{
		IP:        resp.IPStr,
		Hostnames: resp.Hostnames,
		Org:       resp.Org,
		OS:        resp.OS,
		Ports:     resp.Ports,
		Vulns:     resp.Vulns,
	}
	for _, svc := range resp.Data {
		detail.Banners = append(detail.Banners, models.ServiceBanner{
			Port:    svc.Port,
			Product: svc.Product,
			Version: svc.Version,
			Banner:  truncateBanner(svc.Banner),
		})
	}
	return detail, nil
}

// get performs an authenticated GET and returns the response body.
// Non-200 responses are unwrapped into the API's error message when present.
func (c *Client) get(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("SHODAN_API_KEY not set")
	}

	u, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return nil, fmt.Errorf("building request URL: %w", err)
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("shodan API error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("shodan API returned status %d", resp.StatusCode)
	}

	return body, nil
}

// truncateBanner caps banner text so state and reports stay bounded
func truncateBanner(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
