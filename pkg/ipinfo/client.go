package ipinfo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/juan-malbeclabs/solana/pkg/httpkit"
	"github.com/juan-malbeclabs/solana/pkg/record"
)

// DefaultBaseURL is the public ipinfo.io endpoint
const DefaultBaseURL = "https://ipinfo.io"

// Client represents an ipinfo.io API client
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a new ipinfo client with custom HTTP client, base URL and access token
func NewClient(httpClient *http.Client, baseURL, token string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
	}
}

// Lookup retrieves the geolocation details of ip.
// The response object is returned as is, typically with ip, hostname, city, region,
// country, loc, org, postal and timezone fields.
func (c *Client) Lookup(ctx context.Context, ip string) (*record.Record, error) {
	endpoint := fmt.Sprintf("%s/%s/json?token=%s", c.baseURL, url.PathEscape(ip), url.QueryEscape(c.token))

	info, err := httpkit.GetJSON(ctx, c.httpClient, endpoint, record.DecodeObject)
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", ip, err)
	}
	return info, nil
}
