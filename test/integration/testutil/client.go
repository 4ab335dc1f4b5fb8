package testutil

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"
)

// Client drives the storefront like a browser with redirects turned off,
// so every Post/Redirect/Get hop can be asserted.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type Response struct {
	StatusCode int
	Location   string
	Body       string
}

func (c *Client) GET(t *testing.T, path string) *Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	return c.do(t, req)
}

// PostForm submits form the way an HTML form would.
func (c *Client) PostForm(t *testing.T, path string, form url.Values) *Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, c.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(t, req)
}

// Follow GETs the redirect target of resp.
func (c *Client) Follow(t *testing.T, resp *Response) *Response {
	t.Helper()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303 See Other, got %d: %s", resp.StatusCode, resp.Body)
	}
	return c.GET(t, resp.Location)
}

func (c *Client) do(t *testing.T, req *http.Request) *Response {
	t.Helper()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Location:   resp.Header.Get("Location"),
		Body:       string(body),
	}
}

func AssertStatusCode(t *testing.T, resp *Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d: %s", want, resp.StatusCode, resp.Body)
	}
}
