package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ohmynofan/token-balances/internal/platform/logger"
	"github.com/ohmynofan/token-balances/pkg/utils"
)

type HTTPError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP Error %d: %s", e.StatusCode, e.Status)
}

type FetchOptions struct {
	Method string
	Token  string
	// Query is encoded with go-querystring `url` tags and appended to the
	// endpoint.
	Query             interface{}
	Body              interface{}
	RawBody           []byte
	AdditionalHeaders map[string]string
}

type APIClient struct {
	Proxy      string
	UserAgent  string
	HTTPClient *http.Client
	Log        *logger.ClassLogger
}

func NewAPIClient(proxy string) (*APIClient, error) {
	transport := &http.Transport{}

	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	apiClient := &APIClient{
		Proxy:     proxy,
		UserAgent: "token-balances/1.0 (+https://github.com/ohmynofan/token-balances)",
		HTTPClient: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
	}
	apiClient.Log = logger.NewLogger(apiClient)

	return apiClient, nil
}

func (c *APIClient) _generateHeaders(token string) map[string]string {
	headers := map[string]string{
		"Accept":        "application/json, text/plain, */*",
		"Content-Type":  "application/json",
		"User-Agent":    c.UserAgent,
		"Cache-Control": "no-cache",
	}
	if token != "" {
		if !strings.HasPrefix(strings.ToLower(token), "bearer ") {
			token = "Bearer " + token
		}
		headers["Authorization"] = token
	}
	return headers
}

// Fetch returns the decoded JSON body when the response is JSON and the raw
// body as a string otherwise. Non-2xx responses become *HTTPError.
func (c *APIClient) Fetch(ctx context.Context, endpoint string, opts *FetchOptions) (interface{}, error) {
	body, contentType, err := c.do(ctx, endpoint, opts)
	if err != nil {
		return nil, err
	}
	if strings.Contains(contentType, "application/json") {
		var data interface{}
		if err := json.Unmarshal(body, &data); err == nil {
			return data, nil
		}
	}
	return string(body), nil
}

// FetchJSON decodes the response body into out regardless of its declared
// content type.
func (c *APIClient) FetchJSON(ctx context.Context, endpoint string, opts *FetchOptions, out interface{}) error {
	body, _, err := c.do(ctx, endpoint, opts)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

func (c *APIClient) do(ctx context.Context, endpoint string, opts *FetchOptions) ([]byte, string, error) {
	if opts == nil {
		opts = &FetchOptions{}
	}

	if opts.Method == "" {
		opts.Method = "GET"
	}

	if opts.Query != nil {
		encoded, err := utils.EncodeURLParams(opts.Query)
		if err != nil {
			return nil, "", err
		}
		if encoded != "" {
			sep := "?"
			if strings.Contains(endpoint, "?") {
				sep = "&"
			}
			endpoint += sep + encoded
		}
	}

	var reqBody io.Reader = nil
	if opts.RawBody != nil && opts.Body != nil {
		return nil, "", fmt.Errorf("cannot specify both Body and RawBody")
	}

	useRawBody := opts.RawBody != nil
	hasBody := useRawBody || (opts.Method != "GET" && opts.Body != nil)

	var bodyCopy []byte
	if hasBody {
		if useRawBody {
			bodyCopy = opts.RawBody
		} else {
			jsonBody, err := json.Marshal(opts.Body)
			if err != nil {
				return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
			}
			bodyCopy = jsonBody
		}
		reqBody = bytes.NewReader(bodyCopy)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, endpoint, reqBody)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range c._generateHeaders(opts.Token) {
		req.Header.Set(key, value)
	}
	for key, value := range opts.AdditionalHeaders {
		req.Header.Set(key, value)
	}

	if !hasBody {
		req.Header.Del("Content-Type")
	}

	if hasBody {
		c.Log.JustLog(fmt.Sprintf("%s %s\nBody:\n%s", opts.Method, endpoint, utils.BeautifyJSON(bodyCopy)))
	} else {
		c.Log.JustLog(fmt.Sprintf("%s %s", opts.Method, endpoint))
	}

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request error: %w", err)
	}
	defer res.Body.Close()

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %w", err)
	}

	c.Log.JustLog(fmt.Sprintf("Response %s (%d bytes)", res.Status, len(resBodyBytes)))

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return resBodyBytes, res.Header.Get("Content-Type"), nil
	}

	return nil, "", &HTTPError{
		StatusCode: res.StatusCode,
		Status:     res.Status,
		Body:       resBodyBytes,
	}
}
