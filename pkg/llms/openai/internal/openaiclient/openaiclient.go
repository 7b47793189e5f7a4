package openaiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
	"github.com/openai/openai-go/v3"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent/pkg/llms/openai", "openaiclient")

// ErrEmptyModels is returned when the endpoint does not advertise any model.
var ErrEmptyModels = errors.New("no models available")

// Doer performs a HTTP request.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for an OpenAI-compatible chat endpoint.
type Client struct {
	token      string
	baseURL    string
	httpClient Doer
}

// New returns a new client. The base URL is used as is, without the trailing slash.
func New(baseURL, token string, httpClient Doer) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		token:      token,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the endpoint base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateChat sends one chat completion request. The response is returned as decoded.
func (c *Client) CreateChat(ctx context.Context, payload *ChatRequest) (*openai.ChatCompletion, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshal payload")
	}

	u := c.buildURL("/chat/completions")
	logger.ContextKV(ctx, xlog.DEBUG,
		"url", u,
		"model", payload.Model,
		"messages", len(payload.Messages),
		"tools", len(payload.Tools),
	)

	resp := new(openai.ChatCompletion)
	if err = c.do(ctx, http.MethodPost, u, body, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListModels returns the models advertised by the endpoint.
func (c *Client) ListModels(ctx context.Context) ([]openai.Model, error) {
	u := c.buildURL("/models")
	logger.ContextKV(ctx, xlog.DEBUG, "url", u)

	var list modelList
	if err := c.do(ctx, http.MethodGet, u, nil, &list); err != nil {
		return nil, err
	}
	if len(list.Data) == 0 {
		return nil, errors.WithStack(ErrEmptyModels)
	}
	return list.Data, nil
}

type modelList struct {
	Data []openai.Model `json:"data"`
}

func (c *Client) do(ctx context.Context, method, u string, body []byte, result any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	c.setHeaders(req)

	r, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "send request")
	}
	defer func() { _ = r.Body.Close() }()

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}

	if r.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("API returned unexpected status code: %d", r.StatusCode)
		if r.StatusCode == http.StatusNotFound {
			msg += ": url: " + u
		}
		var errResp errorMessage
		if err := json.Unmarshal(raw, &errResp); err != nil || errResp.Error.Message == "" {
			logger.ContextKV(ctx, xlog.DEBUG, "status", r.StatusCode, "body", slices.StringUpto(string(raw), 256))
			return errors.New(msg)
		}
		return errors.Errorf("%s: %s", msg, errResp.Error.Message)
	}

	if err = json.Unmarshal(raw, result); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *Client) buildURL(suffix string) string {
	return c.baseURL + suffix
}

type errorMessage struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
