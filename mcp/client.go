// Package mcp provides a client for a remote MCP tool endpoint.
//
// Every operation opens its own session: the transport is connected, the
// initialize handshake is performed, one request is sent and the session is
// closed. Concurrent invocations never share a session.
package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/chatmodel"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent", "mcp")

// ErrInvalidEndpoint is returned when the endpoint is not an http(s) URL.
var ErrInvalidEndpoint = errors.New("invalid MCP endpoint")

// TransportFactory returns a new transport for one session.
type TransportFactory func(ctx context.Context) (mcpsdk.Transport, error)

// Client is a tool endpoint client.
type Client struct {
	endpoint   string
	impl       *mcpsdk.Implementation
	factory    TransportFactory
	streamable bool
	httpClient *http.Client
}

var _ tools.Provider = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithTransport overrides the transport used for each session.
func WithTransport(factory TransportFactory) Option {
	return func(c *Client) {
		c.factory = factory
	}
}

// WithStreamableHTTP selects the streamable HTTP transport instead of SSE.
func WithStreamableHTTP() Option {
	return func(c *Client) {
		c.streamable = true
	}
}

// WithHTTPClient sets the HTTP client used by the SSE and streamable transports.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithImplementation sets the client name and version reported in the handshake.
func WithImplementation(name, version string) Option {
	return func(c *Client) {
		c.impl = &mcpsdk.Implementation{Name: name, Version: version}
	}
}

// NewClient returns a client for the endpoint.
// No connection is made until the first operation.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	normalized, err := NormalizeEndpoint(endpoint)
	if err != nil {
		return nil, err
	}

	c := &Client{
		endpoint: normalized,
		impl:     &mcpsdk.Implementation{Name: "mcpagent", Version: "v1"},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.factory == nil {
		c.factory = c.httpTransport
	}
	return c, nil
}

// NormalizeEndpoint validates that the endpoint is an http or https URL with a host.
func NormalizeEndpoint(endpoint string) (string, error) {
	raw := strings.TrimSpace(endpoint)
	if raw == "" {
		return "", errors.Wrap(ErrInvalidEndpoint, "endpoint is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidEndpoint, "%q: %s", raw, err.Error())
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", errors.Wrapf(ErrInvalidEndpoint, "unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.Wrapf(ErrInvalidEndpoint, "%q: missing host", raw)
	}
	u.Scheme = scheme
	return u.String(), nil
}

// Endpoint returns the normalized endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

func (c *Client) httpTransport(_ context.Context) (mcpsdk.Transport, error) {
	if c.streamable {
		return &mcpsdk.StreamableClientTransport{Endpoint: c.endpoint, HTTPClient: c.httpClient}, nil
	}
	return &mcpsdk.SSEClientTransport{Endpoint: c.endpoint, HTTPClient: c.httpClient}, nil
}

func (c *Client) connect(ctx context.Context) (*mcpsdk.ClientSession, error) {
	transport, err := c.factory(ctx)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create transport")
	}
	session, err := mcpsdk.NewClient(c.impl, nil).Connect(ctx, transport, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %s", c.endpoint)
	}
	return session, nil
}

// ListTools returns the descriptors of the tools on the endpoint.
func (c *Client) ListTools(ctx context.Context) ([]chatmodel.ToolDescriptor, error) {
	session, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = session.Close() }()

	var list []chatmodel.ToolDescriptor
	params := &mcpsdk.ListToolsParams{}
	for {
		res, err := session.ListTools(ctx, params)
		if err != nil {
			return nil, errors.Wrap(err, "failed to list tools")
		}
		for _, tool := range res.Tools {
			td, err := toToolDescriptor(tool)
			if err != nil {
				return nil, err
			}
			list = append(list, td)
		}
		if res.NextCursor == "" {
			break
		}
		params = &mcpsdk.ListToolsParams{Cursor: res.NextCursor}
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "tools_listed",
		"endpoint", c.endpoint,
		"count", len(list),
	)
	return list, nil
}

// InvokeTool calls the tool on the endpoint.
// A tool that reports an error is returned as a result with the error code set.
func (c *Client) InvokeTool(ctx context.Context, name string, arguments map[string]any) (*chatmodel.ToolInvocationResult, error) {
	started := time.Now()

	session, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = session.Close() }()

	if arguments == nil {
		arguments = map[string]any{}
	}
	res, err := session.CallTool(ctx, &mcpsdk.CallToolParams{Name: name, Arguments: arguments})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to call tool %s", name)
	}

	result, err := toInvocationResult(res)
	if err != nil {
		return nil, errors.WithMessagef(err, "tool %s", name)
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "tool_called",
		"tool", name,
		"error_code", result.ErrorCode,
		"content", slices.StringUpto(result.Content, 64),
		"elapsed", time.Since(started).String(),
	)
	return result, nil
}

func toToolDescriptor(tool *mcpsdk.Tool) (chatmodel.ToolDescriptor, error) {
	if tool == nil {
		return chatmodel.ToolDescriptor{}, nil
	}
	td := chatmodel.ToolDescriptor{
		Name:        tool.Name,
		Description: tool.Description,
	}
	if tool.InputSchema != nil {
		raw, err := json.Marshal(tool.InputSchema)
		if err != nil {
			return td, errors.Wrapf(err, "invalid input schema of tool %s", tool.Name)
		}
		if err = json.Unmarshal(raw, &td.Parameters); err != nil {
			return td, errors.Wrapf(err, "invalid input schema of tool %s", tool.Name)
		}
	}
	return td, nil
}

func toInvocationResult(res *mcpsdk.CallToolResult) (*chatmodel.ToolInvocationResult, error) {
	result := &chatmodel.ToolInvocationResult{}
	if res == nil {
		return result, nil
	}
	if res.IsError {
		result.ErrorCode = chatmodel.ErrorCodeToolError
	}

	parts := make([]string, 0, len(res.Content))
	for _, content := range res.Content {
		switch c := content.(type) {
		case *mcpsdk.TextContent:
			parts = append(parts, c.Text)
		default:
			raw, err := json.Marshal(content)
			if err != nil {
				return nil, errors.Wrap(err, "failed to serialize content")
			}
			parts = append(parts, string(raw))
		}
	}
	result.Content = strings.Join(parts, "\n")
	return result, nil
}
