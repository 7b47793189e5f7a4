package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/chatmodel"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var objectSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"a": map[string]any{"type": "number"},
		"b": map[string]any{"type": "number"},
	},
}

func newTestServer(pageSize int) *mcpsdk.Server {
	var opts *mcpsdk.ServerOptions
	if pageSize > 0 {
		opts = &mcpsdk.ServerOptions{PageSize: pageSize}
	}
	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: "test-server", Version: "test"}, opts)

	server.AddTool(&mcpsdk.Tool{
		Name:        "add",
		Description: "Adds two numbers",
		InputSchema: objectSchema,
	}, func(_ context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		var args struct {
			A float64 `json:"a"`
			B float64 `json:"b"`
		}
		if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
			return nil, err
		}
		raw, _ := json.Marshal(args.A + args.B)
		return &mcpsdk.CallToolResult{
			Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(raw)}},
		}, nil
	})

	server.AddTool(&mcpsdk.Tool{
		Name:        "fail",
		Description: "Always fails",
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{}},
	}, func(_ context.Context, _ *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		return &mcpsdk.CallToolResult{
			IsError: true,
			Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: "boom"}},
		}, nil
	})

	server.AddTool(&mcpsdk.Tool{
		Name:        "multi",
		Description: "Returns several parts",
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{}},
	}, func(_ context.Context, _ *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		return &mcpsdk.CallToolResult{
			Content: []mcpsdk.Content{
				&mcpsdk.TextContent{Text: "first"},
				&mcpsdk.ImageContent{Data: []byte("png"), MIMEType: "image/png"},
				&mcpsdk.TextContent{Text: "last"},
			},
		}, nil
	})

	return server
}

type inMemoryEndpoint struct {
	server   *mcpsdk.Server
	sessions atomic.Int32
	wg       sync.WaitGroup
}

func (e *inMemoryEndpoint) transport(_ context.Context) (mcpsdk.Transport, error) {
	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	e.sessions.Add(1)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ss, err := e.server.Connect(context.Background(), serverTransport, nil)
		if err != nil {
			return
		}
		_ = ss.Wait()
	}()
	return clientTransport, nil
}

func newTestClient(t *testing.T, pageSize int) (*Client, *inMemoryEndpoint) {
	t.Helper()
	e := &inMemoryEndpoint{server: newTestServer(pageSize)}
	c, err := NewClient("http://localhost:8001/sse", WithTransport(e.transport))
	require.NoError(t, err)
	t.Cleanup(e.wg.Wait)
	return c, e
}

func TestNewClient(t *testing.T) {
	tcases := []struct {
		endpoint string
		exp      string
		err      string
	}{
		{endpoint: "http://localhost:8001/sse", exp: "http://localhost:8001/sse"},
		{endpoint: " HTTPS://mcp.example.com/sse ", exp: "https://mcp.example.com/sse"},
		{endpoint: "ftp://x", err: `unsupported scheme "ftp": invalid MCP endpoint`},
		{endpoint: "", err: "endpoint is empty: invalid MCP endpoint"},
		{endpoint: "localhost:8001", err: `unsupported scheme "localhost": invalid MCP endpoint`},
		{endpoint: "http:///sse", err: `"http:///sse": missing host: invalid MCP endpoint`},
	}

	for _, tc := range tcases {
		t.Run(tc.endpoint, func(t *testing.T) {
			c, err := NewClient(tc.endpoint)
			if tc.err != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidEndpoint))
				assert.EqualError(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.exp, c.Endpoint())
		})
	}
}

func TestListTools(t *testing.T) {
	for _, pageSize := range []int{0, 1} {
		c, e := newTestClient(t, pageSize)

		list, err := c.ListTools(context.Background())
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, int32(1), e.sessions.Load(), "one session per operation")

		byName := map[string]chatmodel.ToolDescriptor{}
		for _, td := range list {
			byName[td.Name] = td
		}
		require.Contains(t, byName, "add")
		assert.Equal(t, "Adds two numbers", byName["add"].Description)
		assert.Equal(t, "object", byName["add"].Parameters["type"])
		assert.Contains(t, byName["add"].Parameters["properties"], "a")
		assert.Contains(t, byName, "fail")
		assert.Contains(t, byName, "multi")
	}
}

func TestInvokeTool(t *testing.T) {
	c, e := newTestClient(t, 0)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		res, err := c.InvokeTool(ctx, "add", map[string]any{"a": 2, "b": 2})
		require.NoError(t, err)
		assert.Equal(t, "4", res.Content)
		assert.Equal(t, chatmodel.ErrorCodeNone, res.ErrorCode)
		assert.False(t, res.IsError())
	})

	t.Run("remote error is data", func(t *testing.T) {
		res, err := c.InvokeTool(ctx, "fail", nil)
		require.NoError(t, err)
		assert.Equal(t, "boom", res.Content)
		assert.Equal(t, chatmodel.ErrorCodeToolError, res.ErrorCode)
		assert.True(t, res.IsError())
	})

	t.Run("content parts", func(t *testing.T) {
		res, err := c.InvokeTool(ctx, "multi", map[string]any{})
		require.NoError(t, err)
		lines := strings.Split(res.Content, "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "first", lines[0])
		assert.Contains(t, lines[1], `"type":"image"`)
		assert.Contains(t, lines[1], `"mimeType":"image/png"`)
		assert.Equal(t, "last", lines[2])
	})

	t.Run("unknown tool", func(t *testing.T) {
		_, err := c.InvokeTool(ctx, "missing", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to call tool missing")
	})

	t.Run("concurrent", func(t *testing.T) {
		before := e.sessions.Load()
		var wg sync.WaitGroup
		results := make([]string, 5)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				res, err := c.InvokeTool(ctx, "add", map[string]any{"a": i, "b": 1})
				if assert.NoError(t, err) {
					results[i] = res.Content
				}
			}(i)
		}
		wg.Wait()
		assert.Equal(t, []string{"1", "2", "3", "4", "5"}, results)
		assert.Equal(t, before+5, e.sessions.Load())
	})
}

func TestTransportFailure(t *testing.T) {
	t.Run("factory", func(t *testing.T) {
		c, err := NewClient("http://localhost:8001/sse", WithTransport(func(context.Context) (mcpsdk.Transport, error) {
			return nil, errors.New("no route")
		}))
		require.NoError(t, err)

		_, err = c.ListTools(context.Background())
		assert.EqualError(t, err, "failed to create transport: no route")
		_, err = c.InvokeTool(context.Background(), "add", nil)
		assert.EqualError(t, err, "failed to create transport: no route")
	})

	t.Run("endpoint down", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		endpoint := srv.URL + "/sse"
		srv.Close()

		for _, opts := range [][]Option{
			nil,
			{WithStreamableHTTP(), WithHTTPClient(http.DefaultClient)},
		} {
			c, err := NewClient(endpoint, opts...)
			require.NoError(t, err)

			_, err = c.InvokeTool(context.Background(), "add", map[string]any{"a": 1})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to connect to "+endpoint)
		}
	})
}

func TestConversions(t *testing.T) {
	td, err := toToolDescriptor(nil)
	require.NoError(t, err)
	assert.Empty(t, td.Name)

	td, err = toToolDescriptor(&mcpsdk.Tool{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", td.Name)
	assert.Nil(t, td.Parameters)

	res, err := toInvocationResult(nil)
	require.NoError(t, err)
	assert.Equal(t, &chatmodel.ToolInvocationResult{}, res)

	res, err = toInvocationResult(&mcpsdk.CallToolResult{IsError: true})
	require.NoError(t, err)
	assert.Empty(t, res.Content)
	assert.True(t, res.IsError())
}
