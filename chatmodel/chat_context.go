package chatmodel

import (
	"context"
	"strconv"

	"github.com/effective-security/x/values"
	"github.com/effective-security/xdb/pkg/flake"
)

// ChatContext carries the identity of a single request through the agent,
// the chat client and the tool calls.
type ChatContext interface {
	// GetRequestID returns the ID of the request
	GetRequestID() string
}

type chatContext struct {
	requestID string
}

func (c *chatContext) GetRequestID() string {
	return c.requestID
}

// NewChatContext returns ChatContext,
// a new ID is generated if requestID is empty.
func NewChatContext(requestID string) ChatContext {
	return &chatContext{
		requestID: values.StringsCoalesce(requestID, NewRequestID()),
	}
}

type contextKey int

const (
	keyContext contextKey = iota
)

// WithChatContext returns a new context with ChatContext value
func WithChatContext(ctx context.Context, chatCtx ChatContext) context.Context {
	return context.WithValue(ctx, keyContext, chatCtx)
}

// GetChatContext retrieves the ChatContext from the context
func GetChatContext(ctx context.Context) ChatContext {
	if v, ok := ctx.Value(keyContext).(ChatContext); ok {
		return v
	}
	return nil
}

// EnsureChatContext returns the context with ChatContext,
// a new one is created if ctx has none.
func EnsureChatContext(ctx context.Context) (context.Context, ChatContext) {
	if c := GetChatContext(ctx); c != nil {
		return ctx, c
	}
	c := NewChatContext("")
	return WithChatContext(ctx, c), c
}

// GetRequestID retrieves the request ID from the provided context.
// If the context does not contain a ChatContext, it returns an empty string.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(keyContext).(ChatContext); ok {
		return v.GetRequestID()
	}
	return ""
}

// NewRequestID generates a new request ID using the flake ID generator.
func NewRequestID() string {
	return strconv.FormatUint(flake.DefaultIDGenerator.NextID(), 10)
}
