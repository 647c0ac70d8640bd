package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	routeTagKey  contextKey = "route_tag"
)

// GenerateRequestID generates a unique request ID in format "req-XXXXXX"
func GenerateRequestID() string {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "req-000000"
	}
	return "req-" + hex.EncodeToString(b)
}

// ExtractRouteTag extracts a short route tag from a URL path
// For /api/recipes/secret/transform -> "recipes:secret"
// For /api/transform -> "transform"
// For /health -> "health"
func ExtractRouteTag(urlPath string) string {
	path := strings.TrimPrefix(urlPath, "/api")

	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return "/"
	}

	if len(parts) > 1 {
		return parts[0] + ":" + parts[1]
	}
	return parts[0]
}

// WithRequestID adds request ID to context
func WithRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, requestIDKey, reqID)
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(requestIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// WithRouteTag adds route tag to context
func WithRouteTag(ctx context.Context, routeTag string) context.Context {
	return context.WithValue(ctx, routeTagKey, routeTag)
}

// GetRouteTag retrieves route tag from context
func GetRouteTag(ctx context.Context) string {
	if v := ctx.Value(routeTagKey); v != nil {
		return v.(string)
	}
	return ""
}
