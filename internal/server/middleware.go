package server

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/classic-cipher-go/internal/auth"
	"github.com/classic-cipher-go/internal/trace"
)

// TraceMiddleware adds request tracing context to each request
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := trace.GenerateRequestID()
		routeTag := trace.ExtractRouteTag(c.Request.URL.Path)

		ctx := trace.WithRequestID(c.Request.Context(), reqID)
		ctx = trace.WithRouteTag(ctx, routeTag)
		c.Request = c.Request.WithContext(ctx)

		c.Header("X-Request-ID", reqID)
		c.Next()
	}
}

// LoggerMiddleware logs one structured line per request
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		ctx := c.Request.Context()
		log.Info().
			Str("req_id", trace.GetRequestID(ctx)).
			Str("route", trace.GetRouteTag(ctx)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Int("bytes", c.Writer.Size()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// CORSMiddleware handles CORS headers
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-CSRF-Token")
		c.Header("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

// ForceHTTPSMiddleware redirects HTTP to HTTPS
func ForceHTTPSMiddleware(httpsPort int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.TLS == nil && c.GetHeader("X-Forwarded-Proto") != "https" {
			host := c.Request.Host
			if h, _, err := net.SplitHostPort(host); err == nil {
				host = h
			}
			if httpsPort != 443 {
				host = fmt.Sprintf("%s:%d", host, httpsPort)
			}
			target := fmt.Sprintf("https://%s%s", host, c.Request.URL.RequestURI())
			c.Redirect(http.StatusMovedPermanently, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthMiddleware validates JWT tokens and stores the username in the
// request context. Failures answer HTTP 200 with the error code in the
// body, the convention the admin frontend expects.
func AuthMiddleware(jwtAuth *auth.JWTAuth) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			token = c.Query("token")
		}

		if token == "" {
			c.JSON(http.StatusOK, gin.H{"code": 401, "msg": "user unlogin"})
			c.Abort()
			return
		}

		claims, err := jwtAuth.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"code": 401, "msg": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}
