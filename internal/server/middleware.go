package server

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackzampolin/promptbox/internal/svcctx"
)

const headerRequestID = "X-Request-ID"

// requestID tags each request with an ID, reusing the caller's X-Request-ID
// when present.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerRequestID))
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(headerRequestID, id)
		c.Next()
	}
}

// withServices enriches the request context with services once the store
// is open.
func (s *Server) withServices() gin.HandlerFunc {
	return func(c *gin.Context) {
		if svc := s.services.Load(); svc != nil {
			c.Request = c.Request.WithContext(svcctx.WithServices(c.Request.Context(), svc))
		}
		c.Next()
	}
}

// requestLogger logs one line per request, at a level chosen by status.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString("request_id"),
		}
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			attrs = append(attrs, "trace_id", sc.TraceID().String())
		}

		switch {
		case status >= 500:
			logger.Error("HTTP request", attrs...)
		case status >= 400:
			logger.Warn("HTTP request", attrs...)
		default:
			logger.Debug("HTTP request", attrs...)
		}
	}
}

// recovery turns a panicking handler into a 500 with the generic error
// envelope.
func recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, err any) {
		logger.Error("panic recovered",
			"error", err,
			"path", c.Request.URL.Path,
			"request_id", c.GetString("request_id"),
			"stack", string(debug.Stack()),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong!"})
	})
}

// corsMiddleware checks origins against the server's current allow list,
// which can change on config reload.
func (s *Server) corsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc: s.allowOrigin,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", headerRequestID},
		ExposeHeaders:   []string{headerRequestID},
		MaxAge:          12 * time.Hour,
	})
}

// originSet is an immutable allow list. A nil set rejects every
// cross-origin request.
type originSet struct {
	any     bool
	origins map[string]struct{}
}

func newOriginSet(origins []string) *originSet {
	set := &originSet{origins: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			set.any = true
			continue
		}
		if o != "" {
			set.origins[o] = struct{}{}
		}
	}
	return set
}

func (s *Server) allowOrigin(origin string) bool {
	set := s.origins.Load()
	if set == nil {
		return false
	}
	if set.any {
		return true
	}
	_, ok := set.origins[origin]
	return ok
}

// SetAllowedOrigins replaces the CORS allow list. "*" allows any origin.
func (s *Server) SetAllowedOrigins(origins []string) {
	s.origins.Store(newOriginSet(origins))
}
