package rest

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/apierror"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
)

const msgNotAuthorized = "Not authorized to access this route"

const tracerName = "github.com/dmitrijs2005/taskkeeper/internal/server/rest"

// RecoverPanic converts panics into a 500 JSON response.
func RecoverPanic(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"request_id", c.GetHeader(common.RequestIDHeaderName),
					"panic", fmt.Sprint(recovered),
					"stack", strings.TrimSpace(string(debug.Stack())),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.Response{Message: "Server Error"})
			}
		}()
		c.Next()
	}
}

var requestIDCounter atomic.Uint64

// RequestID injects and echoes a request id for correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(common.RequestIDHeaderName)
		if requestID == "" {
			requestID = fmt.Sprintf("tk-%d-%d", time.Now().UnixNano(), requestIDCounter.Add(1))
			c.Request.Header.Set(common.RequestIDHeaderName, requestID)
		}
		c.Header(common.RequestIDHeaderName, requestID)
		c.Next()
	}
}

// Tracing starts a server span per request, continuing any trace passed in
// the request headers. The span is named after the matched route.
func Tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		r := c.Request
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := otel.Tracer(tracerName).Start(ctx, "HTTP "+r.Method,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", r.URL.Path),
			),
		)
		defer span.End()

		c.Request = r.WithContext(ctx)
		c.Next()

		if route := c.FullPath(); route != "" {
			span.SetName(r.Method + " " + route)
			span.SetAttributes(attribute.String("http.route", route))
		}
		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}

// AccessLog logs one line per request.
func AccessLog(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetHeader(common.RequestIDHeaderName),
		)
	}
}

// TokenVerifier validates a bearer token.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// bearerToken extracts the token from "Bearer <token>". The scheme is
// matched case-insensitively and exactly one non-empty token must follow.
func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], common.BearerScheme) || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth admits only requests carrying a valid bearer token and puts
// the resulting identity into the request context. Every rejection gets the
// same 401 body.
func RequireAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.Response{Message: msgNotAuthorized})
			return
		}

		id, err := tokens.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.Response{Message: msgNotAuthorized})
			return
		}

		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}
