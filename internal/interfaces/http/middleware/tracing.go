package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing returns the otelgin span middleware followed by a handler that
// tags the span with the request ID and, once authenticated, the admin ID.
// The tagging handler sits inside the span, which otelgin ends on return.
// Disabled tracing yields an empty chain.
func Tracing(serviceName string, enabled bool) gin.HandlersChain {
	if !enabled {
		return nil
	}
	return gin.HandlersChain{otelgin.Middleware(serviceName), annotateSpan}
}

func annotateSpan(c *gin.Context) {
	c.Next()

	span := trace.SpanFromContext(c.Request.Context())
	if !span.IsRecording() {
		return
	}
	attrs := make([]attribute.KeyValue, 0, 2)
	if id := GetRequestID(c); id != "" {
		attrs = append(attrs, attribute.String("request_id", id))
	}
	if id := c.GetString(JWTUserIDKey); id != "" {
		attrs = append(attrs, attribute.String("admin_id", id))
	}
	span.SetAttributes(attrs...)

	if status := c.Writer.Status(); status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}
