// Package telemetry reports errors and panics to Sentry.
//
// Usage in main.go:
//
//	telemetry.Init(cfg.Telemetry, version)
//	defer telemetry.Flush()
//
// Everything here is safe to call when Sentry is disabled.
package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/mantonx/lineup/internal/config"
)

// Init initializes the Sentry SDK. An empty DSN leaves Sentry disabled and
// returns false.
func Init(cfg config.TelemetryConfig, release string) (bool, error) {
	if cfg.SentryDSN == "" {
		return false, nil
	}
	if cfg.Release != "" {
		release = cfg.Release
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          release,
		AttachStacktrace: true,
		Tags:             map[string]string{"service": "lineup"},
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			return scrub(event)
		},
	})
	if err != nil {
		return false, fmt.Errorf("sentry.Init: %w", err)
	}
	return true, nil
}

// CaptureError sends err to Sentry with optional tags
func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

// Flush waits for buffered events to be sent
func Flush() {
	sentry.Flush(2 * time.Second)
}

// Recovery catches panics, reports them with request context and answers 500
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			err, ok := rec.(error)
			if !ok {
				err = fmt.Errorf("panic: %v", rec)
			}

			hub := sentry.CurrentHub().Clone()
			hub.Scope().SetRequest(c.Request)
			hub.Scope().SetTag("panic", "true")
			hub.Scope().SetTag("route", c.FullPath())
			hub.CaptureException(err)

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
				"code":  "INTERNAL_ERROR",
			})
		}()
		c.Next()
	}
}

// ReportServerErrors sends the last error attached to a 5xx response
func ReportServerErrors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Writer.Status() < http.StatusInternalServerError || len(c.Errors) == 0 {
			return
		}
		CaptureError(c.Errors.Last().Err, map[string]string{
			"method": c.Request.Method,
			"route":  c.FullPath(),
		})
	}
}

// scrub removes credentials and addresses before events leave the process
func scrub(event *sentry.Event) *sentry.Event {
	if event == nil {
		return nil
	}
	if event.User.Email != "" {
		event.User.Email = "[redacted]"
	}
	event.User.IPAddress = ""
	if event.Request != nil {
		for k := range event.Request.Headers {
			switch k {
			case "Authorization", "Cookie":
				event.Request.Headers[k] = "[redacted]"
			}
		}
	}
	return event
}
