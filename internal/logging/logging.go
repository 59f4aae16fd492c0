// Package logging builds the application logger and the gin middleware that
// tags every request with an id.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	RequestIDHeader = "X-Request-ID"
	entryKey        = "logEntry"
)

// New returns a logger writing to stdout. Production logs are JSON.
func New(level string, production bool) (*logrus.Logger, error) {
	return NewWithOutput(os.Stdout, level, production)
}

// NewWithOutput is New with an explicit writer.
func NewWithOutput(out io.Writer, level string, production bool) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)
	if production {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}

// Discard returns a logger that writes nowhere. Used by tests.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// RequestLogger assigns a request id (reusing the incoming header when present),
// stores a request-scoped entry in the gin context and logs the outcome.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		entry := logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		})
		c.Set(entryKey, entry)

		c.Next()

		fields := logrus.Fields{
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.WithFields(fields).Error("request failed")
		case status >= 400:
			entry.WithFields(fields).Info("request rejected")
		default:
			entry.WithFields(fields).Debug("request served")
		}
	}
}

// FromContext returns the request-scoped entry, or a standard-logger entry when
// the middleware did not run.
func FromContext(c *gin.Context) *logrus.Entry {
	if v, ok := c.Get(entryKey); ok {
		if e, ok := v.(*logrus.Entry); ok {
			return e
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
